package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesTasks(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	queue := NewQueue("test", func(ctx context.Context, task Task) error {
		mu.Lock()
		seen = append(seen, task.ID)
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 2})

	queue.Start(context.Background())
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Task{ID: "t-1", Kind: "notify"}))
	require.NoError(t, queue.Enqueue(Task{ID: "t-2", Kind: "notify"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestQueueRejectsWhenNotStarted(t *testing.T) {
	queue := NewQueue("test", func(ctx context.Context, task Task) error { return nil }, QueueConfig{})

	err := queue.Enqueue(Task{ID: "t-1"})
	assert.Error(t, err)
}

func TestQueueRetriesFailedTask(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	queue := NewQueue("test", func(ctx context.Context, task Task) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: time.Millisecond})

	queue.Start(context.Background())
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Task{ID: "t-1", Kind: "notify"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts == 2
	}, time.Second, 5*time.Millisecond)
}

func TestQueueDropsTaskAfterMaxRetries(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	queue := NewQueue("test", func(ctx context.Context, task Task) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		return errors.New("permanent")
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: time.Millisecond})

	queue.Start(context.Background())
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Task{ID: "t-1", Kind: "notify"}))

	// First attempt plus two retries, then the task is dropped.
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts == 3
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 3, attempts)
	mu.Unlock()
}
