package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerRunNow(t *testing.T) {
	var calls int32
	runner := NewRunner("test", time.Hour, func(ctx context.Context, now time.Time) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, nil)

	require.NoError(t, runner.RunNow(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunnerRejectsOverlappingRun(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	runner := NewRunner("test", time.Hour, func(ctx context.Context, now time.Time) error {
		close(entered)
		<-release
		return nil
	}, nil)

	done := make(chan error, 1)
	go func() { done <- runner.RunNow(context.Background()) }()
	<-entered

	err := runner.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrPassInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestRunnerTickerInvokesPass(t *testing.T) {
	var calls int32
	runner := NewRunner("test", 10*time.Millisecond, func(ctx context.Context, now time.Time) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, nil)

	runner.Start(context.Background())
	defer runner.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestRunnerStopWaitsForPass(t *testing.T) {
	runner := NewRunner("test", 5*time.Millisecond, func(ctx context.Context, now time.Time) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	}, nil)

	runner.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	runner.Stop()

	// Stop is idempotent.
	runner.Stop()
}
