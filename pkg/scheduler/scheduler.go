package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrPassInFlight is returned when a run is requested while another is active.
var ErrPassInFlight = errors.New("pass already in flight")

// PassFunc executes one evaluation pass at the given wall-clock time.
type PassFunc func(ctx context.Context, now time.Time) error

// Runner invokes a pass on a fixed interval. At most one pass runs at a
// time: the ticker and any manual trigger share the same lock, so an
// overlapping invocation is rejected rather than queued.
type Runner struct {
	name     string
	interval time.Duration
	pass     PassFunc
	logger   *zap.Logger

	runMu   sync.Mutex
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewRunner builds a runner for the given pass function.
func NewRunner(name string, interval time.Duration, pass PassFunc, logger *zap.Logger) *Runner {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{name: name, interval: interval, pass: pass, logger: logger}
}

// Start launches the ticker loop. Safe to call once.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.loop()
	r.started = true
	r.logger.Sugar().Infow("scheduler started", "name", r.name, "interval", r.interval)
}

// Stop cancels the loop and waits for any in-flight pass to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.mu.Unlock()
	r.wg.Wait()
	r.logger.Sugar().Infow("scheduler stopped", "name", r.name)
}

// RunNow executes a pass immediately, for manual triggers. Returns
// ErrPassInFlight when another pass holds the lock.
func (r *Runner) RunNow(ctx context.Context) error {
	if !r.runMu.TryLock() {
		return ErrPassInFlight
	}
	defer r.runMu.Unlock()
	return r.pass(ctx, time.Now().UTC())
}

func (r *Runner) loop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := r.RunNow(r.ctx); err != nil {
				if errors.Is(err, ErrPassInFlight) {
					r.logger.Sugar().Warnw("skipping scheduled pass, previous still running", "name", r.name)
					continue
				}
				r.logger.Sugar().Errorw("scheduled pass failed", "name", r.name, "error", err)
			}
		}
	}
}
