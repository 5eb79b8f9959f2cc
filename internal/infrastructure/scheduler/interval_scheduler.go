// Package scheduler drives the periodic sync ticks.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TickRunner is the unit of work executed on every interval.
type TickRunner interface {
	RunTick(ctx context.Context)
}

// IntervalScheduler runs a TickRunner on a fixed interval. Ticks run
// sequentially on one goroutine; a tick that outlives the interval delays
// the next one rather than overlapping it.
type IntervalScheduler struct {
	interval time.Duration
	runner   TickRunner
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalScheduler creates a scheduler with the given tick interval.
func NewIntervalScheduler(interval time.Duration, runner TickRunner, logger *zap.Logger) *IntervalScheduler {
	return &IntervalScheduler{
		interval: interval,
		runner:   runner,
		logger:   logger,
	}
}

// Start starts the tick loop. Calling Start on a running scheduler is a
// no-op.
func (s *IntervalScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Sync scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop stops the tick loop and waits for an in-flight tick to finish, or
// until ctx expires.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *IntervalScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

// runTick isolates panics so one bad tick cannot kill the loop.
func (s *IntervalScheduler) runTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Sync tick panicked", zap.Any("panic", r))
		}
	}()
	s.runner.RunTick(ctx)
}
