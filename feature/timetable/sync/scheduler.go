package sync

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// CycleFunc runs one synchronization cycle.
type CycleFunc func(ctx context.Context) error

// Scheduler runs one cycle at start and then on a fixed interval.
// A single in-flight guard prevents overlapping cycles even when the
// interval is shorter than a cycle's duration.
type Scheduler struct {
	interval time.Duration
	cycle    CycleFunc
	logger   *zap.Logger

	inFlight atomic.Bool
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler creates a scheduler for the given cycle function.
func NewScheduler(interval time.Duration, cycle CycleFunc, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		cycle:    cycle,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the scheduling loop in a goroutine and returns.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		s.RunOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit. A cycle already in flight
// runs to completion.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

// RunOnce executes a single cycle unless one is already in flight.
// It reports whether the cycle actually ran. Cycle errors are logged,
// never propagated: the next tick makes forward progress.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("Previous synchronization cycle still running, skipping tick")
		return false
	}
	defer s.inFlight.Store(false)

	if err := s.cycle(ctx); err != nil {
		s.logger.Error("Synchronization cycle failed", zap.Error(err))
	}
	return true
}
