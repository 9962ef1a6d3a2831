package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// RunFunc executes one pipeline run.
type RunFunc func(ctx context.Context) error

// Scheduler repeats a pipeline run on a fixed interval for hosts that have no
// external scheduler. Runs never overlap: the next wait starts only after the
// previous run returns.
type Scheduler struct {
	run      RunFunc
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that calls run every interval.
func NewScheduler(run RunFunc, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		run:      run,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then waits interval
// between cycles. A failed run is logged and the loop goes on. It returns nil
// when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	for {
		s.runOnce(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := s.run(ctx); err != nil {
		s.logger.Error("run failed", "error", err, "duration", time.Since(start).Round(time.Millisecond))
		return
	}
	s.logger.Debug("run finished", "duration", time.Since(start).Round(time.Millisecond))
}
