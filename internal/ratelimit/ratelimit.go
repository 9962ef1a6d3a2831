package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Pacer enforces a fixed pause between notification dispatches so the sink
// never sees a burst. The pause blocks the caller; nothing else proceeds
// while it runs.
type Pacer struct {
	delay time.Duration
}

// NewPacer creates a pacer that waits delay on every call to Wait.
// A zero delay makes Wait return immediately.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Delay returns the configured pause.
func (p *Pacer) Delay() time.Duration { return p.delay }

// Wait blocks for the configured delay.
// Returns an error if the context is cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("pacer wait: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
