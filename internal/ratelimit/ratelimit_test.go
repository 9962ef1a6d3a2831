package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWait_BlocksForDelay(t *testing.T) {
	p := NewPacer(100 * time.Millisecond)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	elapsed := time.Since(start)

	// Allow a little timer jitter.
	if elapsed < 90*time.Millisecond {
		t.Errorf("expected >= 90ms wait, got %v", elapsed)
	}
}

func TestWait_EveryCallWaits(t *testing.T) {
	p := NewPacer(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 140*time.Millisecond {
		t.Errorf("expected three full pauses (>= 140ms), got %v", elapsed)
	}
}

func TestWait_ZeroDelay(t *testing.T) {
	p := NewPacer(0)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("expected near-instant return, got %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	p := NewPacer(5 * time.Second) // long delay

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := p.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
