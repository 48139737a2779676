// ABOUTME: Tests for backoff calculation and context-aware waiting
// ABOUTME: Checks growth, caps, jitter bounds, and cancellation
package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff_NonPositive(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		attempt int
	}{
		{"zero attempt", time.Second, 0},
		{"negative attempt", time.Second, -1},
		{"very negative attempt", time.Second, -100},
		{"zero base", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateBackoff(tt.base, tt.attempt); got != 0 {
				t.Errorf("CalculateBackoff(%v, %d) = %v, want 0", tt.base, tt.attempt, got)
			}
		})
	}
}

func TestCalculateBackoff_ExponentialGrowth(t *testing.T) {
	baseDelay := 100 * time.Millisecond

	for attempt := 1; attempt <= 5; attempt++ {
		expectedBase := baseDelay * time.Duration(1<<uint(attempt))
		minExpected := expectedBase * 3 / 4
		maxExpected := expectedBase * 5 / 4

		result := CalculateBackoff(baseDelay, attempt)
		if result < minExpected || result > maxExpected {
			t.Errorf("attempt %d: expected backoff between %v and %v, got %v",
				attempt, minExpected, maxExpected, result)
		}
	}
}

func TestCalculateBackoff_Caps(t *testing.T) {
	maxAllowed := MaxBackoff * 5 / 4

	for _, attempt := range []int{10, 31, 100} {
		result := CalculateBackoff(time.Second, attempt)
		if result > maxAllowed || result < 0 {
			t.Errorf("attempt %d: backoff %v outside [0, %v]", attempt, result, maxAllowed)
		}
	}
}

func TestCalculateBackoff_Jitter(t *testing.T) {
	seen := map[time.Duration]bool{}
	for i := 0; i < 100; i++ {
		r := CalculateBackoff(time.Second, 2)
		if r < 3*time.Second || r > 5*time.Second {
			t.Fatalf("sample %d: expected between 3s and 5s, got %v", i, r)
		}
		seen[r] = true
	}
	if len(seen) < 2 {
		t.Error("jitter should produce varying results")
	}
}

func TestWait_Elapses(t *testing.T) {
	start := time.Now()
	if err := Wait(context.Background(), time.Millisecond, 1); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if time.Since(start) < time.Millisecond {
		t.Error("Wait() returned before the backoff elapsed")
	}
}

func TestWait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, time.Hour, 3)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestWait_ZeroAttempt(t *testing.T) {
	if err := Wait(context.Background(), time.Hour, 0); err != nil {
		t.Errorf("Wait() error = %v, want nil", err)
	}
}
