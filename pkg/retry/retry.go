package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Backoff computes the wait before the given 1-based attempt is retried.
type Backoff interface {
	Next(attempt int) time.Duration
}

// Constant waits the same interval between every attempt.
type Constant struct {
	Interval time.Duration
}

func (b Constant) Next(int) time.Duration { return b.Interval }

// Exponential grows the wait by Multiplier each attempt, with optional jitter,
// capped at MaxInterval.
type Exponential struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	JitterFactor    float64
}

func (b Exponential) Next(attempt int) time.Duration {
	d := float64(b.InitialInterval) * math.Pow(b.Multiplier, float64(attempt-1))
	if b.JitterFactor > 0 {
		d += rand.Float64() * b.JitterFactor * d
	}
	if max := float64(b.MaxInterval); b.MaxInterval > 0 && d > max {
		d = max
	}
	return time.Duration(d)
}

// Do runs fn up to attempts times, waiting per the backoff between failures.
// It returns nil on the first success, the context error if cancelled while
// waiting, and otherwise the last error wrapped with the attempt count.
func Do(ctx context.Context, attempts int, backoff Backoff, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-time.After(backoff.Next(attempt)):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled during backoff: %w", ctx.Err())
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", attempts, lastErr)
}
