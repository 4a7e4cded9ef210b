package utils

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryDelay pauses before the given retry attempt. Wait returns ctx.Err()
// when ctx ends first.
type RetryDelay interface {
	Wait(ctx context.Context, taskName string, attempt int) error
}

// ConstantDelay waits Period seconds between attempts.
type ConstantDelay struct {
	Period int
}

func (d ConstantDelay) Wait(ctx context.Context, taskName string, attempt int) error {
	return sleepContext(ctx, time.Duration(d.Period)*time.Second)
}

// ExponentialBackoff waits min(2*2^attempt, 10) seconds plus up to one second of jitter.
type ExponentialBackoff struct{}

func (d ExponentialBackoff) Wait(ctx context.Context, taskName string, attempt int) error {
	return sleepContext(ctx, d.Backoff(attempt))
}

// Backoff returns the pause before attempt, jitter included.
func (d ExponentialBackoff) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	backoff := math.Min(2*math.Pow(2, float64(attempt)), 10)
	jitter := time.Duration(rand.Int64N(int64(time.Second)))
	return time.Duration(backoff*float64(time.Second)) + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
