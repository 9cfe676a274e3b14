// Package retry runs startup-time operations with exponential backoff.
// Request paths never use it.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Backoff describes how long to wait between attempts
type Backoff struct {
	// Attempts is the total number of tries, including the first
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// JitterFactor of 0.1 means +/-10%
	JitterFactor float64
}

// DefaultBackoff returns 3 attempts starting at one second
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts:        3,
		InitialInterval: time.Second,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

func (b Backoff) normalized() Backoff {
	if b.Attempts < 1 {
		b.Attempts = 1
	}
	if b.InitialInterval < 0 {
		b.InitialInterval = 0
	}
	if b.MaxInterval < b.InitialInterval {
		b.MaxInterval = b.InitialInterval
	}
	if b.Multiplier < 1 {
		b.Multiplier = 1
	}
	b.JitterFactor = math.Max(0, math.Min(1, b.JitterFactor))
	return b
}

// Interval returns the wait before the attempt following attempt n (0-based)
func (b Backoff) Interval(n int) time.Duration {
	b = b.normalized()
	interval := float64(b.InitialInterval) * math.Pow(b.Multiplier, float64(n))
	if b.JitterFactor > 0 {
		jitter := interval * b.JitterFactor
		interval += (rand.Float64()*2 - 1) * jitter
	}
	if interval > float64(b.MaxInterval) {
		interval = float64(b.MaxInterval)
	}
	if interval < 0 {
		interval = 0
	}
	return time.Duration(interval)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent stops Do from trying again
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Notify is called before each wait
type Notify func(attempt int, err error, wait time.Duration)

// Do calls op until it succeeds, returns a permanent error, the attempts run
// out, or ctx is done.
func Do(ctx context.Context, b Backoff, op func(ctx context.Context) error, notify Notify) error {
	b = b.normalized()

	var lastErr error
	for attempt := 0; attempt < b.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return perm.err
		}

		if attempt == b.Attempts-1 {
			break
		}

		wait := b.Interval(attempt)
		if notify != nil {
			notify(attempt+1, lastErr, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", b.Attempts, lastErr)
}
