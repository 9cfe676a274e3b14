package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts int) Backoff {
	return Backoff{
		Attempts:        attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
	}
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastBackoff(3), func(ctx context.Context) error {
		calls++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var notified []int
	err := Do(context.Background(), fastBackoff(3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		notified = append(notified, attempt)
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, notified)
}

func TestDo_GivesUp(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Do(context.Background(), fastBackoff(2), func(ctx context.Context) error {
		calls++
		return boom
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "gave up after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestDo_Permanent(t *testing.T) {
	boom := errors.New("bad password")
	calls := 0
	err := Do(context.Background(), fastBackoff(5), func(ctx context.Context) error {
		calls++
		return Permanent(boom)
	}, nil)

	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCanceledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := Backoff{Attempts: 3, InitialInterval: time.Hour, MaxInterval: time.Hour, Multiplier: 1}

	err := Do(ctx, b, func(ctx context.Context) error {
		cancel()
		return errors.New("down")
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_ZeroAttemptsStillTriesOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), Backoff{}, func(ctx context.Context) error {
		calls++
		return errors.New("x")
	}, nil)
	assert.Equal(t, 1, calls)
}

func TestBackoff_Interval(t *testing.T) {
	b := Backoff{Attempts: 5, InitialInterval: 100 * time.Millisecond, MaxInterval: 300 * time.Millisecond, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, b.Interval(0))
	assert.Equal(t, 200*time.Millisecond, b.Interval(1))
	assert.Equal(t, 300*time.Millisecond, b.Interval(2))
	assert.Equal(t, 300*time.Millisecond, b.Interval(6))
}

func TestBackoff_IntervalJitterBounds(t *testing.T) {
	b := Backoff{Attempts: 2, InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second, Multiplier: 2, JitterFactor: 0.1}

	for i := 0; i < 50; i++ {
		d := b.Interval(0)
		assert.GreaterOrEqual(t, d, 90*time.Millisecond)
		assert.LessOrEqual(t, d, 110*time.Millisecond)
	}
}
