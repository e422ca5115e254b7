package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultConfig(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoFailTwiceThenSucceed(t *testing.T) {
	cfg := Config{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond, MaxDelay: time.Second}

	calls := 0
	var gaps []time.Duration
	last := time.Now()

	err := Do(context.Background(), cfg, func() error {
		now := time.Now()
		gaps = append(gaps, now.Sub(last))
		last = now
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	// Delay doubles: ~base before attempt 2, ~2x base before attempt 3.
	require.Len(t, gaps, 3)
	assert.GreaterOrEqual(t, gaps[1], cfg.BaseDelay)
	assert.GreaterOrEqual(t, gaps[2], 2*cfg.BaseDelay)
}

func TestDoExhaustsAttempts(t *testing.T) {
	cfg := Config{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Second}

	calls := 0
	sentinel := errors.New("still broken")
	err := Do(context.Background(), cfg, func() error {
		calls++
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanent(t *testing.T) {
	cfg := Config{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: time.Second}

	calls := 0
	sentinel := errors.New("bad request")
	err := Do(context.Background(), cfg, func() error {
		calls++
		return Permanent(sentinel)
	})

	assert.ErrorIs(t, err, sentinel)
	assert.True(t, IsPermanent(err))
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContextCancel(t *testing.T) {
	cfg := Config{MaxAttempts: 10, BaseDelay: time.Hour, MaxDelay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, cfg, func() error {
		calls++
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancel during backoff must not run another attempt")
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
	assert.False(t, IsPermanent(nil))
}

func TestDoWithValue(t *testing.T) {
	cfg := Config{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Second}

	calls := 0
	value, err := DoWithValue(context.Background(), cfg, func() (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 2, calls)
}
