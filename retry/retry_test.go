package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSucceedsAfterFailures(t *testing.T) {
	var delays []time.Duration
	m := NewManager(3, 100*time.Millisecond, 2)
	m.sleep = func(d time.Duration) { delays = append(delays, d) }

	attempts := 0
	err := m.Execute(context.Background(), func() error {
		attempts++
		if attempts <= 2 {
			return errors.New("boom")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	// Exactly two sleeps: baseDelay, then baseDelay*backoff.
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, delays)
}

func TestExecuteExhaustsRetries(t *testing.T) {
	var delays []time.Duration
	m := NewManager(2, 50*time.Millisecond, 3)
	m.sleep = func(d time.Duration) { delays = append(delays, d) }

	finalErr := errors.New("still broken")
	attempts := 0
	err := m.Execute(context.Background(), func() error {
		attempts++
		return finalErr
	})

	// The last failure's error comes back unchanged.
	assert.Same(t, finalErr, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 150 * time.Millisecond}, delays)
}

func TestExecuteNoRetriesConfigured(t *testing.T) {
	m := NewManager(0, time.Second, 2)
	m.sleep = func(time.Duration) { t.Fatal("should not sleep") }

	attempts := 0
	err := m.Execute(context.Background(), func() error {
		attempts++
		return errors.New("once")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestExecuteHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager(3, time.Millisecond, 2)
	err := m.Execute(ctx, func() error {
		t.Fatal("operation should not run on a cancelled context")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
