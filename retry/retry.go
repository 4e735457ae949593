// Package retry wraps fallible operations in exponential backoff.
package retry

import (
	"context"
	"math"
	"time"
)

// Manager retries an operation with exponential backoff: maxRetries+1
// attempts in total, sleeping baseDelay*backoff^attempt between them. The
// final attempt's error is returned unchanged. No jitter, no overall
// deadline — the caller bounds total time through the context.
type Manager struct {
	MaxRetries int
	BaseDelay  time.Duration
	Backoff    float64

	sleep func(time.Duration) // overridable in tests
}

func NewManager(maxRetries int, baseDelay time.Duration, backoff float64) *Manager {
	return &Manager{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		Backoff:    backoff,
		sleep:      time.Sleep,
	}
}

// Execute runs op until it succeeds or the retry budget is exhausted.
func (m *Manager) Execute(ctx context.Context, op func() error) error {
	sleep := m.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 0; attempt <= m.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if attempt == m.MaxRetries {
			break
		}

		sleep(time.Duration(float64(m.BaseDelay) * math.Pow(m.Backoff, float64(attempt))))
	}
	return lastErr
}
