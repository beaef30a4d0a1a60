package pipeline

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig bounds the exponential backoff used for pipeline attempts.
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryConfig retries three times starting at five seconds.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, BaseDelay: 5 * time.Second, MaxDelay: 2 * time.Minute}
}

// withRetry runs fn with exponential backoff and jitter until it succeeds,
// attempts are exhausted, or the context is canceled.
func withRetry(ctx context.Context, cfg RetryConfig, fn func(context.Context) error) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}

	var err error
	delay := cfg.BaseDelay
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == cfg.Attempts {
			break
		}

		jittered := delay + time.Duration(rand.Int63n(int64(delay)/2+1))
		select {
		case <-time.After(jittered):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay *= 2
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return err
}
