package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// jitterFraction spreads each backoff by up to this share either way.
const jitterFraction = 0.2

// RetryProvider retries transient failures of the wrapped provider with
// capped exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p with cfg's retry policy.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	retriedInvalid := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch policyFor(err) {
		case noRetry:
			return nil, err
		case retryOnce:
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}
		if attempt >= r.config.MaxAttempts {
			return nil, err
		}
		if werr := sleepContext(ctx, r.delay(attempt, err)); werr != nil {
			return nil, werr
		}
	}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// delay is the wait before attempt+1. A rate limit with a RetryAfter hint
// waits exactly that long.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait)
	for range attempt - 1 {
		wait *= r.config.Multiplier
		if wait >= float64(r.config.MaxWait) {
			break
		}
	}
	wait = min(wait, float64(r.config.MaxWait))
	wait += wait * jitterFraction * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
