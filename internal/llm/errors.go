package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoProvider is returned when content generation is turned off. Callers
// serve their embedded fallback content instead.
var ErrNoProvider = errors.New("llm: no provider configured")

// ErrRateLimit is a 429 from the provider.
type ErrRateLimit struct {
	// RetryAfter is the provider's hint, zero when it gave none.
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm: rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm: rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse is content that is not JSON or does not satisfy the
// request schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("llm: invalid response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers server errors and unreachable hosts.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm: provider unavailable"
	}
	return fmt.Sprintf("llm: provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is structured output cut off at MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("llm: response truncated at max tokens after %d bytes", len(e.Content))
}

// retryPolicy says how often a failure may be retried.
type retryPolicy int

const (
	noRetry retryPolicy = iota
	retryOnce
	retryUntilExhausted
)

// policyFor classifies err. Cancellation and truncation are final, a bad
// response gets one more try, and everything else counts as transient.
func policyFor(err error) retryPolicy {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return noRetry
	case errors.As(err, new(*ErrMaxTokensExceeded)):
		return noRetry
	case errors.As(err, new(*ErrInvalidResponse)):
		return retryOnce
	default:
		return retryUntilExhausted
	}
}

// fromStatus maps an SDK error carrying an HTTP status. Only 429 is a
// rate limit; every other failure is treated as the provider being down.
func fromStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
