package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{down(), ok}, false, 2},
		{"rate limit then success", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, false, 2},
		{"all attempts fail", []MockResponse{down(), down(), down(), ok}, true, 3},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"invalid response retried once", []MockResponse{
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			ok,
		}, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	mock := NewMockProvider(down(), down(), down())
	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_Delay(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{
		MaxAttempts: 5,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  4,
	}}
	unavailable := &ErrProviderUnavailable{}

	within := func(d, want time.Duration) bool {
		spread := time.Duration(float64(want) * jitterFraction)
		return d >= want-spread && d <= want+spread
	}
	assert.True(t, within(r.delay(1, unavailable), 100*time.Millisecond))
	assert.True(t, within(r.delay(2, unavailable), 400*time.Millisecond))
	assert.True(t, within(r.delay(3, unavailable), time.Second), "capped at MaxWait")
	assert.True(t, within(r.delay(9, unavailable), time.Second))

	assert.Equal(t, 3*time.Second, r.delay(1, &ErrRateLimit{RetryAfter: 3 * time.Second}))
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, noRetry, policyFor(context.Canceled))
	assert.Equal(t, noRetry, policyFor(&ErrMaxTokensExceeded{}))
	assert.Equal(t, retryOnce, policyFor(&ErrInvalidResponse{Err: errors.New("x")}))
	assert.Equal(t, retryUntilExhausted, policyFor(&ErrRateLimit{}))
	assert.Equal(t, retryUntilExhausted, policyFor(errors.New("connection reset")))
}
