package llm

import (
	"errors"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterHeaders identify the app on OpenRouter's dashboards.
var openRouterHeaders = map[string]string{
	"HTTP-Referer": "https://github.com/abhisek/examprep",
	"X-Title":      "examprep",
}

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Model
// ids are vendor-prefixed, such as "google/gemini-2.0-flash-exp", and
// pass through unchanged.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter: API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	client := &http.Client{Transport: headerTransport{base: http.DefaultTransport, headers: openRouterHeaders}}
	return &OpenRouterProvider{OpenAIProvider: newChatProvider(cfg.APIKey, baseURL, cfg.Model, client)}, nil
}

// headerTransport adds fixed headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	for k, v := range t.headers {
		r.Header.Set(k, v)
	}
	return t.base.RoundTrip(r)
}
