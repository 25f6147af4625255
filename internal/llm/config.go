package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
	// ProviderNone disables generation; every generator serves its
	// built-in fallback content.
	ProviderNone = "none"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single request including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for OpenAI-compatible endpoints
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// modelAliases maps the short names accepted in configuration to model
// ids. Anything else is passed to the provider as is.
var modelAliases = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"gemini-flash":  "gemini-2.5-flash",
	"gemini-pro":    "gemini-2.5-pro",
}

func resolveModel(name string) string {
	if id, ok := modelAliases[name]; ok {
		return id
	}
	return name
}

// DefaultConfig returns the defaults. Content generation prefers Gemini
// flash models: the payloads are small JSON batches.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// Getenv looks up an environment variable. os.Getenv satisfies it.
type Getenv func(key string) string

// ConfigFromEnv builds a Config from EXAMPREP_* variables. When
// EXAMPREP_LLM_PROVIDER is unset the provider is discovered from the
// standard *_API_KEY variables, and with no key at all generation is
// disabled.
func ConfigFromEnv(getenv Getenv) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg, found := DiscoverConfig(getenv)
	if !found {
		cfg = DefaultConfig()
		cfg.Provider = ProviderNone
	}

	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Provider, "EXAMPREP_LLM_PROVIDER")

	set(&cfg.Anthropic.APIKey, "EXAMPREP_ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "EXAMPREP_ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "EXAMPREP_OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "EXAMPREP_OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "EXAMPREP_OPENAI_BASE_URL")
	set(&cfg.Gemini.APIKey, "EXAMPREP_GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "EXAMPREP_GEMINI_MODEL")
	set(&cfg.OpenRouter.APIKey, "EXAMPREP_OPENROUTER_API_KEY")
	set(&cfg.OpenRouter.Model, "EXAMPREP_OPENROUTER_MODEL")
	set(&cfg.OpenRouter.BaseURL, "EXAMPREP_OPENROUTER_BASE_URL")

	// EXAMPREP_LLM_MODEL overrides the model of whichever provider is
	// selected.
	if m := getenv("EXAMPREP_LLM_MODEL"); m != "" {
		switch cfg.Provider {
		case ProviderAnthropic:
			cfg.Anthropic.Model = m
		case ProviderOpenAI:
			cfg.OpenAI.Model = m
		case ProviderGemini:
			cfg.Gemini.Model = m
		case ProviderOpenRouter:
			cfg.OpenRouter.Model = m
		}
	}
	if d, err := time.ParseDuration(getenv("EXAMPREP_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}

// DiscoverConfig checks the standard API key variables in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and selects the first provider
// with a key.
func DiscoverConfig(getenv Getenv) (Config, bool) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()

	if k := getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}
	return Config{}, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	missing := func(env string) error {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return missing("EXAMPREP_ANTHROPIC_API_KEY")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return missing("EXAMPREP_OPENAI_API_KEY")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return missing("EXAMPREP_GEMINI_API_KEY")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return missing("EXAMPREP_OPENROUTER_API_KEY")
		}
	case ProviderMock, ProviderNone:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
