package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("none disables generation", func(t *testing.T) {
		p, err := NewProvider(ctx, Config{Provider: ProviderNone}, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("mock", func(t *testing.T) {
		p, err := NewProvider(ctx, Config{Provider: ProviderMock}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", p.ModelID())
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewProvider(ctx, Config{Provider: ProviderOpenAI}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("openrouter keeps model ids", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = "sk-or-test"
		cfg.OpenRouter.Model = "anthropic/claude-3-haiku"

		p, err := NewProvider(ctx, cfg, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())
	})

	t.Run("openai resolves friendly names", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = "sk-test"

		p, err := NewProvider(ctx, cfg, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", p.ModelID())
	})
}
