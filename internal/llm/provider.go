package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates content from one model.
type Provider interface {
	// Generate runs one request. With a Schema, Content is JSON that has
	// been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Role is who wrote a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

type Message struct {
	Role    Role
	Content string
}

// Request is a single-turn generation request. Every generator in this
// module sends one user message under a system prompt.
type Request struct {
	System   string
	Messages []Message
	// Schema switches the provider to its structured output mode.
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema. Name is kebab-case and doubles as the
// schema name in OpenAI-style response formats.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// Decode runs req on p and unmarshals the JSON content into out. A nil
// provider yields ErrNoProvider.
func Decode(ctx context.Context, p Provider, req Request, out any) error {
	if p == nil {
		return ErrNoProvider
	}
	resp, err := p.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return &ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
