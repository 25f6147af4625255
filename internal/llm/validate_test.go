package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func questionSchema() *Schema {
	return &Schema{
		Name: "test-question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 2,
				},
				"correctAnswer": map[string]any{"type": "integer", "minimum": 0},
				"category":      map[string]any{"type": "string", "enum": []any{"MATH", "GRAMMAR"}},
			},
			"required": []any{"text", "options", "correctAnswer"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"valid", `{"text":"2+2?","options":["3","4"],"correctAnswer":1,"category":"MATH"}`, true},
		{"optional omitted", `{"text":"2+2?","options":["3","4"],"correctAnswer":1}`, true},
		{"missing required", `{"text":"2+2?","options":["3","4"]}`, false},
		{"wrong type", `{"text":"2+2?","options":["3","4"],"correctAnswer":"1"}`, false},
		{"bad enum", `{"text":"2+2?","options":["3","4"],"correctAnswer":1,"category":"ART"}`, false},
		{"too few options", `{"text":"2+2?","options":["4"],"correctAnswer":0}`, false},
		{"negative answer", `{"text":"2+2?","options":["3","4"],"correctAnswer":-1}`, false},
		{"malformed", `{not json}`, false},
		{"empty", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(questionSchema(), json.RawMessage(tt.raw))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			assert.True(t, errors.As(err, &inv), "got %T (%v)", err, err)
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)))
}

func TestCleanJSON(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"  {\"a\":1}\n":           `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n[1,2]\n```":         `[1,2]`,
		"```{\"a\":1}```":         `{"a":1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, string(cleanJSON(in)), "input %q", in)
	}
}

func TestCheckStructured(t *testing.T) {
	content := json.RawMessage(`{"text":"x"`)

	assert.NoError(t, checkStructured(nil, content, "max_tokens"))

	var maxTok *ErrMaxTokensExceeded
	assert.True(t, errors.As(checkStructured(questionSchema(), content, "max_tokens"), &maxTok))

	var inv *ErrInvalidResponse
	assert.True(t, errors.As(checkStructured(questionSchema(), content, "end"), &inv))
}
