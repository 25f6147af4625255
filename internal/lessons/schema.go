package lessons

import "github.com/abhisek/examprep/internal/llm"

// LessonSchema defines the JSON schema for lesson generation.
var LessonSchema = &llm.Schema{
	Name:        "ela-lesson",
	Description: "A short ELA lesson with examples and one quick-check question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "The topic, repeated verbatim",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Clear explanation of the rule or strategy (2-4 sentences)",
			},
			"examples": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    2,
				"maxItems":    4,
				"description": "Short labelled examples, e.g. \"Correct: ...\" or \"Faulty: ...\"",
			},
			"quickCheck": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{"type": "string"},
					"options": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string"},
						"minItems": 4,
						"maxItems": 4,
					},
					"correctAnswer": map[string]any{
						"type":    "integer",
						"minimum": 0,
						"maximum": 3,
					},
					"explanation": map[string]any{"type": "string"},
				},
				"required":             []any{"question", "options", "correctAnswer", "explanation"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"topic", "explanation", "examples", "quickCheck"},
		"additionalProperties": false,
	},
}
