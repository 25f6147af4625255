package problemgen

import "github.com/abhisek/examprep/internal/llm"

var questionItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"category": map[string]any{
			"type":        "string",
			"enum":        []any{"reading", "vocabulary", "grammar", "math", "spelling"},
			"description": "The exam section this question belongs to",
		},
		"passage": map[string]any{
			"type":        "string",
			"description": "The reading passage this question refers to, or an empty string",
		},
		"question_text": map[string]any{
			"type":        "string",
			"description": "The question prompt shown to the candidate, in plain text",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    4,
			"maxItems":    4,
			"description": "Exactly 4 answer options, one of which is correct",
		},
		"correct_answer": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"maximum":     3,
			"description": "Zero-based index of the correct option",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "One or two sentences explaining why the answer is correct",
		},
	},
	"required":             []any{"category", "passage", "question_text", "options", "correct_answer", "explanation"},
	"additionalProperties": false,
}

// BatchSchema defines the JSON schema for question set responses. The
// top-level passage is used by reading sets and is empty otherwise.
var BatchSchema = &llm.Schema{
	Name:        "question-batch",
	Description: "A set of multiple-choice exam practice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passage": map[string]any{
				"type":        "string",
				"description": "Shared reading passage for reading sets, otherwise empty",
			},
			"questions": map[string]any{
				"type":     "array",
				"items":    questionItem,
				"minItems": 1,
			},
		},
		"required":             []any{"passage", "questions"},
		"additionalProperties": false,
	},
}
