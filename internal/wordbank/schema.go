package wordbank

import "github.com/abhisek/examprep/internal/llm"

var stringArray = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

// WordListSchema constrains a generated vocabulary list.
var WordListSchema = &llm.Schema{
	Name:        "vocabulary-list",
	Description: "A list of advanced vocabulary words with definitions and usage",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"words": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"word":            map[string]any{"type": "string"},
						"partOfSpeech":    map[string]any{"type": "string"},
						"definition":      map[string]any{"type": "string"},
						"synonyms":        stringArray,
						"antonyms":        stringArray,
						"exampleSentence": map[string]any{"type": "string"},
					},
					"required":             []any{"word", "partOfSpeech", "definition", "synonyms", "antonyms", "exampleSentence"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"words"},
		"additionalProperties": false,
	},
}

// ShortDefSchema constrains generated matching-tile definitions.
var ShortDefSchema = &llm.Schema{
	Name:        "short-definitions",
	Description: "A compact definition of at most six words for each input word",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"definitions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"word":     map[string]any{"type": "string"},
						"shortDef": map[string]any{"type": "string"},
					},
					"required":             []any{"word", "shortDef"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"definitions"},
		"additionalProperties": false,
	},
}
