package lessons

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/lessons.json
var fallbackJSON []byte

type fallbackSet struct {
	Grammar []Lesson `json:"grammar"`
	Essay   []Lesson `json:"essay"`
	Reading []Lesson `json:"reading"`
}

// Fallbacks decodes the embedded lessons, keyed by topic.
func Fallbacks() (map[string]Lesson, error) {
	var set fallbackSet
	if err := json.Unmarshal(fallbackJSON, &set); err != nil {
		return nil, fmt.Errorf("decode fallback lessons: %w", err)
	}
	out := make(map[string]Lesson)
	for _, group := range [][]Lesson{set.Grammar, set.Essay, set.Reading} {
		for _, l := range group {
			out[l.Topic] = l
		}
	}
	return out, nil
}
