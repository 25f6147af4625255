// Package wordbank supplies vocabulary content: the word list, compact
// definitions for matching tiles, and the Greek and Latin root dataset.
// Generated content falls back to the embedded lists on any failure.
package wordbank

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/abhisek/examprep/internal/vocab"
)

//go:embed data/*.json
var dataFS embed.FS

// Words returns the embedded vocabulary list.
func Words() ([]vocab.Word, error) {
	var out []vocab.Word
	if err := decode("data/words.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Roots returns the embedded root-word dataset.
func Roots() ([]vocab.RootWord, error) {
	var out []vocab.RootWord
	if err := decode("data/roots.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(name string, v any) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
