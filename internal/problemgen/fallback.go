package problemgen

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/abhisek/examprep/internal/profile"
)

//go:embed data/*.json
var dataFS embed.FS

type readingSet struct {
	Passage   string             `json:"passage"`
	Questions []profile.Question `json:"questions"`
}

// Bank is the static question set served when generation is unavailable.
type Bank struct {
	Reading    []readingSet       `json:"reading"`
	Vocabulary []profile.Question `json:"vocabulary"`
	Grammar    []profile.Question `json:"grammar"`
	Math       []profile.Question `json:"math"`
	Spelling   []profile.Question `json:"-"`
}

// LoadBank decodes the embedded question bank and spelling pool.
func LoadBank() (*Bank, error) {
	var b Bank
	if err := decodeData("data/questions.json", &b); err != nil {
		return nil, err
	}
	if err := decodeData("data/spelling.json", &b.Spelling); err != nil {
		return nil, err
	}
	for i := range b.Reading {
		for j := range b.Reading[i].Questions {
			b.Reading[i].Questions[j].Passage = b.Reading[i].Passage
		}
	}
	return &b, nil
}

func decodeData(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// ReadingPassage returns the questions of one fallback passage.
func (b *Bank) ReadingPassage(i int) []profile.Question {
	if len(b.Reading) == 0 {
		return nil
	}
	return slices.Clone(b.Reading[i%len(b.Reading)].Questions)
}

// ByCategory returns a copy of the fallback questions for c.
func (b *Bank) ByCategory(c profile.Category) []profile.Question {
	switch c {
	case profile.Reading:
		return b.ReadingPassage(0)
	case profile.Vocabulary:
		return slices.Clone(b.Vocabulary)
	case profile.Grammar:
		return slices.Clone(b.Grammar)
	case profile.Math:
		return slices.Clone(b.Math)
	case profile.Spelling:
		return slices.Clone(b.Spelling)
	}
	return nil
}

// MockELA returns the reading passage followed by the vocabulary and
// grammar questions.
func (b *Bank) MockELA() []profile.Question {
	out := b.ReadingPassage(0)
	out = append(out, b.Vocabulary...)
	return append(out, b.Grammar...)
}
