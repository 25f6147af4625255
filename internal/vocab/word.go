// Package vocab holds the vocabulary word model and the pure algorithms
// that operate on word pools: daily batch selection, starred review,
// flashcard decks and search.
package vocab

import (
	"slices"
	"strings"
)

// Word is one vocabulary entry.
type Word struct {
	Word            string   `json:"word"`
	PartOfSpeech    string   `json:"partOfSpeech"`
	Definition      string   `json:"definition"`
	Synonyms        []string `json:"synonyms"`
	Antonyms        []string `json:"antonyms"`
	ExampleSentence string   `json:"exampleSentence"`
}

// ShortDef is a compact definition used by the matching game tiles.
type ShortDef struct {
	Word     string `json:"word"`
	ShortDef string `json:"shortDef"`
}

// RootWord is a Greek or Latin root with example words.
type RootWord struct {
	Root     string   `json:"root"`
	Meaning  string   `json:"meaning"`
	Examples []string `json:"examples"`
}

// SortAlphabetical sorts words by their Word field in place, ignoring
// case first and falling back to byte order.
func SortAlphabetical(words []Word) {
	slices.SortStableFunc(words, func(a, b Word) int {
		if c := strings.Compare(strings.ToLower(a.Word), strings.ToLower(b.Word)); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
}

// Names returns the Word field of each entry.
func Names(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Word
	}
	return out
}

// Fingerprint returns an order-independent identifier for a word set:
// the sorted words joined with "|".
func Fingerprint(words []Word) string {
	names := Names(words)
	slices.Sort(names)
	return strings.Join(names, "|")
}

// Search returns words whose word, definition or synonyms contain query,
// case-insensitively. An empty query returns the pool unchanged.
func Search(pool []Word, query string) []Word {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return pool
	}
	var out []Word
	for _, w := range pool {
		if matchesWord(w, q) {
			out = append(out, w)
		}
	}
	return out
}

func matchesWord(w Word, q string) bool {
	if strings.Contains(strings.ToLower(w.Word), q) ||
		strings.Contains(strings.ToLower(w.Definition), q) {
		return true
	}
	for _, s := range w.Synonyms {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// SearchRoots filters roots by root text, meaning or example word.
func SearchRoots(roots []RootWord, query string) []RootWord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return roots
	}
	var out []RootWord
	for _, r := range roots {
		if strings.Contains(strings.ToLower(r.Root), q) || strings.Contains(strings.ToLower(r.Meaning), q) {
			out = append(out, r)
			continue
		}
		for _, ex := range r.Examples {
			if strings.Contains(strings.ToLower(ex), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
