package session

import (
	"context"
	"errors"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/abhisek/examprep/internal/profile"
)

var (
	// ErrNoPassage is returned when highlighting a session without a
	// reading passage.
	ErrNoPassage = errors.New("session: no passage to highlight")
	// ErrEmptySelection is returned when a span holds only whitespace.
	ErrEmptySelection = errors.New("session: empty selection")
)

// Passage returns the text highlights refer to: the session passage, or
// else the passage shared by its reading questions.
func Passage(s *profile.Session) string {
	if s == nil {
		return ""
	}
	if s.Passage != "" {
		return s.Passage
	}
	for _, q := range s.Questions {
		if q.Passage != "" {
			return q.Passage
		}
	}
	return ""
}

// ExpandToWords trims whitespace from both ends of [start, end) and then
// widens it to whole words. ok is false when nothing but whitespace was
// selected.
func ExpandToWords(text string, start, end int) (int, int, bool) {
	start = max(start, 0)
	end = min(end, len(text))

	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if start >= end {
		return 0, 0, false
	}

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsSpace(r) {
			break
		}
		start -= size
	}
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if unicode.IsSpace(r) {
			break
		}
		end += size
	}
	return start, end, true
}

// AddHighlight highlights the words covering [start, end) of the
// session passage. Existing highlights overlapping the new span are
// dropped.
func (m *Manager) AddHighlight(ctx context.Context, c profile.Category, start, end int) (profile.Highlight, error) {
	var (
		h   profile.Highlight
		err error
	)
	_, uerr := m.st.Update(ctx, func(p *profile.Profile) bool {
		s := p.Session(c)
		if s == nil {
			err = ErrNoSession
			return false
		}
		text := Passage(s)
		if text == "" {
			err = ErrNoPassage
			return false
		}
		lo, hi, ok := ExpandToWords(text, start, end)
		if !ok {
			err = ErrEmptySelection
			return false
		}
		h = profile.Highlight{ID: uuid.NewString(), Start: lo, End: hi, Text: text[lo:hi]}
		s.Highlights = normalizeHighlights(append(slices.Clone(s.Highlights), h))
		return true
	})
	if err != nil {
		return profile.Highlight{}, err
	}
	return h, uerr
}

// RemoveHighlight deletes one highlight by id.
func (m *Manager) RemoveHighlight(ctx context.Context, c profile.Category, id string) (bool, error) {
	return m.st.Update(ctx, func(p *profile.Profile) bool {
		s := p.Session(c)
		if s == nil {
			return false
		}
		n := len(s.Highlights)
		s.Highlights = slices.DeleteFunc(s.Highlights, func(h profile.Highlight) bool { return h.ID == id })
		return len(s.Highlights) != n
	})
}

// ClearHighlights deletes every highlight of the session.
func (m *Manager) ClearHighlights(ctx context.Context, c profile.Category) (bool, error) {
	return m.st.Update(ctx, func(p *profile.Profile) bool {
		s := p.Session(c)
		if s == nil || len(s.Highlights) == 0 {
			return false
		}
		s.Highlights = []profile.Highlight{}
		return true
	})
}

// normalizeHighlights applies hs in order the way AddHighlight does: a
// span drops every earlier span it overlaps. Empty or negative spans are
// skipped. The result is sorted by start.
func normalizeHighlights(hs []profile.Highlight) []profile.Highlight {
	out := make([]profile.Highlight, 0, len(hs))
	for _, h := range hs {
		if h.Start < 0 || h.End <= h.Start {
			continue
		}
		out = slices.DeleteFunc(out, func(o profile.Highlight) bool {
			return o.End > h.Start && o.Start < h.End
		})
		out = append(out, h)
	}
	slices.SortStableFunc(out, func(a, b profile.Highlight) int { return a.Start - b.Start })
	return out
}
