// Package mistakes maintains the learner's log of missed questions and
// the correction workflow that clears entries from it.
package mistakes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/vocab"
)

// Log records q at the front of the mistake log. It is a no-op when an
// entry with the same id is already present; the log never grows beyond
// profile.MistakeCapacity entries, dropping the oldest.
func Log(p *profile.Profile, q profile.Question) bool {
	if slices.ContainsFunc(p.IncorrectQuestions, func(e profile.Question) bool { return e.ID == q.ID }) {
		return false
	}
	next := make([]profile.Question, 0, min(len(p.IncorrectQuestions)+1, profile.MistakeCapacity))
	next = append(next, q)
	next = append(next, p.IncorrectQuestions...)
	if len(next) > profile.MistakeCapacity {
		next = next[:profile.MistakeCapacity]
	}
	p.IncorrectQuestions = next
	return true
}

// Resolve removes the entry with the given id. It reports whether an
// entry was removed.
func Resolve(p *profile.Profile, id string) bool {
	i := slices.IndexFunc(p.IncorrectQuestions, func(e profile.Question) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	p.IncorrectQuestions = slices.Delete(slices.Clone(p.IncorrectQuestions), i, i+1)
	return true
}

// Find returns the logged question with id.
func Find(p *profile.Profile, id string) (profile.Question, bool) {
	for _, q := range p.IncorrectQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return profile.Question{}, false
}

// ShortID returns a six-character uppercase hex tag for display.
func ShortID(id string) string {
	s := strings.ToUpper(fmt.Sprintf("%x", vocab.Hash(id)))
	if len(s) > 6 {
		s = s[:6]
	}
	return s
}
