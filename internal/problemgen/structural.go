package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/examprep/internal/profile"
)

const (
	maxQuestionLen    = 600
	maxExplanationLen = 1000
	maxPassageLen     = 6000
	minOptions        = 2
	maxOptions        = 6
)

// StructuralValidator checks that required fields are present, within
// length limits, and that the options form a usable multiple choice.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q profile.Question) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}

	switch {
	case strings.TrimSpace(q.QuestionText) == "":
		return fail("question_text is empty")
	case len(q.QuestionText) > maxQuestionLen:
		return fail("question_text exceeds %d characters", maxQuestionLen)
	case strings.TrimSpace(q.Explanation) == "":
		return fail("explanation is empty")
	case len(q.Explanation) > maxExplanationLen:
		return fail("explanation exceeds %d characters", maxExplanationLen)
	case len(q.Passage) > maxPassageLen:
		return fail("passage exceeds %d characters", maxPassageLen)
	case len(q.Options) < minOptions || len(q.Options) > maxOptions:
		return fail("expected %d-%d options, got %d", minOptions, maxOptions, len(q.Options))
	case q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options):
		return fail("correct_answer %d out of range", q.CorrectAnswer)
	}

	seen := make(map[string]bool, len(q.Options))
	for i, o := range q.Options {
		key := strings.ToLower(strings.TrimSpace(o))
		if key == "" {
			return fail("option %d is empty", i)
		}
		if seen[key] {
			return fail("duplicate option %q", o)
		}
		seen[key] = true
	}
	return nil
}
