package problemgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/examprep/internal/profile"
)

func validQuestion() profile.Question {
	return profile.Question{
		ID:            "q-1",
		Category:      profile.Grammar,
		QuestionText:  "Choose the correct verb.",
		Options:       []string{"know", "knows", "knowing", "is knowing"},
		CorrectAnswer: 0,
		Explanation:   "The verb agrees with the nearer subject.",
	}
}

func TestStructuralValidator(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*profile.Question)
		ok     bool
	}{
		{"valid", func(*profile.Question) {}, true},
		{"empty text", func(q *profile.Question) { q.QuestionText = "  " }, false},
		{"long text", func(q *profile.Question) { q.QuestionText = strings.Repeat("a", maxQuestionLen+1) }, false},
		{"empty explanation", func(q *profile.Question) { q.Explanation = "" }, false},
		{"one option", func(q *profile.Question) { q.Options = []string{"only"} }, false},
		{"too many options", func(q *profile.Question) { q.Options = strings.Split("abcdefg", "") }, false},
		{"answer out of range", func(q *profile.Question) { q.CorrectAnswer = 4 }, false},
		{"negative answer", func(q *profile.Question) { q.CorrectAnswer = -1 }, false},
		{"blank option", func(q *profile.Question) { q.Options[2] = "" }, false},
		{"duplicate option", func(q *profile.Question) { q.Options[1] = "Know " }, false},
		{"long passage", func(q *profile.Question) { q.Passage = strings.Repeat("p", maxPassageLen+1) }, false},
	}
	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)
			err := v.Validate(q)
			if tt.ok {
				assert.Nil(t, err)
				return
			}
			if assert.NotNil(t, err) {
				assert.Equal(t, "structural", err.Validator)
			}
		})
	}
}

func TestValidateStopsAtFirstFailure(t *testing.T) {
	q := validQuestion()
	q.QuestionText = ""
	err := validate(q, DefaultConfig().Validators)
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), `validator "structural"`)
	}
	assert.Nil(t, validate(validQuestion(), DefaultConfig().Validators))
}
