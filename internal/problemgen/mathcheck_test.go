package problemgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/examprep/internal/profile"
)

func mathQuestion(text string, correct int, opts ...string) profile.Question {
	return profile.Question{
		Category:      profile.Math,
		QuestionText:  text,
		Options:       opts,
		CorrectAnswer: correct,
		Explanation:   "x",
	}
}

func TestComputeAnswer(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"What is 345 + 278?", "623", true},
		{"What is 12 × 4?", "48", true},
		{"Compute 0.1 + 0.2 = ?", "0.3", true},
		{"What is 144 / 12?", "12", true},
		{"What is 1/2 + 1/4?", "3/4", true},
		{"What is 3/4 ÷ 3/8?", "2", true},
		{"If 3x + 5 = 20, what is x?", "", false},
		{"What is 15% of 80?", "", false},
		{"Simplify 18/24.", "", false},
	}
	for _, tt := range tests {
		got, err := computeAnswer(tt.text)
		if !tt.ok {
			assert.Error(t, err, tt.text)
			continue
		}
		if assert.NoError(t, err, tt.text) {
			assert.Equal(t, tt.want, got, tt.text)
		}
	}
}

func TestNumericOption(t *testing.T) {
	tests := map[string]string{
		"42":       "42",
		"$30":      "30",
		"28 sq cm": "28",
		"6/8":      "3/4",
		"0.50":     "0.5",
	}
	for in, want := range tests {
		got, ok := numericOption(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := numericOption("Neither")
	assert.False(t, ok)
}

func TestMathCheckValidator(t *testing.T) {
	v := &MathCheckValidator{}

	assert.Nil(t, v.Validate(mathQuestion("What is 7 + 5?", 0, "12", "13", "11", "14")))
	assert.NotNil(t, v.Validate(mathQuestion("What is 7 + 5?", 1, "12", "13", "11", "14")))
	assert.Nil(t, v.Validate(mathQuestion("What is 1/2 + 1/4?", 2, "1/4", "2/6", "0.75", "1")))

	// Word problems and non-numeric options pass through.
	assert.Nil(t, v.Validate(mathQuestion("A train leaves at noon. When does it arrive?", 0, "1 pm", "2 pm")))
	assert.Nil(t, v.Validate(mathQuestion("What is 2 + 2?", 0, "four", "five")))

	q := mathQuestion("What is 7 + 5?", 1, "12", "13")
	q.Category = profile.Vocabulary
	assert.Nil(t, v.Validate(q))
}
