package profile

import (
	"maps"
	"slices"
)

// MockStage is the phase of a two-phase mock exam.
type MockStage string

const (
	MockELA  MockStage = "ELA"
	MockMath MockStage = "MATH"
)

// Highlight is a highlighted span of a reading passage. Start and End are
// byte offsets into the passage, End exclusive.
type Highlight struct {
	ID    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Session is the in-progress (or just-submitted) record of one practice
// attempt in a category.
type Session struct {
	Questions   []Question     `json:"questions"`
	UserAnswers map[string]int `json:"userAnswers"`
	IsSubmitted bool           `json:"isSubmitted"`
	Score       int            `json:"score"`
	Passage     string         `json:"passage,omitempty"`
	// StartTime is a unix timestamp in milliseconds.
	StartTime int64 `json:"startTime"`
	// ElapsedTime is in seconds.
	ElapsedTime int         `json:"elapsedTime"`
	Highlights  []Highlight `json:"highlights,omitempty"`

	// Mock exam phase and the score carried over from the ELA phase.
	MockStage         MockStage `json:"mockStage,omitempty"`
	ELAScore          int       `json:"elaScore,omitempty"`
	ELATotalQuestions int       `json:"elaTotalQuestions,omitempty"`
}

// Question returns the question with the given id.
func (s *Session) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Mistakes returns the questions whose recorded answer is missing or wrong.
func (s *Session) Mistakes() []Question {
	var out []Question
	for _, q := range s.Questions {
		ans, ok := s.UserAnswers[q.ID]
		if !ok || !q.IsCorrect(ans) {
			out = append(out, q)
		}
	}
	return out
}

// CorrectCount returns how many questions are answered correctly.
func (s *Session) CorrectCount() int {
	return len(s.Questions) - len(s.Mistakes())
}

// Clone returns a deep copy of s. A nil session clones to nil.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Questions = slices.Clone(s.Questions)
	c.UserAnswers = maps.Clone(s.UserAnswers)
	c.Highlights = slices.Clone(s.Highlights)
	return &c
}
