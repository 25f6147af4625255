// Package problemgen produces multiple-choice question sets for practice
// sessions. Sets come from an LLM provider when one is configured and
// fall back to the embedded question bank otherwise.
package problemgen

import "github.com/abhisek/examprep/internal/profile"

// Kind selects the shape of a generated set.
type Kind string

const (
	// KindCategory is a flat set of questions for one category.
	KindCategory Kind = "category"
	// KindReading is a single passage with questions about it.
	KindReading Kind = "reading"
	// KindMockELA is the language half of a mock exam: a reading passage
	// plus vocabulary and grammar questions.
	KindMockELA Kind = "mock-ela"
	// KindMockMath is the math half of a mock exam.
	KindMockMath Kind = "mock-math"
	// KindSpelling asks for the correctly spelled word among variants.
	KindSpelling Kind = "spelling"
)

// GenerateInput holds all context needed to generate a question set.
type GenerateInput struct {
	Kind     Kind
	Category profile.Category
	Count    int

	// PriorQuestions contains the text of recently served questions. Used
	// for deduplication in the prompt.
	PriorQuestions []string
}

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Passage   string           `json:"passage"`
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Category      string   `json:"category"`
	Passage       string   `json:"passage"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}
