package profile

// Question is a single multiple-choice item. Once generated it is treated
// as an immutable value.
type Question struct {
	ID            string   `json:"id"`
	Category      Category `json:"category"`
	Passage       string   `json:"passage,omitempty"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// IsCorrect reports whether option is the correct answer index.
func (q Question) IsCorrect(option int) bool {
	return option == q.CorrectAnswer
}

// CorrectText returns the text of the correct option, or "" if the index
// is out of range.
func (q Question) CorrectText() string {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswer]
}

// Valid reports whether the question has a prompt, at least two options
// and an in-range correct answer.
func (q Question) Valid() bool {
	return q.QuestionText != "" && len(q.Options) >= 2 &&
		q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}
