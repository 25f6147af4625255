package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

// OptionLabel returns the letter for option i.
func OptionLabel(i int) string {
	if i >= 0 && i < len(optionLabels) {
		return optionLabels[i]
	}
	return fmt.Sprint(i + 1)
}

// ParseOption maps "b", "B" or "2" to the zero-based index 1. It returns
// -1 for anything else.
func ParseOption(s string) int {
	s = strings.TrimSpace(s)
	for i, l := range optionLabels {
		if strings.EqualFold(s, l) {
			return i
		}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && n >= 1 && n <= len(optionLabels) {
		return n - 1
	}
	return -1
}

// QuestionView renders a multiple-choice question.
type QuestionView struct {
	Number   int
	Question profile.Question
	// Chosen is the picked option, or -1.
	Chosen int
	// Reveal marks the correct option and shows the explanation.
	Reveal bool
}

// View renders the question, its options and, when revealed, the
// explanation.
func (v QuestionView) View() string {
	var b strings.Builder
	q := v.Question

	head := q.QuestionText
	if v.Number > 0 {
		head = fmt.Sprintf("%d. %s", v.Number, head)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(head))
	b.WriteString("\n")

	for i, opt := range q.Options {
		prefix := "  "
		if i == v.Chosen {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, OptionLabel(i), opt)

		switch {
		case v.Reveal && i == q.CorrectAnswer:
			line = theme.Correct.Render(line)
		case v.Reveal && i == v.Chosen:
			line = theme.Incorrect.Render(line)
		case i == v.Chosen:
			line = theme.Selected.Render(line)
		default:
			line = theme.Body.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if v.Reveal && q.Explanation != "" {
		b.WriteString(theme.Hint.Render(q.Explanation) + "\n")
	}
	return b.String()
}
