package lessons

import (
	"fmt"
	"strings"
)

const lessonSystemPrompt = `You are an experienced English teacher preparing eighth graders for a competitive high-school entrance exam. You write short, precise lessons with exam-style examples.`

func buildLessonUserMessage(topic string, track Track) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", topic)
	switch track {
	case EssayTrack:
		b.WriteString("Area: essay writing\n")
	case ReadingTrack:
		b.WriteString("Area: reading comprehension strategy\n")
	default:
		b.WriteString("Area: grammar and usage\n")
	}

	b.WriteString(`
Instructions:
1. Explain the rule or strategy in 2-4 sentences of plain language.
2. Give 2-4 short examples, each labelled (for example "Correct:", "Faulty:", "Weak:", "Strong:").
3. Write one exam-style quick-check question with exactly 4 options and exactly one correct option.
4. correctAnswer is the zero-based index of the correct option.
5. Explain the quick-check answer in one or two sentences.`)

	return b.String()
}
