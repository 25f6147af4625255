package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/examprep/internal/profile"
)

const systemPrompt = `You write practice questions for a competitive high-school entrance exam covering reading comprehension, vocabulary, grammar and writing, mathematics and spelling.

Rules:
- Every question is multiple choice with exactly 4 options and exactly one correct option.
- correct_answer is the zero-based index of the correct option. Vary its position across questions.
- Distractors should reflect common mistakes, not absurd choices.
- Use plain text. No LaTeX, no Markdown. Use / for fractions and * for multiplication.
- Math answers must be exact and in simplest form.
- The explanation states briefly why the correct option is right.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage constructs the user message for one set.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	switch input.Kind {
	case KindReading:
		fmt.Fprintf(&b, "Write one reading passage of 250-400 words on an academic topic, then %d questions about it.\n", input.Count)
		b.WriteString("Put the passage in the top-level passage field. Use category \"reading\" and an empty per-question passage.\n")
		b.WriteString("Cover main idea, detail, inference, vocabulary in context and author's purpose.\n")
	case KindMockELA:
		fmt.Fprintf(&b, "Write the language arts half of a full mock exam with %d questions.\n", input.Count)
		b.WriteString("Start with one reading passage of 250-400 words and 5 questions about it (category \"reading\", passage copied into each question).\n")
		b.WriteString("Fill the rest with vocabulary and grammar questions (categories \"vocabulary\" and \"grammar\", empty passage).\n")
	case KindMockMath:
		fmt.Fprintf(&b, "Write the mathematics half of a full mock exam with %d questions.\n", input.Count)
		b.WriteString("Mix arithmetic, fractions, percents, ratios, algebra, geometry and word problems. Use category \"math\".\n")
	case KindSpelling:
		fmt.Fprintf(&b, "Write %d spelling questions.\n", input.Count)
		b.WriteString("Each asks \"Identify the correct spelling:\" and offers one correct spelling of a commonly misspelled word plus 3 plausible misspellings. Use category \"spelling\".\n")
	default:
		fmt.Fprintf(&b, "Write %d %s questions.\n", input.Count, categoryName(input.Category))
		fmt.Fprintf(&b, "Use category %q and an empty passage.\n", categorySlug(input.Category))
	}

	b.WriteString("\nAlready asked recently:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))
	return b.String()
}

func categoryName(c profile.Category) string {
	switch c {
	case profile.Reading:
		return "reading comprehension"
	case profile.Vocabulary:
		return "vocabulary (definitions, synonyms, antonyms and words in context)"
	case profile.Grammar:
		return "grammar and writing (punctuation, agreement, modifiers, parallelism, transitions)"
	case profile.Math:
		return "mathematics"
	case profile.Spelling:
		return "spelling"
	default:
		return "mixed exam"
	}
}

// categorySlug maps a category to the schema's enum value.
func categorySlug(c profile.Category) string {
	switch c {
	case profile.Vocabulary:
		return "vocabulary"
	default:
		return c.Slug()
	}
}
