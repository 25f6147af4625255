package wordbank

import (
	"fmt"
	"strings"

	"github.com/abhisek/examprep/internal/vocab"
)

const systemPrompt = `You are a vocabulary coach for eighth graders preparing for a competitive high-school entrance exam. Choose words that appear in exam reading passages and analogy questions.`

func buildListMessage(n int) string {
	return fmt.Sprintf(`Generate %d advanced vocabulary words.

For each word give its part of speech, a one-sentence definition, two or three synonyms, one or two antonyms and an example sentence that makes the meaning clear from context.
Use a capitalised headword. Do not repeat words.`, n)
}

func buildShortDefMessage(words []vocab.Word) string {
	var b strings.Builder
	b.WriteString("Write a definition of at most six words for each word below. Keep the word exactly as given.\n\n")
	for _, w := range words {
		fmt.Fprintf(&b, "- %s: %s\n", w.Word, w.Definition)
	}
	return b.String()
}
