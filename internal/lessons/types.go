// Package lessons serves short ELA lessons: grammar, essay writing and
// reading strategy topics. Generated lessons are cached in a registry blob
// so a topic is fetched at most once; topics never fetched are served from
// the embedded fallback set.
package lessons

// Lesson is a short lesson on one topic with a single quick-check
// question.
type Lesson struct {
	Topic       string     `json:"topic"`
	Explanation string     `json:"explanation"`
	Examples    []string   `json:"examples"`
	QuickCheck  QuickCheck `json:"quickCheck"`
}

// QuickCheck is the multiple-choice question closing a lesson.
type QuickCheck struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// IsCorrect reports whether option is the correct answer index.
func (q QuickCheck) IsCorrect(option int) bool { return option == q.CorrectAnswer }

// Valid reports whether the lesson can be shown and checked.
func (l Lesson) Valid() bool {
	qc := l.QuickCheck
	return l.Topic != "" && l.Explanation != "" && qc.Question != "" &&
		len(qc.Options) >= 2 && qc.CorrectAnswer >= 0 && qc.CorrectAnswer < len(qc.Options)
}

// Track groups topics.
type Track string

const (
	GrammarTrack Track = "grammar"
	EssayTrack   Track = "essay"
	ReadingTrack Track = "reading"
)

// Tracks lists every track in display order.
var Tracks = []Track{GrammarTrack, EssayTrack, ReadingTrack}

var (
	GrammarTopics = []string{
		"Comma Mastery: Essential vs Non-Essential",
		"Semicolons, Colons, and Dashes",
		"Modifier Placement (Dangling/Misplaced)",
		"Subject-Verb Agreement Pitfalls",
		"Parallel Structure in Lists",
		"Active vs Passive Voice Strategies",
		"Pronoun Case and Agreement",
		"Verb Tense Consistency",
		"Sentence Combining and Flow",
		"Transition Words and Rhetorical Purpose",
		"Commonly Confused Words (Academic)",
		"Capitalization and Punctuation Nuance",
	}
	EssayTopics = []string{
		"Thesis Statement Construction",
		"Argumentative Structure",
		"Rhetorical Analysis",
		"Narrative Flow & Pacing",
		"Evidence Integration",
		"Conclusions & Impact",
	}
	ReadingTopics = []string{
		"Identifying Main Idea",
		"Inference & Implication",
		"Tone & Author's Purpose",
		"Context Clues in Complex Texts",
		"Analyzing Text Structure",
		"Evaluating Arguments",
	}
)

// Topics returns the topics of t.
func Topics(t Track) []string {
	switch t {
	case GrammarTrack:
		return GrammarTopics
	case EssayTrack:
		return EssayTopics
	case ReadingTrack:
		return ReadingTopics
	}
	return nil
}

// TrackOf returns the track a topic belongs to.
func TrackOf(topic string) (Track, bool) {
	for _, t := range Tracks {
		for _, s := range Topics(t) {
			if s == topic {
				return t, true
			}
		}
	}
	return "", false
}
