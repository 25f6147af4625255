package daily

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/abhisek/examprep/internal/profile"
	"github.com/abhisek/examprep/internal/vocab"
)

const (
	// TestSize is the maximum number of questions in a cumulative test.
	TestSize = 20
	// MinTestWords is the fewest words a test can be built from.
	MinTestWords = 4
	// TestXPPerCorrect is awarded per correct test answer.
	TestXPPerCorrect = 15

	testDistractors = 3
)

// TestPool returns the words a cumulative test draws from: every word
// unlocked so far, or the starred set in starred mode.
func (s *Service) TestPool(pool []vocab.Word, mode Mode) []vocab.Word {
	if mode == StarredMode {
		return s.View(pool, StarredMode).Words
	}
	var maxStage int
	s.st.Read(func(p *profile.Profile) { maxStage = int(p.DailyVocabDay) })
	return vocab.Unlocked(pool, maxStage)
}

// CumulativeTest builds up to TestSize random questions over the test
// pool. Each question either asks for a word's definition or for the word
// matching a definition, with three distractors from the same pool.
func (s *Service) CumulativeTest(pool []vocab.Word, mode Mode) ([]profile.Question, error) {
	source := s.TestPool(pool, mode)
	if len(source) < MinTestWords {
		return nil, ErrNotEnoughWords
	}

	picked := slices.Clone(source)
	s.shuffle(picked)
	picked = picked[:min(TestSize, len(picked))]

	batch := uuid.NewString()[:8]
	questions := make([]profile.Question, len(picked))
	for i, w := range picked {
		questions[i] = s.testQuestion(fmt.Sprintf("cumul-%s-%d", batch, i), w, source)
	}
	return questions, nil
}

func (s *Service) testQuestion(id string, w vocab.Word, source []vocab.Word) profile.Question {
	others := make([]vocab.Word, 0, len(source)-1)
	for _, o := range source {
		if o.Word != w.Word {
			others = append(others, o)
		}
	}
	s.shuffle(others)
	others = others[:min(testDistractors, len(others))]

	askDefinition := s.coin()
	answer := w.Word
	text := fmt.Sprintf("Which word means: %q?", w.Definition)
	if askDefinition {
		answer = w.Definition
		text = fmt.Sprintf("What is the definition of %q?", w.Word)
	}

	options := []string{answer}
	for _, o := range others {
		if askDefinition {
			options = append(options, o.Definition)
		} else {
			options = append(options, o.Word)
		}
	}
	s.rngMu.Lock()
	s.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	s.rngMu.Unlock()

	return profile.Question{
		ID:            id,
		Category:      profile.Vocabulary,
		QuestionText:  text,
		Options:       options,
		CorrectAnswer: slices.Index(options, answer),
		Explanation:   fmt.Sprintf("%q (%s): %s", w.Word, w.PartOfSpeech, w.Definition),
	}
}

// SubmitTest scores a cumulative test: every answer is recorded as a
// Vocabulary attempt, wrong or missing answers are logged as mistakes,
// and TestXPPerCorrect is awarded per correct answer. It returns the
// score.
func (s *Service) SubmitTest(ctx context.Context, questions []profile.Question, answers map[string]int) (int, error) {
	score := 0
	var errs []error
	for _, q := range questions {
		ans, ok := answers[q.ID]
		correct := ok && q.IsCorrect(ans)
		if correct {
			score++
		}
		if err := s.tracker.RecordAnswer(ctx, correct, profile.Vocabulary); err != nil {
			errs = append(errs, err)
		}
		if !correct {
			if err := s.tracker.LogMistake(ctx, q); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := s.tracker.AwardXP(ctx, score*TestXPPerCorrect); err != nil {
		errs = append(errs, err)
	}
	return score, errors.Join(errs...)
}
