// Package progress implements scoring and progression: per-category
// accuracy counters, XP, word mastery, levels and race records. The
// functions here mutate a profile in place and never fail; Tracker wraps
// them as persisted operations on the shared state handle.
package progress

import (
	"slices"

	"github.com/abhisek/examprep/internal/profile"
)

const (
	// XPPerCorrect and XPPerQuestion make up the XP award for a finished
	// practice session.
	XPPerCorrect  = 50
	XPPerQuestion = 10

	MasteryMin = 0
	MasteryMax = 100
)

// RecordAnswer attributes one answer to the normalized category and
// recomputes that category's score. It returns the category used.
func RecordAnswer(p *profile.Profile, correct bool, rawCategory string) profile.Category {
	c := profile.NormalizeCategory(rawCategory)
	bump(p, c, correct)
	p.QuestionsAnswered++
	if correct {
		p.TotalCorrect++
	}
	return c
}

func bump(p *profile.Profile, c profile.Category, correct bool) {
	p.CategoryAttempted[c]++
	if correct {
		p.CategoryCorrect[c]++
	}
	p.CategoryScores[c] = profile.Count(profile.Percent(int(p.CategoryCorrect[c]), int(p.CategoryAttempted[c])))
}

// AwardXP adds amount to the profile's XP. Negative amounts award nothing.
func AwardXP(p *profile.Profile, amount int) {
	if amount <= 0 {
		return
	}
	p.XP += profile.Count(amount)
}

// UpdateWordMastery adds delta to the word's mastery, clamped to
// [MasteryMin, MasteryMax], and returns the new value.
func UpdateWordMastery(p *profile.Profile, word string, delta int) int {
	v := min(max(int(p.WordMastery[word])+delta, MasteryMin), MasteryMax)
	p.WordMastery[word] = profile.Count(v)
	return v
}

// RecordPracticeResults applies a finished session in one step. Every
// question is attributed to its own normalized category, so a mixed
// session updates several buckets; questions listed in mistakes count as
// wrong. A Mock session additionally records one Mock attempt whose score
// is the session accuracy. It reports false and does nothing when total
// is not positive.
func RecordPracticeResults(p *profile.Profile, category profile.Category, score, total int, mistakes, questions []profile.Question) bool {
	score = max(score, 0)
	if total <= 0 {
		return false
	}

	missed := make(map[string]bool, len(mistakes))
	for _, m := range mistakes {
		missed[m.ID] = true
	}
	for _, q := range questions {
		bump(p, profile.NormalizeCategory(string(q.Category)), !missed[q.ID])
	}

	if profile.NormalizeCategory(string(category)) == profile.Mock {
		p.CategoryAttempted[profile.Mock]++
		p.CategoryScores[profile.Mock] = profile.Count(profile.Percent(score, total))
	}

	p.CompletedQuizzes++
	p.QuestionsAnswered += profile.Count(total)
	p.TotalCorrect += profile.Count(score)
	AwardXP(p, score*XPPerCorrect+total*XPPerQuestion)
	return true
}

// RecordBestTime stores ms under key when no record exists or ms beats
// it. It reports whether the record changed. Non-positive times are
// ignored.
func RecordBestTime(records map[string]profile.Count, key string, ms int64) bool {
	if ms <= 0 {
		return false
	}
	if best, ok := records[key]; ok && best > 0 && int64(best) <= ms {
		return false
	}
	records[key] = profile.Count(ms)
	return true
}

// ToggleStar adds word to the starred set, or removes it if present. It
// reports whether the word is starred afterwards.
func ToggleStar(p *profile.Profile, word string) bool {
	if i := slices.Index(p.StarredWords, word); i >= 0 {
		p.StarredWords = slices.Delete(slices.Clone(p.StarredWords), i, i+1)
		return false
	}
	p.StarredWords = append(slices.Clone(p.StarredWords), word)
	return true
}
