package profile

// MistakeCapacity bounds the mistake log.
const MistakeCapacity = 100

// Percent returns round(100*part/whole), or 0 when whole is not positive.
// Halves round up.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}

// Sanitize repairs a profile decoded from stored state: nil maps are
// filled, counters are clamped to their valid ranges, and derived
// category scores are recomputed from the counters. The Mock score is kept
// as stored because a mock exam records its accuracy directly.
func Sanitize(p *Profile) {
	if p.Username == "" {
		p.Username = GuestName
	}
	if p.CategoryScores == nil {
		p.CategoryScores = make(map[Category]Count, len(Categories))
	}
	if p.CategoryCorrect == nil {
		p.CategoryCorrect = make(map[Category]Count, len(Categories))
	}
	if p.CategoryAttempted == nil {
		p.CategoryAttempted = make(map[Category]Count, len(Categories))
	}
	if p.WordMastery == nil {
		p.WordMastery = make(map[string]Count)
	}
	if p.DailyRaceRecords == nil {
		p.DailyRaceRecords = make(map[string]Count)
	}
	if p.SessionRaceRecords == nil {
		p.SessionRaceRecords = make(map[string]Count)
	}
	if p.ActiveSessions == nil {
		p.ActiveSessions = make(map[Category]*Session)
	}
	if p.StarredWords == nil {
		p.StarredWords = []string{}
	}
	if p.IncorrectQuestions == nil {
		p.IncorrectQuestions = []Question{}
	}

	for _, c := range Categories {
		attempted := nonNegative(p.CategoryAttempted[c])
		correct := min(nonNegative(p.CategoryCorrect[c]), attempted)
		p.CategoryAttempted[c] = attempted
		if c == Mock {
			p.CategoryCorrect[c] = nonNegative(p.CategoryCorrect[c])
			p.CategoryScores[c] = clampCount(p.CategoryScores[c], 0, 100)
			continue
		}
		p.CategoryCorrect[c] = correct
		p.CategoryScores[c] = Count(Percent(int(correct), int(attempted)))
	}

	p.XP = nonNegative(p.XP)
	p.CompletedQuizzes = nonNegative(p.CompletedQuizzes)
	p.QuestionsAnswered = nonNegative(p.QuestionsAnswered)
	p.TotalCorrect = nonNegative(p.TotalCorrect)

	for w, m := range p.WordMastery {
		p.WordMastery[w] = clampCount(m, 0, 100)
	}

	if p.DailyVocabDay < 1 {
		p.DailyVocabDay = 1
	}
	if p.LastViewedDay < 1 || p.LastViewedDay > p.DailyVocabDay {
		p.LastViewedDay = p.DailyVocabDay
	}
	if p.DailyVocabSeed < 0 || p.DailyVocabSeed >= MaxSeed {
		p.DailyVocabSeed = ((p.DailyVocabSeed % MaxSeed) + MaxSeed) % MaxSeed
	}

	for k, s := range p.ActiveSessions {
		if s == nil {
			delete(p.ActiveSessions, k)
			continue
		}
		if s.UserAnswers == nil {
			s.UserAnswers = make(map[string]int)
		}
	}

	p.IncorrectQuestions = dedupQuestions(p.IncorrectQuestions)
	if len(p.IncorrectQuestions) > MistakeCapacity {
		p.IncorrectQuestions = p.IncorrectQuestions[:MistakeCapacity]
	}
}

func dedupQuestions(qs []Question) []Question {
	seen := make(map[string]bool, len(qs))
	out := qs[:0]
	for _, q := range qs {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}

func nonNegative(c Count) Count {
	return max(c, 0)
}

func clampCount(c, lo, hi Count) Count {
	return min(max(c, lo), hi)
}
