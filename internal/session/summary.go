package session

import (
	"time"

	"github.com/abhisek/examprep/internal/profile"
)

// CategoryResult is the per-category breakdown of a session.
type CategoryResult struct {
	Category  profile.Category
	Attempted int
	Correct   int
}

// Summary holds the data shown after a session is submitted.
type Summary struct {
	Duration       time.Duration
	TotalQuestions int
	TotalCorrect   int
	Accuracy       float64
	// Results is ordered like profile.Categories.
	Results []CategoryResult
}

// BuildSummary summarises the answers in s. Mixed sessions such as a
// mock exam report each question under its own category.
func BuildSummary(s *profile.Session) *Summary {
	if s == nil {
		return &Summary{}
	}
	byCat := make(map[profile.Category]*CategoryResult)
	correct := 0
	for _, q := range s.Questions {
		c := profile.NormalizeCategory(string(q.Category))
		r := byCat[c]
		if r == nil {
			r = &CategoryResult{Category: c}
			byCat[c] = r
		}
		r.Attempted++
		if ans, ok := s.UserAnswers[q.ID]; ok && q.IsCorrect(ans) {
			r.Correct++
			correct++
		}
	}

	var results []CategoryResult
	for _, c := range profile.Categories {
		if r, ok := byCat[c]; ok {
			results = append(results, *r)
		}
	}

	var accuracy float64
	if len(s.Questions) > 0 {
		accuracy = float64(correct) / float64(len(s.Questions))
	}
	return &Summary{
		Duration:       time.Duration(s.ElapsedTime) * time.Second,
		TotalQuestions: len(s.Questions),
		TotalCorrect:   correct,
		Accuracy:       accuracy,
		Results:        results,
	}
}
