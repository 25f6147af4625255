// Package profile defines the learner profile record and the practice
// session record it carries. The profile is the single source of truth
// for everything the application remembers about the learner, and it is
// persisted as one JSON blob.
package profile

import (
	"maps"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/abhisek/examprep/internal/vocab"
)

// GuestName is the display name used when nobody is logged in.
const GuestName = "Guest Candidate"

// MaxSeed bounds the daily vocabulary seed: seeds are drawn from [0, MaxSeed).
const MaxSeed = 1_000_000

// Profile is the persisted learner record.
type Profile struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"isLoggedIn"`

	CompletedQuizzes  Count              `json:"completedQuizzes"`
	CategoryScores    map[Category]Count `json:"categoryScores"`
	CategoryCorrect   map[Category]Count `json:"categoryCorrect"`
	CategoryAttempted map[Category]Count `json:"categoryAttempted"`
	QuestionsAnswered Count              `json:"questionsAnswered"`
	TotalCorrect      Count              `json:"totalCorrect"`
	XP                Count              `json:"xp"`

	WordMastery        map[string]Count `json:"wordMastery"`
	StarredWords       []string         `json:"starredWords"`
	ActiveSessionWords []vocab.Word     `json:"activeSessionWords"`
	IncorrectQuestions []Question       `json:"incorrectQuestions"`

	DailyVocabDay       Count  `json:"dailyVocabDay"`
	DailyVocabCompleted bool   `json:"dailyVocabCompleted"`
	LastDailyVocabDate  string `json:"lastDailyVocabDate,omitempty"`
	DailyVocabSeed      Count  `json:"dailyVocabSeed"`
	LastViewedDay       Count  `json:"lastViewedDay,omitempty"`

	// DailyRaceRecords maps a stage number (as a decimal string) to the
	// best race completion time in milliseconds.
	DailyRaceRecords map[string]Count `json:"dailyRaceRecords"`
	// SessionRaceRecords maps a word-set fingerprint to the best race
	// completion time in milliseconds.
	SessionRaceRecords map[string]Count `json:"sessionRaceRecords"`

	ActiveSessions map[Category]*Session `json:"activeSessions"`
}

// Default returns a fresh profile with a random daily seed.
func Default() *Profile {
	p := &Profile{
		Username:       GuestName,
		DailyVocabDay:  1,
		DailyVocabSeed: Count(rand.IntN(MaxSeed)),
	}
	Sanitize(p)
	return p
}

// StageKey formats a daily stage number as a race-record key.
func StageKey(stage int) string {
	return strconv.Itoa(stage)
}

// Accuracy returns the stored accuracy percentage for c.
func (p *Profile) Accuracy(c Category) int {
	return p.CategoryScores[c].Int()
}

// IsStarred reports whether word is in the starred set.
func (p *Profile) IsStarred(word string) bool {
	return slices.Contains(p.StarredWords, word)
}

// StarredSet returns the starred words as a set.
func (p *Profile) StarredSet() map[string]bool {
	set := make(map[string]bool, len(p.StarredWords))
	for _, w := range p.StarredWords {
		set[w] = true
	}
	return set
}

// Session returns the active session for c, or nil.
func (p *Profile) Session(c Category) *Session {
	return p.ActiveSessions[c]
}

// Clone returns a deep copy of p. Callers outside the state handle only
// ever see clones, never the live record.
func (p *Profile) Clone() *Profile {
	c := *p
	c.CategoryScores = maps.Clone(p.CategoryScores)
	c.CategoryCorrect = maps.Clone(p.CategoryCorrect)
	c.CategoryAttempted = maps.Clone(p.CategoryAttempted)
	c.WordMastery = maps.Clone(p.WordMastery)
	c.StarredWords = slices.Clone(p.StarredWords)
	c.ActiveSessionWords = slices.Clone(p.ActiveSessionWords)
	c.IncorrectQuestions = slices.Clone(p.IncorrectQuestions)
	c.DailyRaceRecords = maps.Clone(p.DailyRaceRecords)
	c.SessionRaceRecords = maps.Clone(p.SessionRaceRecords)
	if p.ActiveSessions != nil {
		c.ActiveSessions = make(map[Category]*Session, len(p.ActiveSessions))
		for k, s := range p.ActiveSessions {
			c.ActiveSessions[k] = s.Clone()
		}
	}
	return &c
}
