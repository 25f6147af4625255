package progress

// XPPerLevel is the XP span of one level.
const XPPerLevel = 1000

// Level describes where an XP total sits on the level ladder.
type Level struct {
	Number int
	// Progress is the fraction of the current level completed, in [0,1).
	Progress float64
	// XPIntoLevel is the XP earned since the current level started.
	XPIntoLevel int
	Rank        string
}

var ranks = []struct {
	minLevel int
	name     string
}{
	{30, "Professional Learner"},
	{20, "Academy Legend"},
	{12, "Vocational Master"},
	{7, "Ace Candidate"},
	{3, "Honor Student"},
	{1, "Junior Applicant"},
}

// LevelFromXP maps an XP total to its level.
func LevelFromXP(xp int) Level {
	xp = max(xp, 0)
	n := xp/XPPerLevel + 1
	into := xp % XPPerLevel
	return Level{
		Number:      n,
		Progress:    float64(into) / XPPerLevel,
		XPIntoLevel: into,
		Rank:        RankFor(n),
	}
}

// RankFor returns the rank title for a level.
func RankFor(level int) string {
	for _, r := range ranks {
		if level >= r.minLevel {
			return r.name
		}
	}
	return ranks[len(ranks)-1].name
}
