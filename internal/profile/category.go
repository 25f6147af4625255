package profile

import "strings"

// Category is one of the fixed practice categories. The string values are
// the ones persisted in the profile blob.
type Category string

const (
	Reading    Category = "Reading Comprehension"
	Vocabulary Category = "Vocabulary"
	Grammar    Category = "Grammar & Writing"
	Math       Category = "Mathematics"
	Mock       Category = "Full Mock Test"
	Spelling   Category = "Spelling"
)

// Categories lists every category in display order.
var Categories = []Category{Reading, Vocabulary, Grammar, Math, Mock, Spelling}

// categoryKeywords is evaluated in order; the first matching keyword wins.
var categoryKeywords = []struct {
	keywords []string
	category Category
}{
	{[]string{"reading", "comprehension", "lit"}, Reading},
	{[]string{"vocab"}, Vocabulary},
	{[]string{"gramm", "writ"}, Grammar},
	{[]string{"math"}, Math},
	{[]string{"spell"}, Spelling},
	{[]string{"mock", "simul"}, Mock},
}

// NormalizeCategory maps free-form category text (as produced by content
// generators or typed on the command line) onto the closed enumeration.
// Unmatched input falls back to Mock.
func NormalizeCategory(raw string) Category {
	c := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range categoryKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(c, kw) {
				return rule.category
			}
		}
	}
	return Mock
}

// Slug returns the short lowercase name used on the command line.
func (c Category) Slug() string {
	switch c {
	case Reading:
		return "reading"
	case Vocabulary:
		return "vocab"
	case Grammar:
		return "grammar"
	case Math:
		return "math"
	case Spelling:
		return "spelling"
	default:
		return "mock"
	}
}

func (c Category) String() string { return string(c) }
