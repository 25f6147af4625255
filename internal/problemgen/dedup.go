package problemgen

import (
	"fmt"
	"strings"
)

// buildDedup formats prior questions for the prompt, respecting the max limit.
// Returns "None" if there are no prior questions.
func buildDedup(prior []string, limit int) string {
	if len(prior) == 0 {
		return "None"
	}
	if limit > 0 && len(prior) > limit {
		prior = prior[len(prior)-limit:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

// recentList keeps the last n question texts served.
type recentList struct {
	n     int
	items []string
}

func (r *recentList) add(texts ...string) {
	r.items = append(r.items, texts...)
	if over := len(r.items) - r.n; r.n > 0 && over > 0 {
		r.items = append([]string(nil), r.items[over:]...)
	}
}

func (r *recentList) snapshot() []string {
	return append([]string(nil), r.items...)
}
