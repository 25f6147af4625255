package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/ui/theme"
)

// Card wraps content in a rounded border under an optional title.
func Card(title, content string, width int) string {
	body := content
	if title != "" {
		body = theme.Title.Render(title) + "\n" + content
	}
	style := theme.Card
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.TrimRight(body, "\n"))
}

// Header renders the one-line status banner: name, level and XP.
func Header(name string, level int, rank string, xp int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("EXAMPREP")
	who := lipgloss.NewStyle().Foreground(theme.Text).Render(name)
	right := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("Lv %d · %s · %d XP", level, rank, xp))
	return left + "  " + who + "  " + right
}

// KeyValue renders aligned "key  value" rows.
func KeyValue(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	var b strings.Builder
	for _, r := range rows {
		key := r[0] + strings.Repeat(" ", width-lipgloss.Width(r[0]))
		b.WriteString(theme.Label.Render(key) + "  " + theme.Body.Render(r[1]) + "\n")
	}
	return b.String()
}
