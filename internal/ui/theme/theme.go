// Package theme holds the colour palette and shared lipgloss styles of
// the command-line output.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/examprep/internal/profile"
)

// Palette. Dark academic tones with one warm accent.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#10B981") // Emerald
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
	Highlight = lipgloss.Color("#FDE68A")
)

// categoryColors tints each practice category.
var categoryColors = map[profile.Category]color.Color{
	profile.Reading:    lipgloss.Color("#38BDF8"),
	profile.Vocabulary: lipgloss.Color("#A78BFA"),
	profile.Grammar:    lipgloss.Color("#34D399"),
	profile.Math:       lipgloss.Color("#FB923C"),
	profile.Spelling:   lipgloss.Color("#F472B6"),
	profile.Mock:       lipgloss.Color("#FACC15"),
}

// CategoryColor returns the tint of c, or Primary.
func CategoryColor(c profile.Category) color.Color {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return Primary
}

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Bold(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Marked = lipgloss.NewStyle().
		Background(Highlight).
		Foreground(lipgloss.Color("#0F172A"))

	Star = lipgloss.NewStyle().
		Foreground(Accent)
)
