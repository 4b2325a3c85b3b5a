package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
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
		Width(16)

	Value = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Word = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Highlight = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)

// levelColors runs from freshly introduced to long-term retained.
var levelColors = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(Error),
	lipgloss.NewStyle().Foreground(Accent),
	lipgloss.NewStyle().Foreground(Accent),
	lipgloss.NewStyle().Foreground(Secondary),
	lipgloss.NewStyle().Foreground(Secondary),
	lipgloss.NewStyle().Foreground(Primary),
	lipgloss.NewStyle().Foreground(Success),
	lipgloss.NewStyle().Foreground(Success).Bold(true),
}

// Level returns the style for a mastery level, clamped to the ladder.
func Level(level int) lipgloss.Style {
	level = max(0, min(level, len(levelColors)-1))
	return levelColors[level]
}
