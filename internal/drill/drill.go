// Package drill is the interactive flashcard review shown by `fluenz review`.
package drill

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fluenz/internal/session"
	"github.com/abhisek/fluenz/internal/ui/theme"
)

type phase int

const (
	phaseAsk phase = iota
	phaseReveal
	phaseDone
)

const barWidth = 40

// Model drives a session.Review one card at a time: the word is shown,
// the learner reveals the hint, then grades themselves.
type Model struct {
	review  *session.Review
	hints   map[string]string
	phase   phase
	last    *session.ReviewResult
	bar     progress.Model
	aborted bool
}

// New creates a drill over review. hints maps words to the text shown on
// reveal and may be nil.
func New(review *session.Review, hints map[string]string) Model {
	m := Model{
		review: review,
		hints:  hints,
		bar:    progress.New(progress.WithWidth(barWidth), progress.WithoutPercentage()),
	}
	if review.Done() {
		m.phase = phaseDone
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c":
		m.aborted = !m.review.Done()
		return m, tea.Quit
	}

	switch m.phase {
	case phaseAsk:
		switch key.String() {
		case "enter", "space", " ":
			m.phase = phaseReveal
		case "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}

	case phaseReveal:
		var correct bool
		switch key.String() {
		case "y", "right":
			correct = true
		case "n", "left":
			correct = false
		case "esc", "q":
			m.aborted = true
			return m, tea.Quit
		default:
			return m, nil
		}
		res, _ := m.review.Answer(correct)
		m.last = &res
		m.phase = phaseAsk
		if m.review.Done() {
			m.phase = phaseDone
		}

	case phaseDone:
		switch key.String() {
		case "enter", "esc", "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() tea.View {
	return tea.NewView(m.render())
}

// Aborted reports whether the learner quit before answering every card.
func (m Model) Aborted() bool { return m.aborted }

// Summary returns the review figures so far.
func (m Model) Summary() session.Summary { return m.review.Summary() }

func (m Model) render() string {
	var b strings.Builder
	answered, total := m.review.Position()

	b.WriteString(theme.Title.Render("Review"))
	b.WriteString("  ")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d/%d", answered, total)))
	b.WriteString("\n")
	pct := 0.0
	if total > 0 {
		pct = float64(answered) / float64(total)
	}
	b.WriteString(m.bar.ViewAs(pct))
	b.WriteString("\n\n")

	if m.last != nil {
		b.WriteString(renderResult(*m.last))
		b.WriteString("\n\n")
	}

	switch m.phase {
	case phaseDone:
		b.WriteString(renderSummary(m.review.Summary()))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("enter to finish"))
	case phaseAsk:
		word, _ := m.review.Current()
		b.WriteString(theme.Card.Render(theme.Word.Render(word)))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("enter to reveal · esc to stop"))
	case phaseReveal:
		word, _ := m.review.Current()
		card := theme.Word.Render(word)
		if hint := m.hints[word]; hint != "" {
			card += "\n\n" + theme.Body.Render(hint)
		}
		b.WriteString(theme.Card.Render(card))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("y remembered · n forgot · esc to stop"))
	}
	b.WriteString("\n")
	return b.String()
}

func renderResult(r session.ReviewResult) string {
	if r.Correct {
		return theme.Correct.Render("✓ "+r.Word) + theme.Subtitle.Render(fmt.Sprintf("  level %d → %d", r.From, r.To))
	}
	return theme.Incorrect.Render("✗ "+r.Word) + theme.Subtitle.Render(fmt.Sprintf("  level %d → %d", r.From, r.To))
}

func renderSummary(s session.Summary) string {
	rows := []string{
		theme.Label.Render("Reviewed") + theme.Value.Render(fmt.Sprintf("%d", s.Total)),
		theme.Label.Render("Accuracy") + theme.Value.Render(fmt.Sprintf("%.0f%%", s.Accuracy*100)),
		theme.Label.Render("Promoted") + theme.Correct.Render(fmt.Sprintf("%d", s.Promoted)),
		theme.Label.Render("Dropped") + theme.Incorrect.Render(fmt.Sprintf("%d", s.Demoted)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Run shows the drill full screen and returns the final model.
func Run(review *session.Review, hints map[string]string) (Model, error) {
	final, err := tea.NewProgram(New(review, hints)).Run()
	if err != nil {
		return Model{}, fmt.Errorf("run drill: %w", err)
	}
	return final.(Model), nil
}
