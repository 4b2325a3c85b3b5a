package cmd

import (
	"fmt"
	"io"
	"strings"

	progressbar "charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/achievements"
	"github.com/abhisek/fluenz/internal/activity"
	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/fluency"
	"github.com/abhisek/fluenz/internal/progress"
	"github.com/abhisek/fluenz/internal/spacedrep"
	"github.com/abhisek/fluenz/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE:  runStats,
}

var goalCmd = &cobra.Command{
	Use:   "goal [xp]",
	Short: "Set the daily XP goal (defaults to daily_goal from config)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal := cfg.DailyGoal
		if len(args) == 1 {
			if _, err := fmt.Sscanf(args[0], "%d", &goal); err != nil || goal <= 0 {
				return fmt.Errorf("invalid goal %q: want a positive number", args[0])
			}
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.progress.SetDailyGoal(goal) {
			fmt.Fprintf(cmd.OutOrStdout(), "Daily goal is already %d XP.\n", goal)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Daily goal set to %d XP.\n", goal)
		return nil
	},
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	who := a.progress.UserID()
	if a.progress.IsGuest() {
		who = "guest (nothing is saved)"
	}
	renderStats(cmd.OutOrStdout(), who, a.progress.Snapshot(), a.progress.Today())
	return nil
}

func statRow(label, value string) string {
	return theme.Label.Render(label) + value
}

// renderStats prints the dashboard for one learner.
func renderStats(w io.Writer, who string, snap progress.Snapshot, today calendar.Day) {
	score := fluency.Compute(snap.Metrics())
	xpToday := snap.XPTodayOn(today)
	goal := snap.DailyGoal
	if goal <= 0 {
		goal = activity.DefaultDailyGoal
	}

	streak := fmt.Sprintf("%d days", snap.Streak)
	switch {
	case activity.Broken(snap.LastActiveDate, today):
		streak = theme.Incorrect.Render(streak) + theme.Hint.Render("  practice today to start again")
	case snap.Streak > 0:
		streak = theme.Highlight.Render(streak) + theme.Hint.Render(
			fmt.Sprintf("  next milestone %d", activity.NextStreakMilestone(snap.Streak)))
	}

	bar := progressbar.New(progressbar.WithWidth(24), progressbar.WithoutPercentage())
	todayLine := bar.ViewAs(min(float64(xpToday)/float64(goal), 1)) +
		theme.Value.Render(fmt.Sprintf("  %d / %d XP", xpToday, goal))
	if snap.GoalCompletedOn(today) {
		todayLine += "  " + theme.Correct.Render("goal reached")
	}

	counts := spacedrep.LevelCounts(snap.WordMastery)
	var ladder []string
	for level, n := range counts {
		if n == 0 {
			continue
		}
		ladder = append(ladder, theme.Level(level).Render(fmt.Sprintf("%s %d", spacedrep.LevelLabel(level), n)))
	}
	if len(ladder) == 0 {
		ladder = []string{theme.Hint.Render("no words yet, try `fluenz learn`")}
	}

	unlocked := 0
	for _, ach := range achievements.All() {
		if snap.IsUnlocked(ach.ID) {
			unlocked++
		}
	}

	rows := []string{
		theme.Title.Render("Fluenz") + "  " + theme.Subtitle.Render(who),
		"",
		statRow("Fluency score", theme.Value.Render(fmt.Sprintf("%d", snap.FluencyScore))+
			theme.Hint.Render(fmt.Sprintf(" / %d", fluency.Max))),
		statRow("", theme.Hint.Render(fmt.Sprintf(
			"base %.0f · streak %.0f · effort %.0f · tests %.0f · speaking %.0f · weak %.0f",
			score.Base, score.Streak, score.Effort, score.Test, score.Speaking, score.Penalty))),
		statRow("Total XP", theme.Value.Render(fmt.Sprintf("%d", snap.TotalXP))),
		statRow("Streak", streak),
		statRow("Today", todayLine),
		statRow("Words", fmt.Sprintf("%d tracked · %d due today",
			len(snap.WordMastery), len(snap.DueWords(today)))),
		statRow("Ladder", strings.Join(ladder, theme.Hint.Render(" · "))),
		statRow("Tests", fmt.Sprintf("%d taken%s", len(snap.TestHistory), lastTest(snap))),
		statRow("Speaking", fmt.Sprintf("%d sessions%s", len(snap.SpeakingHistory), lastSpeaking(snap))),
		statRow("Weak points", fmt.Sprintf("%d vocabulary · %d grammar",
			len(snap.WeakPoints.Vocabulary), len(snap.WeakPoints.Grammar))),
		statRow("Topics", fmt.Sprintf("%d completed", len(snap.CompletedTopicsFor("")))),
		statRow("Achievements", fmt.Sprintf("%d / %d", unlocked, len(achievements.All()))),
	}
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func lastTest(snap progress.Snapshot) string {
	if len(snap.TestHistory) == 0 {
		return ""
	}
	return fmt.Sprintf(" · last %.0f%%", snap.TestHistory[len(snap.TestHistory)-1].Percentage)
}

func lastSpeaking(snap progress.Snapshot) string {
	if len(snap.SpeakingHistory) == 0 {
		return ""
	}
	return fmt.Sprintf(" · last band %.1f", snap.SpeakingHistory[len(snap.SpeakingHistory)-1].Score)
}
