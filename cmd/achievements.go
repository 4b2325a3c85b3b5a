package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/achievements"
	"github.com/abhisek/fluenz/internal/progress"
	"github.com/abhisek/fluenz/internal/ui/theme"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and progress toward them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		renderAchievements(cmd.OutOrStdout(), a.progress.Snapshot())
		if a.progress.IsGuest() {
			fmt.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("\nGuests don't earn achievements; pass --user to start."))
		}
		return nil
	},
}

func renderAchievements(out io.Writer, snap progress.Snapshot) {
	all := achievements.All()
	for _, cat := range achievements.AllCategories() {
		fmt.Fprintf(out, "%s %s\n", cat.Icon(), theme.Title.Render(cat.DisplayName()))
		for _, ach := range all {
			if ach.Category != cat {
				continue
			}
			status := theme.Hint.Render(fmt.Sprintf("%d/%d", min(ach.Progress(snap), ach.TotalSteps), ach.TotalSteps))
			name := theme.Body.Render(ach.Name)
			if snap.IsUnlocked(ach.ID) {
				status = theme.Correct.Render("✓ " + snap.UnlockedAchievements[ach.ID].Local().Format("2006-01-02"))
				name = theme.Highlight.Render(ach.Name)
			}
			fmt.Fprintf(out, "  %-28s %-8s %s  %s\n", name, ach.Tier.DisplayName(), status, theme.Subtitle.Render(ach.Description))
		}
		fmt.Fprintln(out)
	}
}
