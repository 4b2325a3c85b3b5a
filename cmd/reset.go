package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long:  "Replace the learner's progress with a fresh profile. Activity history is kept.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if a.progress.IsGuest() {
			fmt.Fprintln(cmd.OutOrStdout(), "Guest sessions have nothing to reset.")
			return nil
		}
		if !yes {
			return fmt.Errorf("this erases all progress for %q; re-run with --yes", a.progress.UserID())
		}

		// Pending writes from opening the store must land before the reset.
		if err := a.progress.Flush(cmd.Context()); err != nil {
			return err
		}
		if err := progress.Reset(cmd.Context(), a.repo, a.progress.UserID(), a.progress.Today()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Progress for %q reset.\n", a.progress.UserID())
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
