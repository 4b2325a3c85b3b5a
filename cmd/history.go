package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent learning activity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.progress.IsGuest() {
			fmt.Fprintln(out, "Guest sessions keep no history.")
			return nil
		}

		records, err := a.db.EventRepo().QueryActivity(ctx, a.progress.UserID(), store.QueryOpts{Limit: limit, Kind: kind})
		if err != nil {
			return fmt.Errorf("query activity: %w", err)
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No activity yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-20s  %-6s  %s\n", "ID", "Time", "Kind", "Score", "Detail")
		for _, r := range records {
			fmt.Fprintf(out, "%-5d  %-16s  %-20s  %-6d  %s\n",
				r.Sequence,
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				r.Kind,
				r.FluencyScore,
				r.Detail,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum events to show")
	historyCmd.Flags().String("kind", "", "Only show events of this kind (e.g. xp, word_reviewed)")
}
