package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/progress"
	"github.com/abhisek/fluenz/internal/session"
	"github.com/abhisek/fluenz/internal/ui/theme"
)

var weakCmd = &cobra.Command{
	Use:   "weak",
	Short: "Manage vocabulary and grammar weak points",
}

var weakListCmd = &cobra.Command{
	Use:   "list",
	Short: "List outstanding weak points",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		weak := a.progress.Snapshot().WeakPoints
		if weak.Len() == 0 {
			fmt.Fprintln(out, "No weak points. Nice!")
			return nil
		}
		section := func(title string, items []string) {
			if len(items) == 0 {
				return
			}
			fmt.Fprintln(out, theme.Title.Render(title))
			for _, it := range items {
				fmt.Fprintf(out, "  • %s\n", it)
			}
		}
		section("Vocabulary", weak.Vocabulary)
		section("Grammar", weak.Grammar)
		return nil
	},
}

var weakAddCmd = &cobra.Command{
	Use:   "add <item>...",
	Short: "Flag words (or grammar points with --grammar) for review",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		grammar, _ := cmd.Flags().GetBool("grammar")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var points progress.WeakPoints
		if grammar {
			points.Grammar = args
		} else {
			points.Vocabulary = args
		}
		n := a.progress.RecordWeakPoints(points)
		fmt.Fprintf(cmd.OutOrStdout(), "Flagged %d new weak points.\n", n)
		return nil
	},
}

var weakClearCmd = &cobra.Command{
	Use:       "clear <vocabulary|grammar>",
	Short:     "Clear one kind of weak point",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(progress.WeakVocabulary), string(progress.WeakGrammar)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := progress.WeakKind(args[0])
		if kind != progress.WeakVocabulary && kind != progress.WeakGrammar {
			return fmt.Errorf("unknown kind %q: want vocabulary or grammar", args[0])
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		a.progress.ClearWeakPoints(kind)
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s weak points.\n", kind)
		return nil
	},
}

var weakReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Study the weak vocabulary, then clear it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		words, err := a.session.StartWeaknessReview(cmd.Context())
		if errors.Is(err, session.ErrNothingToReview) {
			fmt.Fprintln(out, "No weak vocabulary to review.")
			return nil
		}
		if err != nil {
			return explainGuest(err)
		}
		for _, w := range words {
			fmt.Fprintf(out, "%s\n  %s\n\n", theme.Word.Render(w.Word), formatHint(w))
		}
		return nil
	},
}

func init() {
	weakAddCmd.Flags().Bool("grammar", false, "Items are grammar points")
	weakCmd.AddCommand(weakListCmd, weakAddCmd, weakClearCmd, weakReviewCmd)
}
