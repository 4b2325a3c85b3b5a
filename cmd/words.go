package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/fluenz/internal/content"
	"github.com/abhisek/fluenz/internal/drill"
	"github.com/abhisek/fluenz/internal/session"
	"github.com/abhisek/fluenz/internal/spacedrep"
	"github.com/abhisek/fluenz/internal/ui/theme"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List words due for review today",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		snap := a.progress.Snapshot()
		today := a.progress.Today()

		words := spacedrep.MostOverdue(snap.WordMastery, today)
		if all {
			words = make([]string, 0, len(snap.WordMastery))
			for w := range snap.WordMastery {
				words = append(words, w)
			}
			slices.Sort(words)
		}
		if len(words) == 0 {
			fmt.Fprintln(out, "Nothing due. Come back tomorrow!")
			return nil
		}

		for _, w := range words {
			rec := snap.WordMastery[w]
			var when string
			switch days := rec.DaysUntilReview(today); {
			case days > 0:
				when = fmt.Sprintf("in %d days", days)
			case rec.OverdueDays(today) > 0:
				when = theme.Incorrect.Render(fmt.Sprintf("%d days overdue", rec.OverdueDays(today)))
			default:
				when = theme.Highlight.Render("today")
			}
			fmt.Fprintf(out, "%-24s %s  %s\n", w,
				theme.Level(rec.Level).Render(fmt.Sprintf("%-10s", spacedrep.LevelLabel(rec.Level))), when)
		}
		return nil
	},
}

var learnCmd = &cobra.Command{
	Use:   "learn <word>...",
	Short: "Start learning words; they are due for review today",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n := a.session.Learn(args)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d new words (%d already tracked).\n", n, len(args)-n)
		printUnlocked(cmd, a.session)
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review due words in an interactive drill",
	Long: `Review due words, most overdue first, in a flashcard drill.

With --word, grade a single word without the drill:
  fluenz review --word thrive --correct`,
	RunE: runReview,
}

func init() {
	dueCmd.Flags().Bool("all", false, "List every tracked word with its next review")

	reviewCmd.Flags().String("word", "", "Grade a single word instead of running the drill")
	reviewCmd.Flags().Bool("correct", false, "With --word: the word was remembered")
	reviewCmd.Flags().Int("limit", session.DefaultReviewSize, "Maximum words in one drill")
	reviewCmd.Flags().Bool("hints", false, "Fetch definitions to show on each card (uses the LLM provider)")
}

func runReview(cmd *cobra.Command, args []string) error {
	word, _ := cmd.Flags().GetString("word")
	correct, _ := cmd.Flags().GetBool("correct")
	limit, _ := cmd.Flags().GetInt("limit")
	withHints, _ := cmd.Flags().GetBool("hints")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	out := cmd.OutOrStdout()

	if word != "" {
		res, err := a.session.ReviewWord(word, correct)
		if err != nil {
			return explainGuest(err)
		}
		fmt.Fprintln(out, formatReviewResult(res))
		printUnlocked(cmd, a.session)
		return nil
	}

	review, err := a.session.StartReview(limit)
	if errors.Is(err, session.ErrNothingToReview) {
		fmt.Fprintln(out, "Nothing due. Come back tomorrow!")
		return nil
	}
	if err != nil {
		return explainGuest(err)
	}

	var hints map[string]string
	if withHints {
		hints = fetchHints(cmd, a, review.Words())
	}

	final, err := drill.Run(review, hints)
	if err != nil {
		return err
	}
	sum := final.Summary()
	fmt.Fprintf(out, "Reviewed %d words, %.0f%% remembered.\n", sum.Total, sum.Accuracy*100)
	if final.Aborted() {
		fmt.Fprintln(out, "Stopped early; the rest stay due.")
	}
	printUnlocked(cmd, a.session)
	return nil
}

// fetchHints looks up definitions for the drill. Failures only cost the
// hints.
func fetchHints(cmd *cobra.Command, a *app, words []string) map[string]string {
	svc, err := a.contentService(cmd.Context())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "hints unavailable:", err)
		return nil
	}
	details, err := svc.WordDetails(cmd.Context(), words)
	if err != nil {
		log.Warn("fetch review hints", zap.Error(err))
		fmt.Fprintln(cmd.ErrOrStderr(), "hints unavailable:", err)
		return nil
	}
	hints := make(map[string]string, len(details))
	for _, d := range details {
		hints[d.Word] = formatHint(d)
	}
	return hints
}

func formatHint(w content.VocabularyWord) string {
	var b strings.Builder
	if w.Type != "" {
		fmt.Fprintf(&b, "(%s) ", w.Type)
	}
	b.WriteString(w.Definition)
	if w.Example != "" {
		fmt.Fprintf(&b, "\n“%s”", w.Example)
	}
	if w.DefinitionVI != "" {
		fmt.Fprintf(&b, "\n%s", w.DefinitionVI)
	}
	return b.String()
}

func formatReviewResult(r session.ReviewResult) string {
	mark := theme.Correct.Render("✓")
	if !r.Correct {
		mark = theme.Incorrect.Render("✗")
	}
	return fmt.Sprintf("%s %s: %s → %s", mark, r.Word,
		spacedrep.LevelLabel(r.From), theme.Level(r.To).Render(spacedrep.LevelLabel(r.To)))
}

// printUnlocked announces achievements unlocked during this command.
func printUnlocked(cmd *cobra.Command, s *session.Service) {
	for _, ach := range s.Unlocked() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s Achievement unlocked: %s (%s)\n",
			ach.Category.Icon(), theme.Highlight.Render(ach.Name), ach.Tier.DisplayName())
	}
}
