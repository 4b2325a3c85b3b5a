package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/content"
	"github.com/abhisek/fluenz/internal/session"
	"github.com/abhisek/fluenz/internal/ui/theme"
)

var testCmd = &cobra.Command{
	Use:   "test <level> <topic>",
	Short: "Take a vocabulary test for a topic",
	Long: `Generate a vocabulary list and a test for a topic, answer it on the
terminal, and record the result. Level is a band such as 6 or "Band 6.0-6.5".

Passing (above 60%) completes the topic. Every lesson word goes on the review
ladder and missed words become weak points.`,
	Args: cobra.ExactArgs(2),
	RunE: runTest,
}

var testRecordCmd = &cobra.Command{
	Use:   "record <level> <topic>",
	Short: "Record a test taken elsewhere",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(args[0])
		if err != nil {
			return err
		}
		correct, _ := cmd.Flags().GetInt("correct")
		total, _ := cmd.Flags().GetInt("total")
		words, _ := cmd.Flags().GetStringSlice("words")
		missed, _ := cmd.Flags().GetStringSlice("missed")
		if correct < 0 || total < 0 || correct > total {
			return fmt.Errorf("invalid score %d/%d", correct, total)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		sum := a.session.FinishTest(session.TestOutcome{
			Level:      string(level),
			Topic:      args[1],
			Vocabulary: words,
			Missed:     missed,
			Correct:    correct,
			Total:      total,
		})
		printTestSummary(cmd.OutOrStdout(), sum)
		printUnlocked(cmd, a.session)
		return nil
	},
}

func init() {
	testCmd.Flags().StringSlice("words", nil, "Test these words instead of generating a vocabulary list")

	testRecordCmd.Flags().Int("correct", 0, "Correct answers")
	testRecordCmd.Flags().Int("total", 0, "Graded questions")
	testRecordCmd.Flags().StringSlice("words", nil, "Words the lesson covered")
	testRecordCmd.Flags().StringSlice("missed", nil, "Words answered incorrectly")
	testCmd.AddCommand(testRecordCmd)
}

func parseLevel(s string) (content.Level, error) {
	level, ok := content.ParseLevel(s)
	if !ok {
		return "", fmt.Errorf("unknown level %q: want 5, 6, 7 or 8", s)
	}
	return level, nil
}

func runTest(cmd *cobra.Command, args []string) error {
	level, err := parseLevel(args[0])
	if err != nil {
		return err
	}
	topic := args[1]
	words, _ := cmd.Flags().GetStringSlice("words")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := a.contentService(ctx)
	if err != nil {
		return err
	}

	var vocab []content.VocabularyWord
	if len(words) > 0 {
		fmt.Fprintln(out, "Looking up words...")
		vocab, err = svc.WordDetails(ctx, words)
	} else {
		fmt.Fprintf(out, "Building a %s vocabulary list for %q...\n", level, topic)
		vocab, err = svc.Vocabulary(ctx, level, topic)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Generating test...")
	test, err := svc.GenerateTest(ctx, vocab)
	if err != nil {
		return err
	}

	answers, err := askTest(cmd.InOrStdin(), out, test)
	if err != nil {
		return err
	}
	correct, missed := test.Grade(answers)

	sum := a.session.FinishTest(session.TestOutcome{
		Level:      string(level),
		Topic:      topic,
		Vocabulary: content.Words(vocab),
		Missed:     missed,
		Correct:    correct,
		Total:      test.QuestionCount(),
	})
	fmt.Fprintf(out, "\n── %d/%d correct ──\n", correct, test.QuestionCount())
	printTestSummary(out, sum)
	printUnlocked(cmd, a.session)
	return nil
}

// askTest asks each graded question and returns the answers in grading
// order. MCQs accept the option number or the word. Closed input leaves
// the remaining questions unanswered.
func askTest(in io.Reader, out io.Writer, test *content.Test) ([]string, error) {
	scanner := bufio.NewScanner(in)
	total := test.QuestionCount()
	answers := make([]string, 0, total)

	read := func() (string, bool) {
		fmt.Fprint(out, "Your answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for i, q := range test.MCQs {
		fmt.Fprintf(out, "\n── Question %d/%d ──\n%s\n", i+1, total, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, opt)
		}
		answer, ok := read()
		if !ok {
			return answers, scanner.Err()
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Options) {
			answer = q.Options[n-1]
		}
		answers = append(answers, answer)
		printVerdict(out, answer, q.CorrectAnswer)
	}

	for i, q := range test.FillInTheBlanks {
		fmt.Fprintf(out, "\n── Question %d/%d ──\n%s\n", len(test.MCQs)+i+1, total, q.Sentence)
		answer, ok := read()
		if !ok {
			return answers, scanner.Err()
		}
		answers = append(answers, answer)
		printVerdict(out, answer, q.CorrectAnswer)
	}

	if len(test.MatchingPairs) > 0 {
		fmt.Fprintln(out, "\n── Review: words and meanings ──")
		for _, p := range test.MatchingPairs {
			fmt.Fprintf(out, "  %-20s %s\n", theme.Word.Render(p.Word), p.Definition)
		}
	}
	return answers, nil
}

func printVerdict(out io.Writer, answer, want string) {
	if strings.EqualFold(answer, want) {
		fmt.Fprintln(out, theme.Correct.Render("✓ Correct!"))
		return
	}
	fmt.Fprintf(out, "%s Answer: %s\n", theme.Incorrect.Render("✗ Wrong."), want)
}

func printTestSummary(out io.Writer, sum session.TestSummary) {
	fmt.Fprintf(out, "Score %.0f%%  +%d XP", sum.Percentage, sum.Goal.Awarded)
	if sum.Perfect {
		fmt.Fprint(out, "  "+theme.Highlight.Render("perfect!"))
	}
	fmt.Fprintln(out)
	if sum.Goal.JustCompleted {
		fmt.Fprintf(out, "Daily goal reached! +%d bonus XP\n", sum.Goal.BonusXP)
	}
	if sum.Streak.Changed {
		fmt.Fprintf(out, "Streak: %d days\n", sum.Streak.Streak)
	}
	if sum.TopicCompleted {
		fmt.Fprintln(out, theme.Correct.Render("Topic completed."))
	}
	if sum.WordsIntroduced > 0 {
		fmt.Fprintf(out, "%d new words added to your reviews.\n", sum.WordsIntroduced)
	}
	if sum.WeakAdded > 0 {
		fmt.Fprintf(out, "%d words flagged as weak points.\n", sum.WeakAdded)
	}
}
