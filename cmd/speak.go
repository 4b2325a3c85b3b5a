package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/content"
	"github.com/abhisek/fluenz/internal/session"
	"github.com/abhisek/fluenz/internal/ui/theme"
)

var speakCmd = &cobra.Command{
	Use:   "speak",
	Short: "Get IELTS speaking feedback on a transcript",
	Long: `Read a speaking test transcript from --file or stdin and grade it.

Lines starting with "examiner:" are the examiner's questions; every other
non-empty line (optionally prefixed "user:") is the candidate's answer.`,
	Args: cobra.NoArgs,
	RunE: runSpeak,
}

var speakRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a speaking band score graded elsewhere",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		band, _ := cmd.Flags().GetFloat64("band")
		vocab, _ := cmd.Flags().GetStringSlice("vocab")
		grammar, _ := cmd.Flags().GetStringSlice("grammar")
		if band < 0 || band > 9 {
			return fmt.Errorf("band %.1f out of range 0-9", band)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		sum := a.session.FinishSpeaking(content.SpeakingFeedback{
			OverallBandScore:   band,
			SpeakingWeakPoints: content.SpeakingWeakPoints{Vocabulary: vocab, Grammar: grammar},
		})
		printSpeakingSummary(cmd.OutOrStdout(), sum)
		printUnlocked(cmd, a.session)
		return nil
	},
}

func init() {
	speakCmd.Flags().String("file", "", "Transcript file (default stdin)")

	speakRecordCmd.Flags().Float64("band", 0, "Overall band score (0-9)")
	speakRecordCmd.Flags().StringSlice("vocab", nil, "Vocabulary weak points")
	speakRecordCmd.Flags().StringSlice("grammar", nil, "Grammar weak points")
	_ = speakRecordCmd.MarkFlagRequired("band")
	speakCmd.AddCommand(speakRecordCmd)
}

func runSpeak(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	in := cmd.InOrStdin()
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open transcript: %w", err)
		}
		defer f.Close()
		in = f
	}
	transcript, err := readTranscript(in)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := a.contentService(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Analysing your answers...")
	fb, err := svc.AnalyzeSpeaking(ctx, transcript)
	if err != nil {
		return err
	}

	printFeedback(out, fb)
	printSpeakingSummary(out, a.session.FinishSpeaking(*fb))
	printUnlocked(cmd, a.session)
	return nil
}

// readTranscript parses "speaker: text" lines. Unprefixed lines belong to
// the candidate.
func readTranscript(r io.Reader) ([]content.TranscriptItem, error) {
	var items []content.TranscriptItem
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		item := content.TranscriptItem{Speaker: content.SpeakerUser, Text: line}
		if speaker, text, ok := strings.Cut(line, ":"); ok {
			switch strings.ToLower(strings.TrimSpace(speaker)) {
			case string(content.SpeakerExaminer):
				item = content.TranscriptItem{Speaker: content.SpeakerExaminer, Text: strings.TrimSpace(text)}
			case string(content.SpeakerUser):
				item.Text = strings.TrimSpace(text)
			}
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return items, nil
}

func printFeedback(out io.Writer, fb *content.SpeakingFeedback) {
	fmt.Fprintf(out, "\n%s %s\n\n", theme.Title.Render("Overall band"), theme.Value.Render(fmt.Sprintf("%.1f", fb.OverallBandScore)))
	criteria := []struct {
		name  string
		score content.CriterionScore
	}{
		{"Fluency", fb.FluencyAndCoherence},
		{"Lexical", fb.LexicalResource},
		{"Grammar", fb.GrammaticalRangeAndAccuracy},
		{"Pronunciation", fb.Pronunciation},
	}
	for _, c := range criteria {
		fmt.Fprintf(out, "%s%s  %s\n", theme.Label.Render(c.name),
			theme.Value.Render(fmt.Sprintf("%.1f", c.score.Score)), c.score.Feedback)
	}
	if len(fb.Suggestions) > 0 {
		fmt.Fprintln(out, "\nSuggestions:")
		for _, s := range fb.Suggestions {
			fmt.Fprintf(out, "  • %s\n", s)
		}
	}
	fmt.Fprintln(out)
}

func printSpeakingSummary(out io.Writer, sum session.SpeakingSummary) {
	fmt.Fprintf(out, "+%d XP\n", sum.Goal.Awarded)
	if sum.Goal.JustCompleted {
		fmt.Fprintf(out, "Daily goal reached! +%d bonus XP\n", sum.Goal.BonusXP)
	}
	if sum.Streak.Changed {
		fmt.Fprintf(out, "Streak: %d days\n", sum.Streak.Streak)
	}
	if sum.WeakAdded > 0 {
		fmt.Fprintf(out, "%d new weak points to practise (see `fluenz weak list`).\n", sum.WeakAdded)
	}
}
