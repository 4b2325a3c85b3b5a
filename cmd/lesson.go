package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/content"
	"github.com/abhisek/fluenz/internal/ui/theme"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson <level> <topic>",
	Short: "Show a vocabulary lesson for a topic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(args[0])
		if err != nil {
			return err
		}
		learn, _ := cmd.Flags().GetBool("learn")
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
		vocab, err := svc.Vocabulary(ctx, level, args[1])
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s  %s\n\n", theme.Title.Render(args[1]), theme.Subtitle.Render(string(level)))
		for i, w := range vocab {
			fmt.Fprintf(out, "%2d. %s %s %s\n", i+1, theme.Word.Render(w.Word),
				theme.Hint.Render(w.Phonetic), theme.Subtitle.Render("("+w.Type+")"))
			fmt.Fprintf(out, "    %s\n", w.Definition)
			if w.DefinitionVI != "" {
				fmt.Fprintf(out, "    %s\n", theme.Hint.Render(w.DefinitionVI))
			}
			if w.Example != "" {
				fmt.Fprintf(out, "    “%s”\n", w.Example)
			}
			fmt.Fprintln(out)
		}

		if learn {
			n := a.session.Learn(content.Words(vocab))
			fmt.Fprintf(out, "Added %d new words to your reviews.\n", n)
			printUnlocked(cmd, a.session)
		} else {
			fmt.Fprintf(out, "Take the test: fluenz test %q %q --words %s\n",
				args[0], args[1], strings.Join(content.Words(vocab), ","))
		}
		return nil
	},
}

var lessonTopicsCmd = &cobra.Command{
	Use:   "topics <level>",
	Short: "Suggest topics for a level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := a.contentService(ctx)
		if err != nil {
			return err
		}
		topics, err := svc.Topics(ctx, level)
		if err != nil {
			return err
		}

		snap := a.progress.Snapshot()
		done := make(map[string]bool)
		for _, t := range snap.CompletedTopics[string(level)] {
			done[t] = true
		}
		for _, t := range topics {
			mark := "  "
			if done[t] {
				mark = theme.Correct.Render("✓ ")
			}
			fmt.Fprintln(cmd.OutOrStdout(), mark+t)
		}
		return nil
	},
}

var lessonExplainCmd = &cobra.Command{
	Use:   "explain <word>",
	Short: "Ask the tutor for synonyms, antonyms and collocations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		details, err := svc.WordDetails(ctx, args)
		if err != nil {
			return err
		}
		word := content.VocabularyWord{Word: args[0]}
		if len(details) > 0 {
			word = details[0]
		}
		exp, err := svc.Explain(ctx, word)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s  %s\n\n%s\n\n", theme.Word.Render(word.Word), theme.Hint.Render(word.Phonetic), exp.DetailedExplanation)
		list := func(label string, items []string) {
			if len(items) > 0 {
				fmt.Fprintf(out, "%s%s\n", theme.Label.Render(label), strings.Join(items, ", "))
			}
		}
		list("Synonyms", exp.Synonyms)
		list("Antonyms", exp.Antonyms)
		list("Collocations", exp.Collocations)

		if ach, ok := a.session.UseTutor(); ok {
			fmt.Fprintf(out, "\n%s Achievement unlocked: %s\n", ach.Category.Icon(), theme.Highlight.Render(ach.Name))
		}
		return nil
	},
}

var placementCmd = &cobra.Command{
	Use:   "placement <correct> <total>",
	Short: "Pick a starting level from a placement test score",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var correct, total int
		if _, err := fmt.Sscanf(args[0]+" "+args[1], "%d %d", &correct, &total); err != nil {
			return fmt.Errorf("invalid score: %w", err)
		}
		if correct < 0 || correct > total {
			return fmt.Errorf("invalid score %d/%d", correct, total)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		level := content.PlacementLevel(correct, total)
		streak := a.session.Begin()
		fmt.Fprintf(cmd.OutOrStdout(), "Start at %s. Streak: %d days.\n", theme.Highlight.Render(string(level)), streak.Streak)
		printUnlocked(cmd, a.session)
		return nil
	},
}

func init() {
	lessonCmd.Flags().Bool("learn", false, "Add the lesson words to your reviews")
	lessonCmd.AddCommand(lessonTopicsCmd, lessonExplainCmd)
}
