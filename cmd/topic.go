package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/content"
	"github.com/abhisek/fluenz/internal/ui/theme"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Track completed, favorite and difficult topics",
}

// topicAction builds a `topic <verb> <level> <topic>` command.
func topicAction(verb, short string, do func(a *app, level, topic string) string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <level> <topic>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), do(a, string(level), args[1]))
			printUnlocked(cmd, a.session)
			return nil
		},
	}
}

var topicListCmd = &cobra.Command{
	Use:   "list [level]",
	Short: "List topics by level",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levels := content.Levels()
		if len(args) == 1 {
			level, err := parseLevel(args[0])
			if err != nil {
				return err
			}
			levels = []content.Level{level}
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		snap := a.progress.Snapshot()
		out := cmd.OutOrStdout()
		for _, level := range levels {
			l := string(level)
			printTopicSet(out, l, snap.CompletedTopics[l], snap.FavoriteTopics[l], snap.DifficultTopics[l])
		}
		return nil
	},
}

func printTopicSet(out io.Writer, level string, completed, favorite, difficult []string) {
	all := slices.Concat(completed, favorite, difficult)
	slices.Sort(all)
	all = slices.Compact(all)
	if len(all) == 0 {
		return
	}
	fmt.Fprintln(out, theme.Title.Render(level))
	for _, t := range all {
		var marks string
		if slices.Contains(completed, t) {
			marks += theme.Correct.Render(" ✓ completed")
		}
		if slices.Contains(favorite, t) {
			marks += theme.Highlight.Render(" ★ favorite")
		}
		if slices.Contains(difficult, t) {
			marks += theme.Incorrect.Render(" ! difficult")
		}
		fmt.Fprintf(out, "  %s%s\n", t, marks)
	}
}

func init() {
	topicCmd.AddCommand(
		topicListCmd,
		topicAction("complete", "Mark a topic completed", func(a *app, level, topic string) string {
			if a.session.CompleteTopic(level, topic) {
				return "Topic completed."
			}
			return "Topic was already completed."
		}),
		topicAction("favorite", "Toggle a topic's favorite mark", func(a *app, level, topic string) string {
			if a.session.ToggleFavorite(level, topic) {
				return "Added to favorites."
			}
			return "Removed from favorites."
		}),
		topicAction("difficult", "Toggle a topic's difficult mark", func(a *app, level, topic string) string {
			if a.progress.ToggleDifficult(level, topic) {
				return "Marked difficult."
			}
			return "No longer marked difficult."
		}),
	)
}
