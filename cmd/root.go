package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/fluenz/internal/config"
	"github.com/abhisek/fluenz/internal/logger"
)

var (
	v   = config.New()
	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "fluenz",
	Short: "IELTS vocabulary and speaking progress tracker",
	Long: `Fluenz tracks IELTS study progress: spaced-repetition word reviews,
daily streaks and XP goals, topic tests, speaking feedback and a fluency score.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(v); err != nil {
			return err
		}
		if log, err = logger.New(cfg); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
	RunE: runStats,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides FLUENZ_DB env var)")
	flags.String("user", "", "Learner id; omit for a guest session that saves nothing")
	flags.Bool("guest", false, "Use a guest session even when a user is configured")
	flags.String("config", "", "Path to a config file (default ./fluenz.yaml)")

	_ = v.BindPFlag("store.path", flags.Lookup("db"))
	_ = v.BindPFlag("user", flags.Lookup("user"))
	_ = v.BindPFlag("guest", flags.Lookup("guest"))
	_ = v.BindPFlag("config", flags.Lookup("config"))

	rootCmd.AddCommand(
		statsCmd,
		goalCmd,
		dueCmd,
		learnCmd,
		reviewCmd,
		testCmd,
		speakCmd,
		placementCmd,
		lessonCmd,
		weakCmd,
		topicCmd,
		achievementsCmd,
		historyCmd,
		remindCmd,
		resetCmd,
		llmCmd,
		versionCmd,
	)
}
