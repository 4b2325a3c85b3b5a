package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluenz/internal/calendar"
	"github.com/abhisek/fluenz/internal/progress"
	"github.com/abhisek/fluenz/internal/reminder"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Print a daily study reminder on a schedule",
	Long: `Run in the foreground and print a reminder every day at reminder.at
(HH:MM in the configured timezone). With --once, print today's reminder and exit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		once, _ := cmd.Flags().GetBool("once")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		source := progress.NewReader(a.progress.UserID(), a.repo, calendar.SystemClock{Location: loc})
		sched := reminder.New(source, reminder.WriterNotifier{W: cmd.OutOrStdout()}, loc, log)

		if once {
			d, err := sched.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			if d.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "All caught up for today.")
			}
			return nil
		}

		hour, minute, err := cfg.Reminder.Clock()
		if err != nil {
			return err
		}
		if err := sched.Start(hour, minute); err != nil {
			return err
		}
		defer sched.Stop()
		fmt.Fprintf(cmd.OutOrStdout(), "Next reminder at %s. Press Ctrl+C to stop.\n",
			sched.NextRun().Format("2006-01-02 15:04"))

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		return nil
	},
}

func init() {
	remindCmd.Flags().Bool("once", false, "Print today's reminder and exit")
}
