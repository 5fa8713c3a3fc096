package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/pomodoro/internal/logger"
	"github.com/oshokin/pomodoro/internal/service/local"
)

var (
	// autoStart starts the countdown without waiting for the start command.
	autoStart bool
	// force skips the single-instance check.
	force bool

	// runCmd runs the interactive timer in the current terminal.
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run an interactive timer in this terminal.",
		Long: `Runs the timer locally and reads one command per line from stdin:

  s, start              start the countdown
  p, stop, pause        stop the countdown
  r, reset              reset to a fresh work interval
  c <work> <short> <long>  apply new durations in minutes and reset
  o [percent]           cycle opacity or set it to percent (0-100)
  q, quit               exit`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			ctx, stop := signalContext()
			defer stop()

			// Keep the clock line on stdout free of log records.
			logger.SetOutput(os.Stderr)

			options := &local.Options{
				ConfigPath:    configPath,
				AutoStart:     autoStart,
				AllowMultiple: force,
			}

			return local.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	runCmd.Flags().BoolVarP(&autoStart, "start", "s", false, "start the countdown immediately")
	runCmd.Flags().BoolVarP(&force, "force", "f", false, "start even if another pomodoro process is running")

	rootCmd.AddCommand(runCmd)
}
