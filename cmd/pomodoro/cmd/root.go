package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/pomodoro/internal/config"
	"github.com/oshokin/pomodoro/internal/logger"
	"github.com/oshokin/pomodoro/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides log_level from the configuration file.
	logLevel string

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "pomodoro",
		Short: "Pomodoro countdown timer.",
		Long: `A work/break countdown timer with a long break after every fourth work interval.

Use "pomodoro run" for an interactive timer in this terminal, or start
"pomodoro-server" and drive it remotely with start, stop, reset, status and watch.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return applyLogLevel(logLevel)
		},
	}
)

// Execute runs the pomodoro CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGTERM or SIGINT.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// applyLogLevel sets the shared log level from the flag or, when empty, from the settings file.
func applyLogLevel(flagValue string) error {
	value := flagValue
	if value == "" {
		settings, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}

		value = settings.LogLevel
	}

	level, ok := logger.ParseLogLevel(value)
	if !ok {
		return fmt.Errorf("unknown log level %q", value)
	}

	logger.SetLevel(level)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
}
