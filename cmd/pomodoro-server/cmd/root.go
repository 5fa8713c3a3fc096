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
	"github.com/oshokin/pomodoro/internal/service/server"
	"github.com/oshokin/pomodoro/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides log_level from the configuration file.
	logLevel string
	// allowMultiple skips the single-instance check.
	allowMultiple bool

	// rootCmd represents the base command for running the timer server.
	rootCmd = &cobra.Command{
		Use:   "pomodoro-server [listen-address]",
		Short: "Run the pomodoro timer behind a gRPC server.",
		Long: `Starts one countdown timer and serves it over gRPC.

Other terminals drive it with "pomodoro start|stop|reset|status|watch".
The server listens on server_addr from the configuration file.
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:50515).`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return applyLogLevel(logLevel)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				AllowMultiple: allowMultiple,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the pomodoro-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
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
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&allowMultiple, "force", "f", false, "start even if another pomodoro process is running")
}
