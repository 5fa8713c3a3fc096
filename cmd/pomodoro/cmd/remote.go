package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/oshokin/pomodoro/internal/service/client"
)

// serverAddress overrides server_addr from the configuration file.
var serverAddress string

// newRemoteCommand builds a subcommand that sends one action to pomodoro-server.
func newRemoteCommand(action client.Action, use, short string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			options := &client.Options{
				ConfigPath:    configPath,
				ServerAddress: serverAddress,
				Action:        action,
				Minutes:       args,
			}

			return client.Run(ctx, options)
		},
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	commands := []*cobra.Command{
		newRemoteCommand(client.ActionStart, "start", "Start the server's countdown.", cobra.NoArgs),
		newRemoteCommand(client.ActionStop, "stop", "Stop the server's countdown.", cobra.NoArgs),
		newRemoteCommand(client.ActionReset, "reset [work short long]",
			"Reset the server's timer, optionally with new durations in minutes.",
			func(_ *cobra.Command, args []string) error {
				if len(args) != 0 && len(args) != 3 {
					return errors.New("reset takes either no arguments or work, short and long break minutes")
				}

				return nil
			}),
		newRemoteCommand(client.ActionStatus, "status", "Print the server's timer state.", cobra.NoArgs),
		newRemoteCommand(client.ActionWatch, "watch", "Follow the server's timer until interrupted.", cobra.NoArgs),
	}

	for _, command := range commands {
		command.Flags().StringVarP(&serverAddress, "server", "a", "", "server address (overrides server_addr)")
		rootCmd.AddCommand(command)
	}
}
