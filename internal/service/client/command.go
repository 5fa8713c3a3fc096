package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	api "github.com/oshokin/pomodoro/internal/api/grpc/timer"
	"github.com/oshokin/pomodoro/internal/config"
	"github.com/oshokin/pomodoro/internal/engine"
	"github.com/oshokin/pomodoro/internal/logger"
	"github.com/oshokin/pomodoro/internal/presenter"
	"github.com/oshokin/pomodoro/internal/service/common"
)

// Action is a remote timer command.
type Action string

const (
	// ActionStart starts the countdown.
	ActionStart Action = "start"
	// ActionStop stops the countdown.
	ActionStop Action = "stop"
	// ActionReset resets the timer, optionally with new durations.
	ActionReset Action = "reset"
	// ActionStatus prints the current state.
	ActionStatus Action = "status"
	// ActionWatch follows the timer until interrupted.
	ActionWatch Action = "watch"
)

// Options configures a remote command.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Action is the command to run.
	Action Action
	// Minutes holds work, short break and long break minutes for ActionReset.
	Minutes []string
	// Out receives rendered output; stdout when nil.
	Out io.Writer
}

// errUnknownAction is returned for an Action the client does not implement.
var errUnknownAction = errors.New("unknown action")

// Run executes one remote command against the timer server.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "pomodoro-client")

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	dialOptions := []common.Option{common.WithCallTimeout(cfg.Timeout)}

	// The actor only feeds the server's command log, so a lookup failure is not fatal.
	if actor, err := common.DetectActor(); err == nil {
		dialOptions = append(dialOptions, common.WithActor(actor))
	} else {
		logger.WarnKV(ctx, "Unable to detect actor", "error", err)
	}

	client, err := common.Dial(ctx, serverAddress, dialOptions...)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	view, err := presenter.NewViewFromConfig(ctx, cfg, opts.Out)
	if err != nil {
		return err
	}

	logger.DebugKV(ctx, "Sending command", "server_address", serverAddress, "action", opts.Action)

	return execute(ctx, client, view, opts)
}

// execute dispatches the action and renders its result.
func execute(ctx context.Context, client *common.Client, view *presenter.View, opts *Options) error {
	switch opts.Action {
	case ActionWatch:
		return client.Watch(ctx, func(ev engine.Event) error {
			view.Handle(ev)

			return nil
		})
	case ActionStart, ActionStop, ActionReset, ActionStatus:
	default:
		return fmt.Errorf("%w: %q", errUnknownAction, opts.Action)
	}

	var (
		snapshot api.Snapshot
		err      error
	)

	switch opts.Action {
	case ActionStart:
		snapshot, err = client.Start(ctx)
	case ActionStop:
		snapshot, err = client.Stop(ctx)
	case ActionReset:
		snapshot, err = client.Reset(ctx, opts.Minutes...)
	default:
		snapshot, err = client.GetState(ctx)
	}

	if err != nil {
		return err
	}

	view.Render(snapshot.State)

	if opts.Action == ActionStatus || opts.Action == ActionReset {
		view.Message(fmt.Sprintf("work %s, short break %s, long break %s",
			snapshot.Config.Work, snapshot.Config.ShortBreak, snapshot.Config.LongBreak))
	}

	return nil
}
