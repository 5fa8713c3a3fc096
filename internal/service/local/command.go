package local

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/oshokin/pomodoro/internal/config"
	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
	"github.com/oshokin/pomodoro/internal/engine"
	"github.com/oshokin/pomodoro/internal/logger"
	"github.com/oshokin/pomodoro/internal/presenter"
	"github.com/oshokin/pomodoro/internal/service/instance"
)

// Options configures the interactive timer.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// AutoStart starts the countdown right away.
	AutoStart bool
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
	// In provides line commands; stdin when nil.
	In io.Reader
	// Out receives the rendered timer; stdout when nil.
	Out io.Writer
}

const helpText = `commands: s start | p stop | r reset | c <work> <short> <long> configure (minutes) | o [percent] opacity | q quit`

// Run starts the interactive timer and blocks until the operator quits or ctx ends.
// Input ending without a quit command leaves the timer running until ctx ends.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "pomodoro")

	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if !opts.AllowMultiple {
		if err = instance.EnsureSingle(); err != nil {
			return err
		}
	}

	timerConfig, err := settings.Timer()
	if err != nil {
		return fmt.Errorf("timer settings: %w", err)
	}

	eng, err := engine.New(ctx, timerConfig, engine.WithTickInterval(settings.TickInterval))
	if err != nil {
		return fmt.Errorf("initialise engine: %w", err)
	}

	defer eng.Close()

	view, err := presenter.NewViewFromConfig(ctx, settings, opts.Out)
	if err != nil {
		return err
	}

	eng.Subscribe(view.Handle)

	view.Message(helpText)
	view.Render(eng.Snapshot())

	if opts.AutoStart {
		if err = eng.Start(); err != nil {
			return err
		}
	}

	in := opts.In
	if in == nil {
		in = os.Stdin
	}

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines := readLines(readCtx, in)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil

				continue
			}

			if quit := execute(ctx, eng, view, line); quit {
				return nil
			}
		}
	}
}

// readLines delivers input lines until EOF, then closes the channel.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}

// execute runs one line command and reports whether the operator asked to quit.
func execute(ctx context.Context, eng *engine.Engine, view *presenter.View, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		view.Render(eng.Snapshot())

		return false
	}

	var err error

	switch strings.ToLower(fields[0]) {
	case "s", "start":
		err = eng.Start()
	case "p", "stop", "pause":
		err = eng.Stop()
	case "r", "reset":
		err = eng.Reset(nil)
	case "c", "configure", "settings":
		err = configure(eng, fields[1:])
	case "o", "opacity":
		err = opacity(view, fields[1:])
	case "q", "quit", "exit":
		return true
	case "h", "help", "?":
		view.Message(helpText)
	default:
		view.Message(fmt.Sprintf("unknown command %q; %s", fields[0], helpText))
	}

	if err != nil {
		logger.DebugKV(ctx, "Command rejected", "command", line, "error", err)
		view.Message(err.Error())
	}

	return false
}

// configure applies new durations and resets the timer, as the settings dialog does.
func configure(eng *engine.Engine, args []string) error {
	if len(args) != 3 {
		return &pomodoro.ValidationError{
			Field:  "settings",
			Value:  strings.Join(args, " "),
			Reason: "expected work, short break and long break minutes",
		}
	}

	cfg, err := pomodoro.ParseConfig(args[0], args[1], args[2])
	if err != nil {
		return err
	}

	return eng.Reset(&cfg)
}

// opacity cycles the display opacity, or sets it when a percentage is given.
func opacity(view *presenter.View, args []string) error {
	if len(args) == 0 {
		view.Message(view.CycleOpacity())

		return nil
	}

	percent, err := strconv.Atoi(strings.TrimSuffix(args[0], "%"))
	if err != nil {
		return &pomodoro.ValidationError{Field: presenter.FieldOpacity, Value: args[0], Reason: "must be a whole percentage"}
	}

	label, err := view.SetOpacity(percent)
	if err != nil {
		return err
	}

	view.Message(label)

	return nil
}
