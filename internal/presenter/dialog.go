package presenter

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/oshokin/pomodoro/internal/logger"
)

// ErrUnsupportedOS indicates no modal dialog tool is known for the current OS.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Dialog surfaces a notification to the user.
type Dialog interface {
	Show(title, message string)
}

// NativeDialog raises a modal acknowledgment with the tools the OS ships:
//   - Linux:   `zenity --info`
//   - macOS:   `osascript -e 'display dialog ...'`
//   - Windows: `msg *`
//
// The command is started asynchronously; the timer keeps ticking while the dialog is open.
type NativeDialog struct {
	// ctx carries the logger and bounds the lifetime of dialog processes.
	ctx context.Context
}

// NewNativeDialog returns a dialog whose processes are killed when ctx ends.
func NewNativeDialog(ctx context.Context) *NativeDialog {
	return &NativeDialog{ctx: logger.WithName(ctx, "dialog")}
}

// Show starts the dialog process and returns immediately.
func (d *NativeDialog) Show(title, message string) {
	cmd, err := dialogCommand(d.ctx, runtime.GOOS, title, message)
	if err != nil {
		logger.WarnKV(d.ctx, "Dialog unavailable", "error", err)

		return
	}

	if err = cmd.Start(); err != nil {
		logger.WarnKV(d.ctx, "Dialog failed to start", "error", err)

		return
	}

	// Reap the process once the user dismisses the dialog.
	go func() {
		_ = cmd.Wait()
	}()
}

// dialogCommand builds the OS-specific modal dialog command.
func dialogCommand(ctx context.Context, goos, title, message string) (*exec.Cmd, error) {
	osName := strings.ToLower(goos)

	switch {
	case strings.Contains(osName, "linux"):
		return exec.CommandContext(ctx, "zenity", "--info", "--title", title, "--text", message), nil
	case strings.Contains(osName, "darwin"):
		script := fmt.Sprintf("display dialog %q with title %q buttons {\"OK\"} default button \"OK\"", message, title)

		return exec.CommandContext(ctx, "osascript", "-e", script), nil
	case strings.Contains(osName, "windows"):
		return exec.CommandContext(ctx, "msg", "*", title+": "+message), nil
	default:
		return nil, fmt.Errorf("modal dialog on %s: %w", goos, ErrUnsupportedOS)
	}
}
