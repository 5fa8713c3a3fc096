package presenter

import (
	"context"
	"io"
	"os"

	"github.com/oshokin/pomodoro/internal/config"
)

// NewViewFromConfig builds a view with the opacity and dialog settings from cfg.
// A nil out writes to stdout.
func NewViewFromConfig(ctx context.Context, cfg *config.Config, out io.Writer) (*View, error) {
	if out == nil {
		out = os.Stdout
	}

	percent := FullOpacity
	if cfg.Opacity != nil {
		percent = *cfg.Opacity
	}

	opacity, err := NewOpacity(percent)
	if err != nil {
		return nil, err
	}

	options := []ViewOption{WithOpacity(opacity)}
	if cfg.Dialogs {
		options = append(options, WithDialog(NewNativeDialog(ctx)))
	}

	return NewView(out, options...), nil
}
