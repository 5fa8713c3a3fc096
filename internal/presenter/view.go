package presenter

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
	"github.com/oshokin/pomodoro/internal/engine"
)

// grayscale ramp of the 256-color palette, from near black to near white.
const (
	grayRampStart = 232
	grayRampSize  = 24
)

var (
	//nolint:gochecknoglobals // Styles are immutable values shared by every view.
	workStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	//nolint:gochecknoglobals // Styles are immutable values shared by every view.
	breakStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
	//nolint:gochecknoglobals // Styles are immutable values shared by every view.
	bannerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder())
	//nolint:gochecknoglobals // Styles are immutable values shared by every view.
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// View renders timer state and notifications to a writer.
type View struct {
	// out receives rendered lines.
	out io.Writer
	// opacity controls the clock intensity.
	opacity Opacity
	// dialogs raises a native modal for notifications when set.
	dialogs Dialog
	// mu serializes writes and opacity changes.
	mu sync.Mutex
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithOpacity sets the initial opacity.
func WithOpacity(o Opacity) ViewOption {
	return func(v *View) {
		v.opacity = o
	}
}

// WithDialog raises d for every notification in addition to the banner.
func WithDialog(d Dialog) ViewOption {
	return func(v *View) {
		v.dialogs = d
	}
}

// NewView creates a fully opaque view writing to out.
func NewView(out io.Writer, opts ...ViewOption) *View {
	v := &View{
		out:     out,
		opacity: Opacity{percent: FullOpacity},
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Handle renders an engine event. It can be passed to Engine.Subscribe directly.
func (v *View) Handle(ev engine.Event) {
	if ev.Kind == engine.KindNotification {
		v.Notify(ev.Notification)

		return
	}

	v.Render(ev.State)
}

// Render writes one status line for state.
func (v *View) Render(state pomodoro.State) {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, _ = fmt.Fprintln(v.out, v.line(state))
}

// Notify writes a banner for n and rings the terminal bell.
func (v *View) Notify(n pomodoro.Notification) {
	if n == pomodoro.NotifyNone {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	_, _ = fmt.Fprintln(v.out, "\a"+bannerStyle.Render(n.Title()+": "+n.Message()))

	if v.dialogs != nil {
		v.dialogs.Show(n.Title(), n.Message())
	}
}

// Message writes a plain informational line, e.g. a validation error.
func (v *View) Message(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, _ = fmt.Fprintln(v.out, mutedStyle.Render(text))
}

// CycleOpacity lowers the opacity by one step and reports the new label.
func (v *View) CycleOpacity() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.opacity.Cycle()

	return v.opacity.Label()
}

// SetOpacity changes the opacity to percent.
func (v *View) SetOpacity(percent int) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.opacity.Set(percent); err != nil {
		return "", err
	}

	return v.opacity.Label(), nil
}

// Opacity returns the current level.
func (v *View) Opacity() Opacity {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.opacity
}

// line builds the status line: phase, clock, cycle indicator and available controls.
func (v *View) line(state pomodoro.State) string {
	phaseStyle := workStyle
	if state.Phase == pomodoro.PhaseBreak {
		phaseStyle = breakStyle
	}

	clock := lipgloss.NewStyle().
		Bold(true).
		Foreground(intensity(v.opacity)).
		Render(state.Clock())

	parts := []string{
		phaseStyle.Render(strings.ToUpper(state.Phase.String())),
		clock,
		state.CycleIndicator(),
		controls(state.Running),
		mutedStyle.Render(v.opacity.Label()),
	}

	return strings.Join(parts, "  ")
}

// controls shows Start while stopped and Stop while running.
func controls(running bool) string {
	if running {
		return "[Stop]"
	}

	return "[Start]"
}

// intensity maps opacity to a gray level; fully opaque is the brightest gray.
func intensity(o Opacity) lipgloss.Color {
	level := o.Percent() * (grayRampSize - 1) / FullOpacity

	return lipgloss.Color(fmt.Sprint(grayRampStart + level))
}
