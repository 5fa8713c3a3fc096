package pomodoro

import "fmt"

// Phase is the interval kind the timer is counting down.
type Phase int

const (
	// PhaseWork is a focus interval.
	PhaseWork Phase = iota
	// PhaseBreak is either a short or a long break.
	PhaseBreak
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseWork:
		return "work"
	case PhaseBreak:
		return "break"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase converts a phase name produced by String back into a Phase.
func ParsePhase(s string) (Phase, bool) {
	switch s {
	case "work":
		return PhaseWork, true
	case "break":
		return PhaseBreak, true
	default:
		return PhaseWork, false
	}
}

// IntervalsPerCycle is the number of work intervals after which a long break follows.
const IntervalsPerCycle = 4

// State is a snapshot of the timer.
type State struct {
	// Phase is the interval currently counting down.
	Phase Phase
	// RemainingSeconds is what is left of the current phase.
	RemainingSeconds int
	// CompletedWorkIntervals counts every finished work interval since the last reset.
	CompletedWorkIntervals int
	// Running reports whether the countdown is ticking.
	Running bool
}

// Clock renders the remaining time as MM:SS.
func (s State) Clock() string {
	return FormatClock(s.RemainingSeconds)
}

// CyclePosition is the number of work intervals completed in the current cycle.
func (s State) CyclePosition() int {
	return s.CompletedWorkIntervals % IntervalsPerCycle
}

// CycleIndicator renders the cycle position as "N/4".
func (s State) CycleIndicator() string {
	return fmt.Sprintf("%d/%d", s.CyclePosition(), IntervalsPerCycle)
}

// FormatClock renders seconds as zero-padded MM:SS. Minutes are not capped at 99.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
