package pomodoro

// Notification is a user-facing phase change announcement.
type Notification int

const (
	// NotifyNone means the tick crossed no phase boundary.
	NotifyNone Notification = iota
	// NotifyShortBreak announces that a work interval ended and a short break started.
	NotifyShortBreak
	// NotifyLongBreak announces that the 4th work interval of a cycle ended and a long break started.
	NotifyLongBreak
	// NotifyWork announces that a break ended and work resumes.
	NotifyWork
)

// String returns a stable identifier used on the wire and in logs.
func (n Notification) String() string {
	switch n {
	case NotifyShortBreak:
		return "short_break"
	case NotifyLongBreak:
		return "long_break"
	case NotifyWork:
		return "work"
	default:
		return "none"
	}
}

// Title is the short heading shown to the user.
func (n Notification) Title() string {
	switch n {
	case NotifyShortBreak, NotifyLongBreak:
		return "Pomodoro Complete"
	case NotifyWork:
		return "Break Over"
	default:
		return ""
	}
}

// Message is the body shown to the user.
func (n Notification) Message() string {
	switch n {
	case NotifyShortBreak:
		return "Time for a short break"
	case NotifyLongBreak:
		return "Time for a long break"
	case NotifyWork:
		return "Time for some work"
	default:
		return ""
	}
}

// Machine is the countdown state machine. It is not safe for concurrent use.
type Machine struct {
	config Config
	state  State
}

// NewMachine returns a machine in the initial state for cfg.
func NewMachine(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Machine{config: cfg}
	m.reinitialize()

	return m, nil
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Config returns the active configuration.
func (m *Machine) Config() Config {
	return m.config
}

// Start marks the machine as running. It reports whether anything changed.
func (m *Machine) Start() bool {
	if m.state.Running {
		return false
	}

	m.state.Running = true

	return true
}

// Stop halts ticking. It reports whether anything changed.
func (m *Machine) Stop() bool {
	if !m.state.Running {
		return false
	}

	m.state.Running = false

	return true
}

// Configure replaces the durations without touching the current state.
// New durations take effect from the next phase boundary.
func (m *Machine) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.config = cfg

	return nil
}

// Reset optionally applies cfg and returns the machine to its initial state:
// work phase, full work duration, zero completed intervals, stopped.
// An invalid cfg leaves both configuration and state untouched.
func (m *Machine) Reset(cfg *Config) error {
	if cfg != nil {
		if err := m.Configure(*cfg); err != nil {
			return err
		}
	}

	m.reinitialize()

	return nil
}

// Tick advances the countdown by one second and reports the phase notification, if any.
// A stopped machine ignores ticks.
//
// A boundary is crossed in the same tick that brings the remaining time to zero,
// and the new phase starts at its full configured length.
func (m *Machine) Tick() Notification {
	if !m.state.Running {
		return NotifyNone
	}

	m.state.RemainingSeconds--
	if m.state.RemainingSeconds > 0 {
		return NotifyNone
	}

	switch m.state.Phase {
	case PhaseWork:
		m.state.CompletedWorkIntervals++
		m.state.Phase = PhaseBreak

		if m.state.CompletedWorkIntervals%IntervalsPerCycle == 0 {
			m.state.RemainingSeconds = seconds(m.config.LongBreak)

			return NotifyLongBreak
		}

		m.state.RemainingSeconds = seconds(m.config.ShortBreak)

		return NotifyShortBreak
	default:
		m.state.Phase = PhaseWork
		m.state.RemainingSeconds = seconds(m.config.Work)

		return NotifyWork
	}
}

func (m *Machine) reinitialize() {
	m.state = State{
		Phase:            PhaseWork,
		RemainingSeconds: seconds(m.config.Work),
	}
}
