package pomodoro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scenarioConfig is the 2s/1s/3s configuration used by the scenario tests.
func scenarioConfig() Config {
	return Config{
		Work:       2 * time.Second,
		ShortBreak: 1 * time.Second,
		LongBreak:  3 * time.Second,
	}
}

func newStartedMachine(t *testing.T, cfg Config) *Machine {
	t.Helper()

	m, err := NewMachine(cfg)
	require.NoError(t, err)
	require.True(t, m.Start())

	return m
}

// TestMachine_ResetState verifies reset yields (Work, work, 0, false) for several configurations.
func TestMachine_ResetState(t *testing.T) {
	t.Parallel()

	configs := []Config{
		scenarioConfig(),
		DefaultConfig(),
		{Work: time.Hour, ShortBreak: time.Minute, LongBreak: 2 * time.Hour},
	}

	m := newStartedMachine(t, DefaultConfig())
	m.Tick()

	for _, cfg := range configs {
		require.NoError(t, m.Reset(&cfg))
		require.Equal(t, State{
			Phase:            PhaseWork,
			RemainingSeconds: int(cfg.Work / time.Second),
		}, m.State())
		require.Equal(t, cfg, m.Config())
	}
}

// TestMachine_StartIdempotent ensures a second Start changes nothing.
func TestMachine_StartIdempotent(t *testing.T) {
	t.Parallel()

	m := newStartedMachine(t, DefaultConfig())
	before := m.State()

	require.False(t, m.Start())
	require.Equal(t, before, m.State())

	require.True(t, m.Stop())
	require.False(t, m.Stop())
	require.False(t, m.State().Running)
}

// TestMachine_TicksCountDown checks remaining = max(r-n, 0) and that the boundary is crossed exactly at n == r.
func TestMachine_TicksCountDown(t *testing.T) {
	t.Parallel()

	const work = 5

	for n := 1; n <= work; n++ {
		m := newStartedMachine(t, Config{Work: work * time.Second, ShortBreak: time.Minute, LongBreak: time.Hour})

		var notes []Notification
		for range n {
			notes = append(notes, m.Tick())
		}

		if n < work {
			require.Equal(t, PhaseWork, m.State().Phase)
			require.Equal(t, work-n, m.State().RemainingSeconds)
			require.NotContains(t, notes, NotifyShortBreak)

			continue
		}

		require.Equal(t, PhaseBreak, m.State().Phase)
		require.Equal(t, NotifyShortBreak, notes[len(notes)-1])
	}
}

// TestMachine_ShortBreakScenario runs the 2s/1s/3s scenario through one work-break cycle.
func TestMachine_ShortBreakScenario(t *testing.T) {
	t.Parallel()

	m := newStartedMachine(t, scenarioConfig())

	require.Equal(t, NotifyNone, m.Tick())
	require.Equal(t, NotifyShortBreak, m.Tick())
	require.Equal(t, State{
		Phase:                  PhaseBreak,
		RemainingSeconds:       1,
		CompletedWorkIntervals: 1,
		Running:                true,
	}, m.State())

	require.Equal(t, NotifyWork, m.Tick())
	require.Equal(t, PhaseWork, m.State().Phase)
	require.Equal(t, 2, m.State().RemainingSeconds)
	require.Equal(t, 1, m.State().CompletedWorkIntervals)
}

// TestMachine_CycleLaw asserts that only the 4th work completion leads to a long break.
func TestMachine_CycleLaw(t *testing.T) {
	t.Parallel()

	m := newStartedMachine(t, scenarioConfig())

	var breaks []Notification

	for len(breaks) < 2*IntervalsPerCycle {
		switch n := m.Tick(); n {
		case NotifyShortBreak, NotifyLongBreak:
			breaks = append(breaks, n)

			if n == NotifyLongBreak {
				require.Equal(t, 3, m.State().RemainingSeconds)
			}
		}
	}

	require.Equal(t, []Notification{
		NotifyShortBreak, NotifyShortBreak, NotifyShortBreak, NotifyLongBreak,
		NotifyShortBreak, NotifyShortBreak, NotifyShortBreak, NotifyLongBreak,
	}, breaks)
	require.Equal(t, 8, m.State().CompletedWorkIntervals)
	require.Zero(t, m.State().CyclePosition())
}

// TestMachine_FourthCompletion checks the state right after the 4th work interval ends.
func TestMachine_FourthCompletion(t *testing.T) {
	t.Parallel()

	m := newStartedMachine(t, scenarioConfig())

	// Three full work+short-break rounds take 3*(2+1) ticks.
	for range 9 {
		m.Tick()
	}

	require.Equal(t, 3, m.State().CompletedWorkIntervals)
	require.Equal(t, NotifyNone, m.Tick())
	require.Equal(t, NotifyLongBreak, m.Tick())
	require.Equal(t, 4, m.State().CompletedWorkIntervals)
	require.Equal(t, 3, m.State().RemainingSeconds)
	require.Equal(t, "0/4", m.State().CycleIndicator())
}

// TestMachine_StoppedIgnoresTicks ensures stopping freezes the countdown and start resumes from the same value.
func TestMachine_StoppedIgnoresTicks(t *testing.T) {
	t.Parallel()

	m := newStartedMachine(t, DefaultConfig())
	m.Tick()
	m.Stop()

	frozen := m.State().RemainingSeconds
	for range 10 {
		require.Equal(t, NotifyNone, m.Tick())
	}

	require.Equal(t, frozen, m.State().RemainingSeconds)

	m.Start()
	m.Tick()
	require.Equal(t, frozen-1, m.State().RemainingSeconds)
}

// TestMachine_InvalidConfigUntouched verifies a rejected configuration leaves config and state as they were.
func TestMachine_InvalidConfigUntouched(t *testing.T) {
	t.Parallel()

	m := newStartedMachine(t, scenarioConfig())
	m.Tick()

	before, beforeCfg := m.State(), m.Config()

	err := m.Reset(&Config{Work: 0, ShortBreak: time.Minute, LongBreak: time.Minute})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, FieldWork, vErr.Field)
	require.Equal(t, before, m.State())
	require.Equal(t, beforeCfg, m.Config())

	require.Error(t, m.Configure(Config{Work: time.Minute, ShortBreak: time.Minute}))
	require.Equal(t, beforeCfg, m.Config())
}

// TestMachine_ConfigureKeepsCounters ensures Configure applies durations at the next boundary only.
func TestMachine_ConfigureKeepsCounters(t *testing.T) {
	t.Parallel()

	m := newStartedMachine(t, scenarioConfig())
	m.Tick()

	require.NoError(t, m.Configure(Config{Work: 2 * time.Second, ShortBreak: 5 * time.Second, LongBreak: 3 * time.Second}))
	require.Equal(t, 1, m.State().RemainingSeconds)

	require.Equal(t, NotifyShortBreak, m.Tick())
	require.Equal(t, 5, m.State().RemainingSeconds)
	require.Equal(t, 1, m.State().CompletedWorkIntervals)
}

// TestNewMachine_Rejects ensures construction validates the configuration.
func TestNewMachine_Rejects(t *testing.T) {
	t.Parallel()

	m, err := NewMachine(Config{})
	require.Error(t, err)
	require.Nil(t, m)
}
