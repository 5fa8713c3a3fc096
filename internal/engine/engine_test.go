package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
)

// recorder collects events delivered to a listener.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
}

func (r *recorder) notifications() []pomodoro.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []pomodoro.Notification

	for _, ev := range r.events {
		if ev.Kind == KindNotification {
			result = append(result, ev.Notification)
		}
	}

	return result
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

func scenarioConfig() pomodoro.Config {
	return pomodoro.Config{
		Work:       2 * time.Second,
		ShortBreak: 1 * time.Second,
		LongBreak:  3 * time.Second,
	}
}

func newEngine(t *testing.T, cfg pomodoro.Config) (*Engine, *recorder) {
	t.Helper()

	e, err := New(context.Background(), cfg)
	require.NoError(t, err)

	rec := new(recorder)
	e.Subscribe(rec.listen)

	return e, rec
}

// advance sleeps through n tick intervals, landing between ticks, and lets the ticker goroutine settle.
func advance(n int) {
	time.Sleep(time.Duration(n)*DefaultTickInterval + DefaultTickInterval/2)
	synctest.Wait()
}

// TestEngine_Scenario drives the 2s/1s/3s scenario on real (fake) time.
func TestEngine_Scenario(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		e, rec := newEngine(t, scenarioConfig())
		defer e.Close()

		require.NoError(t, e.Start())

		// After two seconds the work interval is over.
		advance(2)

		state := e.Snapshot()
		require.Equal(t, pomodoro.PhaseBreak, state.Phase)
		require.Equal(t, 1, state.RemainingSeconds)
		require.Equal(t, 1, state.CompletedWorkIntervals)
		require.Equal(t, []pomodoro.Notification{pomodoro.NotifyShortBreak}, rec.notifications())

		// One more second ends the break.
		time.Sleep(DefaultTickInterval)
		synctest.Wait()

		state = e.Snapshot()
		require.Equal(t, pomodoro.PhaseWork, state.Phase)
		require.Equal(t, 2, state.RemainingSeconds)
		require.Equal(t, []pomodoro.Notification{
			pomodoro.NotifyShortBreak,
			pomodoro.NotifyWork,
		}, rec.notifications())
	})
}

// TestEngine_LongBreakOnFourth runs four work intervals and expects the long break on the last one.
func TestEngine_LongBreakOnFourth(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		e, rec := newEngine(t, scenarioConfig())
		defer e.Close()

		require.NoError(t, e.Start())

		// 3 * (2s work + 1s short break) + 2s work.
		advance(11)

		state := e.Snapshot()
		require.Equal(t, 4, state.CompletedWorkIntervals)
		require.Equal(t, pomodoro.PhaseBreak, state.Phase)
		require.Equal(t, 3, state.RemainingSeconds)

		notes := rec.notifications()
		require.Equal(t, pomodoro.NotifyLongBreak, notes[len(notes)-1])
	})
}

// TestEngine_StopFreezes checks that no time passes while stopped and Start resumes from the same value.
func TestEngine_StopFreezes(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		e, _ := newEngine(t, pomodoro.DefaultConfig())
		defer e.Close()

		require.NoError(t, e.Start())
		advance(3)
		require.NoError(t, e.Stop())

		frozen := e.Snapshot()
		require.False(t, frozen.Running)
		require.Equal(t, 1500-3, frozen.RemainingSeconds)

		time.Sleep(time.Minute)
		synctest.Wait()
		require.Equal(t, frozen, e.Snapshot())

		// Manual ticks are ignored while stopped as well.
		e.Tick()
		require.Equal(t, frozen, e.Snapshot())

		require.NoError(t, e.Start())
		advance(1)
		require.Equal(t, frozen.RemainingSeconds-1, e.Snapshot().RemainingSeconds)
	})
}

// TestEngine_StartIdempotent ensures a second Start neither double-schedules nor emits.
func TestEngine_StartIdempotent(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		e, rec := newEngine(t, pomodoro.DefaultConfig())
		defer e.Close()

		require.NoError(t, e.Start())
		before := rec.count()
		require.NoError(t, e.Start())
		require.Equal(t, before, rec.count())

		// A single ticker means exactly five seconds vanish in five seconds.
		advance(5)
		require.Equal(t, 1500-5, e.Snapshot().RemainingSeconds)
	})
}

// TestEngine_ResetAndValidation covers reset with and without a new configuration.
func TestEngine_ResetAndValidation(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		e, _ := newEngine(t, scenarioConfig())
		defer e.Close()

		require.NoError(t, e.Start())
		advance(2)

		before, beforeCfg := e.Snapshot(), e.Config()

		err := e.Reset(&pomodoro.Config{Work: time.Minute, ShortBreak: 0, LongBreak: time.Minute})

		var vErr *pomodoro.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, before, e.Snapshot())
		require.Equal(t, beforeCfg, e.Config())

		next := pomodoro.Config{Work: 10 * time.Second, ShortBreak: 2 * time.Second, LongBreak: 4 * time.Second}
		require.NoError(t, e.Reset(&next))
		require.Equal(t, pomodoro.State{Phase: pomodoro.PhaseWork, RemainingSeconds: 10}, e.Snapshot())
		require.Equal(t, next, e.Config())

		// Reset stops the scheduler.
		advance(3)
		require.Equal(t, 10, e.Snapshot().RemainingSeconds)

		require.NoError(t, e.Reset(nil))
		require.Equal(t, next, e.Config())
	})
}

// TestEngine_ConfigureKeepsState applies new durations from the next phase boundary.
func TestEngine_ConfigureKeepsState(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		e, rec := newEngine(t, scenarioConfig())
		defer e.Close()

		require.NoError(t, e.Start())
		advance(1)

		next := pomodoro.Config{Work: 5 * time.Second, ShortBreak: 4 * time.Second, LongBreak: 6 * time.Second}
		require.NoError(t, e.Configure(next))
		require.Equal(t, pomodoro.State{Phase: pomodoro.PhaseWork, RemainingSeconds: 1, Running: true}, e.Snapshot())

		time.Sleep(DefaultTickInterval)
		synctest.Wait()
		require.Equal(t, pomodoro.State{
			Phase:                  pomodoro.PhaseBreak,
			RemainingSeconds:       4,
			CompletedWorkIntervals: 1,
			Running:                true,
		}, e.Snapshot())
		require.Equal(t, []pomodoro.Notification{pomodoro.NotifyShortBreak}, rec.notifications())

		require.Error(t, e.Configure(pomodoro.Config{Work: time.Second}))
		require.Equal(t, next, e.Config())
	})
}

// TestEngine_EventOrder checks that a boundary tick publishes the notification before the display update.
func TestEngine_EventOrder(t *testing.T) {
	t.Parallel()

	e, rec := newEngine(t, scenarioConfig())
	defer e.Close()

	// Manual ticks need a running machine; stop the scheduler right away so only manual ticks count.
	require.NoError(t, e.Start())
	e.mu.Lock()
	e.disarm()
	e.mu.Unlock()

	e.Tick()
	e.Tick()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	kinds := make([]Kind, 0, len(rec.events))
	for _, ev := range rec.events {
		kinds = append(kinds, ev.Kind)
		require.NotEqual(t, uuid.Nil, ev.ID)
	}

	require.Equal(t, []Kind{KindDisplay, KindDisplay, KindNotification, KindDisplay}, kinds)
	require.Equal(t, pomodoro.NotifyShortBreak, rec.events[2].Notification)
}

// TestEngine_Unsubscribe stops delivery to a removed listener.
func TestEngine_Unsubscribe(t *testing.T) {
	t.Parallel()

	e, err := New(context.Background(), scenarioConfig())
	require.NoError(t, err)

	defer e.Close()

	rec := new(recorder)
	cancel := e.Subscribe(rec.listen)
	cancel()
	cancel()

	require.NoError(t, e.Reset(nil))
	require.Zero(t, rec.count())
}

// TestEngine_Closed rejects commands once closed.
func TestEngine_Closed(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		e, _ := newEngine(t, scenarioConfig())
		require.NoError(t, e.Start())

		e.Close()
		e.Close()

		require.True(t, errors.Is(e.Start(), ErrClosed))
		require.ErrorIs(t, e.Stop(), ErrClosed)
		require.ErrorIs(t, e.Reset(nil), ErrClosed)
		require.ErrorIs(t, e.Configure(scenarioConfig()), ErrClosed)
		require.False(t, e.Snapshot().Running)
	})
}

// TestNew_Options validates construction input and tick interval override.
func TestNew_Options(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), pomodoro.Config{})
	require.Error(t, err)

	e, err := New(context.Background(), scenarioConfig(), WithTickInterval(10*time.Millisecond), WithTickInterval(0))
	require.NoError(t, err)
	require.Equal(t, 10*time.Millisecond, e.interval)

	e.Close()
}
