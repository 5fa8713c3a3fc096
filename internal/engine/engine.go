package engine

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
	"github.com/oshokin/pomodoro/internal/logger"
)

// DefaultTickInterval is the wall-clock time between two ticks.
const DefaultTickInterval = time.Second

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("engine is closed")

// Option configures an Engine.
type Option func(*Engine)

// WithTickInterval overrides the time between ticks. Non-positive values are ignored.
func WithTickInterval(interval time.Duration) Option {
	return func(e *Engine) {
		if interval > 0 {
			e.interval = interval
		}
	}
}

// Engine is the countdown engine. It is safe for concurrent use.
type Engine struct {
	// ctx carries the engine logger.
	ctx context.Context
	// interval is the period of the scheduled tick.
	interval time.Duration

	// mu serializes ticks, commands and event delivery.
	mu sync.Mutex
	// machine holds TimerState and TimerConfig.
	machine *pomodoro.Machine
	// cancelTick stops the armed ticker; nil while stopped.
	cancelTick context.CancelFunc
	// listeners are the current subscribers keyed by subscription number.
	listeners map[uint64]Listener
	// nextListener is the next subscription number.
	nextListener uint64
	// closed is set by Close.
	closed bool

	// wg tracks ticker goroutines.
	wg sync.WaitGroup
}

// New creates a stopped engine in the initial state for cfg.
func New(ctx context.Context, cfg pomodoro.Config, opts ...Option) (*Engine, error) {
	machine, err := pomodoro.NewMachine(cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		ctx:       logger.WithName(ctx, "engine"),
		interval:  DefaultTickInterval,
		machine:   machine,
		listeners: make(map[uint64]Listener),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() pomodoro.State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.machine.State()
}

// Config returns the active configuration.
func (e *Engine) Config() pomodoro.Config {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.machine.Config()
}

// Subscribe registers l for all future events and returns a function that removes it.
func (e *Engine) Subscribe(l Listener) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextListener
	e.nextListener++
	e.listeners[id] = l

	var once sync.Once

	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()

			delete(e.listeners, id)
		})
	}
}

// Start begins ticking. Starting a running engine does nothing.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	if !e.machine.Start() {
		return nil
	}

	e.arm()

	state := e.machine.State()
	logger.DebugKV(e.ctx, "Timer started", "phase", state.Phase, "remaining", state.Clock())
	e.publish(newEvent(KindDisplay, pomodoro.NotifyNone, state))

	return nil
}

// Stop halts ticking and cancels the pending tick. Stopping a stopped engine does nothing.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	if !e.machine.Stop() {
		return nil
	}

	e.disarm()

	state := e.machine.State()
	logger.DebugKV(e.ctx, "Timer stopped", "phase", state.Phase, "remaining", state.Clock())
	e.publish(newEvent(KindDisplay, pomodoro.NotifyNone, state))

	return nil
}

// Reset optionally applies cfg, then returns to a stopped work phase with zero completed intervals.
// A *pomodoro.ValidationError leaves configuration and state untouched.
func (e *Engine) Reset(cfg *pomodoro.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	if err := e.machine.Reset(cfg); err != nil {
		logger.WarnKV(e.ctx, "Configuration rejected", "error", err)

		return err
	}

	e.disarm()

	config := e.machine.Config()
	logger.InfoKV(e.ctx, "Timer reset",
		"work", config.Work,
		"short_break", config.ShortBreak,
		"long_break", config.LongBreak,
	)
	e.publish(newEvent(KindDisplay, pomodoro.NotifyNone, e.machine.State()))

	return nil
}

// Configure applies cfg without resetting counters. New durations apply from the next phase.
func (e *Engine) Configure(cfg pomodoro.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	if err := e.machine.Configure(cfg); err != nil {
		logger.WarnKV(e.ctx, "Configuration rejected", "error", err)

		return err
	}

	return nil
}

// Tick advances the timer by one second right now. It is a no-op while stopped.
// The scheduler calls the same logic once per interval.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tickLocked()
}

// Close stops the scheduler and drops all listeners. It is safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()

	if e.closed {
		e.mu.Unlock()

		return
	}

	e.closed = true
	e.machine.Stop()
	e.disarm()
	clear(e.listeners)
	e.mu.Unlock()

	e.wg.Wait()
}

// arm starts the repeating tick. The caller holds mu.
func (e *Engine) arm() {
	if e.cancelTick != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancelTick = cancel

	e.wg.Add(1)

	go e.run(ctx)
}

// disarm cancels the repeating tick. The caller holds mu.
func (e *Engine) disarm() {
	if e.cancelTick == nil {
		return
	}

	e.cancelTick()
	e.cancelTick = nil
}

// run fires scheduled ticks until ctx is canceled.
func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()

			// A Stop may have won the lock after the ticker fired.
			if ctx.Err() == nil {
				e.tickLocked()
			}

			e.mu.Unlock()
		}
	}
}

// tickLocked advances the machine and publishes the resulting events. The caller holds mu.
func (e *Engine) tickLocked() {
	if !e.machine.State().Running {
		return
	}

	note := e.machine.Tick()
	state := e.machine.State()

	if note != pomodoro.NotifyNone {
		logger.InfoKV(e.ctx, "Phase changed",
			"notification", note,
			"phase", state.Phase,
			"remaining", state.Clock(),
			"completed", state.CompletedWorkIntervals,
		)
		e.publish(newEvent(KindNotification, note, state))
	}

	e.publish(newEvent(KindDisplay, pomodoro.NotifyNone, state))
}

// publish delivers ev to every listener in subscription order. The caller holds mu.
func (e *Engine) publish(ev Event) {
	for _, id := range slices.Sorted(maps.Keys(e.listeners)) {
		e.listeners[id](ev)
	}
}
