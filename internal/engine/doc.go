// Package engine runs the countdown state machine in real time.
//
// An Engine owns a pomodoro.Machine, arms a single repeating ticker while the
// timer runs and publishes an Event to every subscriber after each change.
// Ticks and commands are serialized by one mutex, so the machine always sees
// them one at a time, in arrival order.
package engine
