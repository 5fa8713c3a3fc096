// Package pomodoro contains the core domain of the countdown timer.
//
// It defines Config (the three interval durations), State (phase, remaining
// seconds, completed work intervals and the running flag) and Machine, the
// pure state machine that alternates work and break intervals and schedules a
// long break after every fourth completed work interval.
//
// Nothing here performs I/O or owns goroutines; scheduling lives in the
// engine package.
package pomodoro
