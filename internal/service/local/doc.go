// Package local runs the timer in-process and drives it from line commands.
//
// It is the interactive front end of the pomodoro binary: the engine ticks in
// the background, the presenter renders every event, and the operator types
// commands such as "s" (start), "p" (stop) or "c 50 10 20" (configure).
package local
