// Package server runs the pomodoro-server process: one countdown engine
// exposed over gRPC so that several terminals can start, stop, reset and
// watch the same timer.
package server
