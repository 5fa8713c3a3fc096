// Package instance detects other running copies of the current executable.
//
// The timer supports a single countdown per machine; the local timer and the
// timer server refuse to start when another copy is already running.
package instance
