// Package client implements the remote pomodoro commands.
//
// Each command connects to the timer server, issues start, stop, reset or a
// state query, and renders the answer through the terminal presenter. Watch
// keeps the connection open and renders every streamed event.
package client
