// Package version holds build metadata for the pomodoro binaries.
//
// Version, Commit and BuildTime are set with -ldflags "-X" and keep
// placeholder values in local builds.
package version
