// Package config defines the settings shared by the pomodoro binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Durations are written in minutes, the way an operator thinks about them,
// and converted to a pomodoro.Config with Timer.
package config
