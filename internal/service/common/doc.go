// Package common holds helpers shared by several services.
//
// It provides a gRPC client for the timer server with per-call timeouts, and
// detects the current system actor (username@hostname) that is attached to
// every call as metadata for the server's command log.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
