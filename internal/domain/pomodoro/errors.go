package pomodoro

import "fmt"

// ValidationError reports a rejected configuration value.
// A configuration that fails validation is never partially applied.
type ValidationError struct {
	// Field names the rejected setting (e.g. "work", "opacity").
	Field string
	// Value is the raw input as the operator supplied it.
	Value string
	// Reason explains what is wrong with the value.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}

	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
