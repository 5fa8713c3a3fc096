package pomodoro

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Config holds the operator-settable interval durations.
type Config struct {
	// Work is the length of a focus interval.
	Work time.Duration
	// ShortBreak follows the 1st to 3rd work interval of a cycle.
	ShortBreak time.Duration
	// LongBreak follows every 4th work interval.
	LongBreak time.Duration
}

const (
	// DefaultWork is the default focus interval.
	DefaultWork = 25 * time.Minute
	// DefaultShortBreak is the default short break.
	DefaultShortBreak = 5 * time.Minute
	// DefaultLongBreak is the default long break.
	DefaultLongBreak = 30 * time.Minute

	// MinimumOperatorDuration is the smallest interval an operator can request in minutes input.
	MinimumOperatorDuration = time.Minute

	// Field names used in validation errors.
	FieldWork       = "work"
	FieldShortBreak = "short_break"
	FieldLongBreak  = "long_break"
)

// DefaultConfig returns the classic 25/5/30 minute configuration.
func DefaultConfig() Config {
	return Config{
		Work:       DefaultWork,
		ShortBreak: DefaultShortBreak,
		LongBreak:  DefaultLongBreak,
	}
}

// Validate checks that every duration is at least one whole second.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value time.Duration
	}{
		{FieldWork, c.Work},
		{FieldShortBreak, c.ShortBreak},
		{FieldLongBreak, c.LongBreak},
	}

	for _, f := range fields {
		if f.value < time.Second {
			return &ValidationError{
				Field:  f.name,
				Value:  f.value.String(),
				Reason: "must be at least one second",
			}
		}
	}

	return nil
}

// seconds converts a duration to whole seconds, dropping the fraction.
func seconds(d time.Duration) int {
	return int(d / time.Second)
}

// ParseMinutes parses operator input given in minutes.
// Non-numeric and non-positive input is rejected; positive values under one
// minute are raised to MinimumOperatorDuration.
func ParseMinutes(field, text string) (time.Duration, error) {
	trimmed := strings.TrimSpace(text)

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: text, Reason: "must be a number of minutes"}
	}

	return minutesToDuration(field, text, value)
}

// ConfigFromMinutes builds a Config from minute values, clamping each to at least one minute.
func ConfigFromMinutes(work, shortBreak, longBreak float64) (Config, error) {
	var (
		cfg Config
		err error
	)

	if cfg.Work, err = minutesToDuration(FieldWork, "", work); err != nil {
		return Config{}, err
	}

	if cfg.ShortBreak, err = minutesToDuration(FieldShortBreak, "", shortBreak); err != nil {
		return Config{}, err
	}

	if cfg.LongBreak, err = minutesToDuration(FieldLongBreak, "", longBreak); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ParseConfig parses three minute strings in work, short break, long break order.
func ParseConfig(work, shortBreak, longBreak string) (Config, error) {
	var (
		cfg Config
		err error
	)

	if cfg.Work, err = ParseMinutes(FieldWork, work); err != nil {
		return Config{}, err
	}

	if cfg.ShortBreak, err = ParseMinutes(FieldShortBreak, shortBreak); err != nil {
		return Config{}, err
	}

	if cfg.LongBreak, err = ParseMinutes(FieldLongBreak, longBreak); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// maxMinutes keeps minute input well inside the time.Duration range.
const maxMinutes = 1_000_000

func minutesToDuration(field, text string, minutes float64) (time.Duration, error) {
	if text == "" {
		text = strconv.FormatFloat(minutes, 'f', -1, 64)
	}

	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, &ValidationError{Field: field, Value: text, Reason: "must be a finite number of minutes"}
	}

	if minutes <= 0 {
		return 0, &ValidationError{Field: field, Value: text, Reason: "must be greater than zero"}
	}

	if minutes > maxMinutes {
		return 0, &ValidationError{Field: field, Value: text, Reason: fmt.Sprintf("must not exceed %d minutes", maxMinutes)}
	}

	d := time.Duration(math.Round(minutes*60)) * time.Second
	if d < MinimumOperatorDuration {
		d = MinimumOperatorDuration
	}

	return d, nil
}
