package presenter

import (
	"fmt"
	"strconv"

	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
)

const (
	// FullOpacity is a fully opaque display.
	FullOpacity = 100
	// OpacityStep is how much one Cycle call removes.
	OpacityStep = 25

	// FieldOpacity names the opacity setting in validation errors.
	FieldOpacity = "opacity"
)

// Opacity is the display opacity in percent. The zero value is transparent;
// use NewOpacity for a validated level.
type Opacity struct {
	percent int
}

// NewOpacity returns an opacity level between 0 and 100 percent.
func NewOpacity(percent int) (Opacity, error) {
	var o Opacity
	if err := o.Set(percent); err != nil {
		return Opacity{}, err
	}

	return o, nil
}

// Percent returns the level in percent.
func (o Opacity) Percent() int {
	return o.percent
}

// Set changes the level. Values outside 0..100 are rejected.
func (o *Opacity) Set(percent int) error {
	if percent < 0 || percent > FullOpacity {
		return &pomodoro.ValidationError{
			Field:  FieldOpacity,
			Value:  strconv.Itoa(percent),
			Reason: "must be between 0 and 100",
		}
	}

	o.percent = percent

	return nil
}

// Cycle lowers the level by one step and wraps back to fully opaque when it would reach zero.
func (o *Opacity) Cycle() int {
	o.percent -= OpacityStep
	if o.percent <= 0 {
		o.percent = FullOpacity
	}

	return o.percent
}

// Label renders the level the way the opacity control shows it.
func (o Opacity) Label() string {
	return fmt.Sprintf("Opacity: %d%%", o.percent)
}
