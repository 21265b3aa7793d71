package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("scene: parameter out of valid bounds")

	// ErrSourceCount indicates a scene without any source.
	ErrSourceCount = errors.New("scene: at least one source is required")

	// ErrSourceIndex indicates a source index outside the scene.
	ErrSourceIndex = errors.New("scene: source index out of range")
)

// BoundsError wraps ErrParameterBounds with the offending parameter.
type BoundsError struct {
	Param    string
	Value    float64
	Min, Max float64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: %s=%g not in [%g, %g]", ErrParameterBounds, e.Param, e.Value, e.Min, e.Max)
}

func (e *BoundsError) Unwrap() error {
	return ErrParameterBounds
}
