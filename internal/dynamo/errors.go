package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup.
var (
	// ErrUnknownDemo indicates a demo name with no registered plant.
	ErrUnknownDemo = errors.New("dynamo: unknown demo")

	// ErrInvalidStep indicates a non-positive fixed timestep or sub-step count.
	ErrInvalidStep = errors.New("dynamo: timestep must be positive")

	// ErrInvalidWindow indicates a display window too short to hold two samples.
	ErrInvalidWindow = errors.New("dynamo: window must span at least two steps")

	// ErrParameterBounds indicates a plant parameter that makes the model singular.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNonFinite indicates a NaN or infinite configuration value.
	ErrNonFinite = errors.New("dynamo: value must be finite")
)

// ConfigError reports which configuration field failed validation.
type ConfigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
