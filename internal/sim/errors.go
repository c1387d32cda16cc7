package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a frame produced NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a non-positive timestep or an empty run.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")
)

// StepError wraps a failure with the frame it happened on.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
