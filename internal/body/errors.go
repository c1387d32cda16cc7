package body

import "errors"

var (
	// ErrZeroMass is returned when a zero mass is set. Immovable bodies are
	// expressed with SetInverseMass(0) instead.
	ErrZeroMass = errors.New("body: mass must be non-zero (use SetInverseMass(0) for immovable bodies)")

	// ErrNegativeMass is returned when a negative mass is set.
	ErrNegativeMass = errors.New("body: mass must be positive")
)
