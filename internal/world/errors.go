package world

import "errors"

var (
	// ErrNonPositiveDuration is returned by RunPhysics for dt <= 0.
	ErrNonPositiveDuration = errors.New("world: duration must be positive")

	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("world: invalid config")
)
