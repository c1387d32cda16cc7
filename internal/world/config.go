package world

import (
	"fmt"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/contact"
)

type Config struct {
	// MaxContacts sizes the contact buffer.
	MaxContacts int `yaml:"max_contacts" json:"max_contacts"`
	// Iterations caps resolver passes per frame. Zero uses twice the
	// number of contacts generated that frame.
	Iterations   int     `yaml:"iterations" json:"iterations"`
	SleepEpsilon float64 `yaml:"sleep_epsilon" json:"sleep_epsilon"`
	// Propagate enables positional propagation between contacts that
	// share a body. Needed for chains of rods and cables.
	Propagate bool `yaml:"propagate" json:"propagate"`
	// Restitution applies to contacts found by the broad phase.
	Restitution float64 `yaml:"restitution" json:"restitution"`
}

func DefaultConfig() Config {
	return Config{
		MaxContacts:  256,
		Iterations:   0,
		SleepEpsilon: body.DefaultSleepEpsilon,
		Propagate:    false,
		Restitution:  0.4,
	}
}

func (c Config) Validate() error {
	if c.MaxContacts <= 0 {
		return fmt.Errorf("%w: max_contacts must be positive, got %d", ErrInvalidConfig, c.MaxContacts)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must not be negative, got %d", ErrInvalidConfig, c.Iterations)
	}
	if c.SleepEpsilon < 0 {
		return fmt.Errorf("%w: sleep_epsilon must not be negative, got %g", ErrInvalidConfig, c.SleepEpsilon)
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		return fmt.Errorf("%w: restitution must be in [0,1], got %g", ErrInvalidConfig, c.Restitution)
	}
	return nil
}

func (c Config) newResolver() *contact.Resolver {
	if c.Propagate {
		return contact.NewConstraintResolver(c.Iterations)
	}
	return contact.NewCollisionResolver(c.Iterations)
}
