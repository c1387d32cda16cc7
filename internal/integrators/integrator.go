package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/physcore/internal/body"
)

// Integrator advances one particle by dt in two phases around the force
// pass.
type Integrator interface {
	Predict(p *body.Particle, dt float64)
	Correct(p *body.Particle, dt float64)
}

var particleIntegrators = map[string]func() Integrator{
	"euler":  func() Integrator { return NewEuler() },
	"verlet": func() Integrator { return NewVelocityVerlet() },
}

// New returns a fresh particle integrator by name.
func New(name string) (Integrator, error) {
	fn, ok := particleIntegrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(particleIntegrators))
	for name := range particleIntegrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
