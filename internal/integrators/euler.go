package integrators

import (
	"math"

	"github.com/san-kum/physcore/internal/body"
)

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Predict(*body.Particle, float64) {}

// Correct moves the particle with its current velocity, then updates the
// velocity from acceleration plus accumulated force and applies damping.
func (e *Euler) Correct(p *body.Particle, dt float64) {
	checkDuration(dt)
	if !p.HasFiniteMass() {
		p.ClearAccumulator()
		return
	}

	p.Drift(p.Velocity().Mul(dt))

	acc := p.Acceleration().Add(p.ForceAccumulator().Mul(p.InverseMass()))
	p.Kick(acc.Mul(dt))
	p.Drag(math.Pow(p.Damping(), dt))

	p.ClearAccumulator()
}

// Integrate runs both phases back to back.
func (e *Euler) Integrate(p *body.Particle, dt float64) {
	e.Correct(p, dt)
}
