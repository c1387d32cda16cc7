package integrators

import (
	"math"

	"github.com/san-kum/physcore/internal/body"
)

// VelocityVerlet keeps the last computed acceleration on the particle
// between steps. MoveB overwrites it with F/m, so constant accelerations
// such as gravity must come from a force generator.
type VelocityVerlet struct{}

func NewVelocityVerlet() *VelocityVerlet {
	return &VelocityVerlet{}
}

func (v *VelocityVerlet) Predict(p *body.Particle, dt float64) { v.MoveA(p, dt) }
func (v *VelocityVerlet) Correct(p *body.Particle, dt float64) { v.MoveB(p, dt) }

// MoveA half-kicks with the previous acceleration and drifts a full step.
func (v *VelocityVerlet) MoveA(p *body.Particle, dt float64) {
	checkDuration(dt)
	if !p.HasFiniteMass() {
		return
	}

	p.Kick(p.Acceleration().Mul(0.5 * dt))
	p.Drift(p.Velocity().Mul(dt))
}

// MoveB derives the new acceleration from the accumulated force and
// finishes the kick.
func (v *VelocityVerlet) MoveB(p *body.Particle, dt float64) {
	checkDuration(dt)
	if !p.HasFiniteMass() {
		p.ClearAccumulator()
		return
	}

	acc := p.ForceAccumulator().Mul(p.InverseMass())
	p.SetAcceleration(acc)
	p.Kick(acc.Mul(0.5 * dt))
	p.Drag(math.Pow(p.Damping(), dt))

	p.ClearAccumulator()
}
