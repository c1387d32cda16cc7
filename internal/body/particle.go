package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Particle struct {
	position     mgl64.Vec3
	velocity     mgl64.Vec3
	acceleration mgl64.Vec3
	force        mgl64.Vec3
	damping      float64
	inverseMass  float64
}

// NewParticle returns an immovable particle at the origin with no damping.
func NewParticle() *Particle {
	return &Particle{damping: 1}
}

func (p *Particle) Position() mgl64.Vec3         { return p.position }
func (p *Particle) Velocity() mgl64.Vec3         { return p.velocity }
func (p *Particle) Acceleration() mgl64.Vec3     { return p.acceleration }
func (p *Particle) ForceAccumulator() mgl64.Vec3 { return p.force }
func (p *Particle) Damping() float64             { return p.damping }
func (p *Particle) InverseMass() float64         { return p.inverseMass }

func (p *Particle) SetPosition(v mgl64.Vec3)     { p.position = v }
func (p *Particle) SetVelocity(v mgl64.Vec3)     { p.velocity = v }
func (p *Particle) SetAcceleration(v mgl64.Vec3) { p.acceleration = v }
func (p *Particle) SetDamping(d float64)         { p.damping = d }

// SetInverseMass sets 1/mass directly. Zero makes the particle immovable;
// negative values are clamped to zero.
func (p *Particle) SetInverseMass(w float64) {
	p.inverseMass = math.Max(w, 0)
}

func (p *Particle) SetMass(m float64) error {
	w, err := inverseOf(m)
	if err != nil {
		return err
	}
	p.inverseMass = w
	return nil
}

// Mass returns +Inf for immovable particles.
func (p *Particle) Mass() float64 {
	if !p.HasFiniteMass() {
		return math.Inf(1)
	}
	return 1 / p.inverseMass
}

func (p *Particle) HasFiniteMass() bool { return p.inverseMass > 0 }

func (p *Particle) AddForce(f mgl64.Vec3) { p.force = p.force.Add(f) }
func (p *Particle) ClearAccumulator()     { p.force = mgl64.Vec3{} }

// Kick adds dv to the velocity.
func (p *Particle) Kick(dv mgl64.Vec3) { p.velocity = p.velocity.Add(dv) }

// Drift adds dp to the position.
func (p *Particle) Drift(dp mgl64.Vec3) { p.position = p.position.Add(dp) }

// Drag scales the velocity by factor.
func (p *Particle) Drag(factor float64) { p.velocity = p.velocity.Mul(factor) }

func inverseOf(m float64) (float64, error) {
	switch {
	case m == 0:
		return 0, ErrZeroMass
	case m < 0:
		return 0, ErrNegativeMass
	}
	return 1 / m, nil
}
