package forces

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physcore/internal/body"
)

type ParticleGravity struct {
	Gravity mgl64.Vec3
}

func (g *ParticleGravity) UpdateForce(p *body.Particle, _ float64) {
	if !p.HasFiniteMass() {
		return
	}
	p.AddForce(g.Gravity.Mul(p.Mass()))
}

// ParticleDrag applies k1·|v| + k2·|v|² against the direction of motion.
type ParticleDrag struct {
	K1, K2 float64
}

func (d *ParticleDrag) UpdateForce(p *body.Particle, _ float64) {
	v := p.Velocity()
	speed := v.Len()
	if speed == 0 {
		return
	}
	drag := d.K1*speed + d.K2*speed*speed
	p.AddForce(v.Mul(-drag / speed))
}

type ParticleSpring struct {
	Other          *body.Particle
	SpringConstant float64
	RestLength     float64
}

func (s *ParticleSpring) UpdateForce(p *body.Particle, _ float64) {
	p.AddForce(hooke(p.Position().Sub(s.Other.Position()), s.RestLength, s.SpringConstant, false))
}

type ParticleAnchoredSpring struct {
	Anchor         mgl64.Vec3
	SpringConstant float64
	RestLength     float64
}

func (s *ParticleAnchoredSpring) UpdateForce(p *body.Particle, _ float64) {
	p.AddForce(hooke(p.Position().Sub(s.Anchor), s.RestLength, s.SpringConstant, false))
}

// ParticleBungee only pulls once stretched past its rest length.
type ParticleBungee struct {
	Other          *body.Particle
	SpringConstant float64
	RestLength     float64
}

func (s *ParticleBungee) UpdateForce(p *body.Particle, _ float64) {
	p.AddForce(hooke(p.Position().Sub(s.Other.Position()), s.RestLength, s.SpringConstant, true))
}

type ParticleAnchoredBungee struct {
	Anchor         mgl64.Vec3
	SpringConstant float64
	RestLength     float64
}

func (s *ParticleAnchoredBungee) UpdateForce(p *body.Particle, _ float64) {
	p.AddForce(hooke(p.Position().Sub(s.Anchor), s.RestLength, s.SpringConstant, true))
}

// ParticleBuoyancy pushes up along +Y on a particle near a water plane at
// WaterHeight. MaxDepth is the half-height of the body.
type ParticleBuoyancy struct {
	MaxDepth      float64
	Volume        float64
	WaterHeight   float64
	LiquidDensity float64
}

func (b *ParticleBuoyancy) UpdateForce(p *body.Particle, _ float64) {
	lift := buoyancy(p.Position()[1], b.WaterHeight, b.MaxDepth, b.Volume, b.LiquidDensity)
	if lift == 0 {
		return
	}
	p.AddForce(mgl64.Vec3{0, lift, 0})
}

// ParticleFakeSpring approximates a stiff damped spring to an anchor by
// predicting where the harmonic motion would carry the particle after dt and
// applying the force that gets it there.
type ParticleFakeSpring struct {
	Anchor         mgl64.Vec3
	SpringConstant float64
	Damping        float64
}

func (s *ParticleFakeSpring) UpdateForce(p *body.Particle, dt float64) {
	if !p.HasFiniteMass() || dt <= 0 {
		return
	}

	gamma := 0.5 * math.Sqrt(4*s.SpringConstant-s.Damping*s.Damping)
	if gamma == 0 || math.IsNaN(gamma) {
		return
	}

	rel := p.Position().Sub(s.Anchor)
	v := p.Velocity()
	c := rel.Mul(s.Damping / (2 * gamma)).Add(v.Mul(1 / gamma))

	target := rel.Mul(math.Cos(gamma * dt)).Add(c.Mul(math.Sin(gamma * dt)))
	target = target.Mul(math.Exp(-0.5 * dt * s.Damping))

	acc := target.Sub(rel).Mul(1 / (dt * dt)).Sub(v.Mul(dt))
	p.AddForce(acc.Mul(p.Mass()))
}

// hooke returns the spring force for separation r. A zero-length separation
// has no direction and yields no force.
func hooke(r mgl64.Vec3, restLength, k float64, oneSided bool) mgl64.Vec3 {
	length := r.Len()
	if length == 0 || (oneSided && length <= restLength) {
		return mgl64.Vec3{}
	}
	magnitude := k * (length - restLength)
	return r.Mul(-magnitude / length)
}

func buoyancy(depth, waterHeight, maxDepth, volume, density float64) float64 {
	switch {
	case depth >= waterHeight+maxDepth:
		return 0
	case depth <= waterHeight-maxDepth:
		return density * volume
	}
	return density * volume * (waterHeight + maxDepth - depth) / (2 * maxDepth)
}
