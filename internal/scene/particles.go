package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/forces"
	"github.com/san-kum/physcore/internal/integrators"
	"github.com/san-kum/physcore/internal/links"
	"github.com/san-kum/physcore/internal/world"
)

var earthGravity = mgl64.Vec3{0, -9.81, 0}

const fountainParticles = 24

func newParticleWorld(p Params) (*world.ParticleWorld, error) {
	integ, err := integrators.New(p.Integrator)
	if err != nil {
		return nil, err
	}
	return world.NewParticleWorld(p.World, integ, p.Logger)
}

func newParticle(mass float64, pos mgl64.Vec3, damping float64) (*body.Particle, error) {
	pt := body.NewParticle()
	if err := pt.SetMass(mass); err != nil {
		return nil, err
	}
	pt.SetPosition(pos)
	pt.SetDamping(damping)
	return pt, nil
}

// Fountain launches a ring of particles upward from just above the ground.
func Fountain(p Params) (Runner, error) {
	w, err := newParticleWorld(p)
	if err != nil {
		return nil, err
	}

	gravity := &forces.ParticleGravity{Gravity: earthGravity}
	drag := &forces.ParticleDrag{K1: 0.05, K2: 0.01}
	for i := 0; i < fountainParticles; i++ {
		pt, err := newParticle(1+0.5*float64(i%3), mgl64.Vec3{0, 0.5, 0}, 0.99)
		if err != nil {
			return nil, err
		}
		angle := 2 * math.Pi * float64(i) / fountainParticles
		pt.SetVelocity(mgl64.Vec3{3 * math.Cos(angle), 8 + float64(i%4), 3 * math.Sin(angle)})

		w.AddParticle(pt)
		w.Registry().Add(pt, gravity)
		w.Registry().Add(pt, drag)
	}
	w.AddContactGenerator(links.NewGround(w.Particles))

	return &particleRunner{name: "fountain", w: w}, nil
}

// Bridge hangs two rows of six particles from anchors. Cables join each
// particle to the next along its row, rods hold the rows apart, and every
// particle hangs from an anchored cable. Constraint propagation is always
// on for this scene.
func Bridge(p Params) (Runner, error) {
	p.World.Propagate = true
	w, err := newParticleWorld(p)
	if err != nil {
		return nil, err
	}

	gravity := &forces.ParticleGravity{Gravity: earthGravity}
	pts := make([]*body.Particle, 12)
	for i := range pts {
		pos := mgl64.Vec3{float64(i/2)*2 - 5, 4, float64(i%2)*2 - 1}
		pt, err := newParticle(1, pos, 0.9)
		if err != nil {
			return nil, err
		}
		pts[i] = pt
		w.AddParticle(pt)
		w.Registry().Add(pt, gravity)
	}

	for i := 0; i < 10; i++ {
		w.AddContactGenerator(&links.Cable{A: pts[i], B: pts[i+2], MaxLength: 1.9, Restitution: 0.3})
	}
	for i, pt := range pts {
		maxLength := 5.5 - float64(i/2)*0.5
		if i < 6 {
			maxLength = float64(i/2)*0.5 + 3
		}
		w.AddContactGenerator(&links.AnchoredCable{
			Body:        pt,
			Anchor:      mgl64.Vec3{float64(i/2)*2.2 - 5.5, 6, float64(i%2)*1.6 - 0.8},
			MaxLength:   maxLength,
			Restitution: 0.5,
		})
	}
	for i := 0; i < 6; i++ {
		w.AddContactGenerator(&links.Rod{A: pts[2*i], B: pts[2*i+1], Length: 2})
	}
	w.AddContactGenerator(links.NewGround(w.Particles))

	return &particleRunner{name: "bridge", w: w}, nil
}

// Buoy floats particles on a sea at height zero and ties others to springs,
// bungees and a rigid pendulum arm. The sea bed is a ground plane.
func Buoy(p Params) (Runner, error) {
	w, err := newParticleWorld(p)
	if err != nil {
		return nil, err
	}
	reg := w.Registry()
	gravity := &forces.ParticleGravity{Gravity: earthGravity}
	drag := &forces.ParticleDrag{K1: 0.5, K2: 0.1}
	sea := &forces.ParticleBuoyancy{MaxDepth: 0.5, Volume: 0.1, WaterHeight: 0, LiquidDensity: 1000}

	add := func(mass float64, pos mgl64.Vec3, gens ...forces.Generator[*body.Particle]) (*body.Particle, error) {
		pt, err := newParticle(mass, pos, 0.95)
		if err != nil {
			return nil, err
		}
		w.AddParticle(pt)
		reg.Add(pt, gravity)
		for _, g := range gens {
			reg.Add(pt, g)
		}
		return pt, nil
	}

	if _, err := add(5, mgl64.Vec3{0, 2, 0}, sea, drag); err != nil {
		return nil, err
	}

	// a pair of floats joined by a spring
	left, err := add(4, mgl64.Vec3{-1, 1, 3}, sea)
	if err != nil {
		return nil, err
	}
	right, err := add(4, mgl64.Vec3{1, 1, 3}, sea)
	if err != nil {
		return nil, err
	}
	reg.Add(left, &forces.ParticleSpring{Other: right, SpringConstant: 40, RestLength: 1.5})
	reg.Add(right, &forces.ParticleSpring{Other: left, SpringConstant: 40, RestLength: 1.5})

	if _, err := add(1, mgl64.Vec3{4, 1, 0},
		&forces.ParticleAnchoredSpring{Anchor: mgl64.Vec3{4, 4, 0}, SpringConstant: 20, RestLength: 1}); err != nil {
		return nil, err
	}

	top, err := add(1, mgl64.Vec3{-4, 2, 0},
		&forces.ParticleAnchoredBungee{Anchor: mgl64.Vec3{-4, 5, 0}, SpringConstant: 30, RestLength: 1})
	if err != nil {
		return nil, err
	}
	bottom, err := add(1, mgl64.Vec3{-4, 0, 0}, sea)
	if err != nil {
		return nil, err
	}
	reg.Add(top, &forces.ParticleBungee{Other: bottom, SpringConstant: 30, RestLength: 1})
	reg.Add(bottom, &forces.ParticleBungee{Other: top, SpringConstant: 30, RestLength: 1})

	if _, err := add(1, mgl64.Vec3{7, 2, 0},
		&forces.ParticleFakeSpring{Anchor: mgl64.Vec3{7, 3, 0}, SpringConstant: 40, Damping: 1}); err != nil {
		return nil, err
	}

	bob, err := add(2, mgl64.Vec3{10, 3, 0})
	if err != nil {
		return nil, err
	}
	bob.SetVelocity(mgl64.Vec3{0, 0, 2})
	w.AddContactGenerator(&links.AnchoredRod{Body: bob, Anchor: mgl64.Vec3{9, 3, 0}, Length: 1})

	floor := links.NewGround(w.Particles)
	floor.Height = -5
	w.AddContactGenerator(floor)

	return &particleRunner{name: "buoy", w: w}, nil
}
