package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/physcore/internal/contact"
	"github.com/san-kum/physcore/internal/sim"
	"github.com/san-kum/physcore/internal/world"
)

// Runner drives one scene frame by frame.
type Runner interface {
	sim.Stepper
	Name() string
	Stats() world.Stats
	// Positions returns every body's position in body order.
	Positions() []mgl64.Vec3
}

// hook runs before the physics of each frame, after accumulators are
// cleared. t is the time at the start of the frame.
type hook func(t, dt float64)

type particleRunner struct {
	name   string
	w      *world.ParticleWorld
	before hook
	t      float64
}

func (r *particleRunner) Name() string        { return r.name }
func (r *particleRunner) Stats() world.Stats  { return r.w.Stats() }
func (r *particleRunner) Fingerprint() uint64 { return r.w.Fingerprint() }

func (r *particleRunner) Step(dt float64) error {
	r.w.StartFrame()
	if r.before != nil {
		r.before(r.t, dt)
	}
	if err := r.w.RunPhysics(dt); err != nil {
		return err
	}
	r.t += dt
	return nil
}

func (r *particleRunner) State() sim.State {
	ps := r.w.Particles()
	x := make(sim.State, 0, 6*len(ps))
	for _, p := range ps {
		pos, vel := p.Position(), p.Velocity()
		x = append(x, pos[0], pos[1], pos[2], vel[0], vel[1], vel[2])
	}
	return x
}

func (r *particleRunner) Positions() []mgl64.Vec3 {
	ps := r.w.Particles()
	out := make([]mgl64.Vec3, len(ps))
	for i, p := range ps {
		out[i] = p.Position()
	}
	return out
}

func (r *particleRunner) Labels() []string {
	return labels("p", len(r.w.Particles()), particleFields)
}

func (r *particleRunner) Sample() sim.Sample {
	return sample(r.t, r.w.Stats(), r.w.KineticEnergy(), r.w.Contacts())
}

type rigidRunner struct {
	name   string
	w      *world.RigidWorld
	before hook
	t      float64
}

func (r *rigidRunner) Name() string        { return r.name }
func (r *rigidRunner) Stats() world.Stats  { return r.w.Stats() }
func (r *rigidRunner) Fingerprint() uint64 { return r.w.Fingerprint() }

func (r *rigidRunner) Step(dt float64) error {
	r.w.StartFrame()
	if r.before != nil {
		r.before(r.t, dt)
	}
	if err := r.w.RunPhysics(dt); err != nil {
		return err
	}
	r.t += dt
	return nil
}

func (r *rigidRunner) State() sim.State {
	bs := r.w.Bodies()
	x := make(sim.State, 0, 9*len(bs))
	for _, rb := range bs {
		pos, vel, rot := rb.Position(), rb.Velocity(), rb.AngularVelocity()
		x = append(x, pos[0], pos[1], pos[2], vel[0], vel[1], vel[2], rot[0], rot[1], rot[2])
	}
	return x
}

func (r *rigidRunner) Positions() []mgl64.Vec3 {
	bs := r.w.Bodies()
	out := make([]mgl64.Vec3, len(bs))
	for i, rb := range bs {
		out[i] = rb.Position()
	}
	return out
}

func (r *rigidRunner) Labels() []string {
	return labels("b", len(r.w.Bodies()), rigidFields)
}

func (r *rigidRunner) Sample() sim.Sample {
	return sample(r.t, r.w.Stats(), r.w.KineticEnergy(), r.w.Contacts())
}

var (
	particleFields = []string{"x", "y", "z", "vx", "vy", "vz"}
	rigidFields    = []string{"x", "y", "z", "vx", "vy", "vz", "wx", "wy", "wz"}
)

func labels(prefix string, n int, fields []string) []string {
	out := make([]string, 0, n*len(fields))
	for i := 0; i < n; i++ {
		for _, f := range fields {
			out = append(out, fmt.Sprintf("%s%d.%s", prefix, i, f))
		}
	}
	return out
}

func sample(t float64, s world.Stats, ke float64, contacts []contact.Contact) sim.Sample {
	worst := 0.0
	for _, c := range contacts {
		worst = math.Max(worst, c.Penetration)
	}
	return sim.Sample{
		Time:          t,
		KineticEnergy: ke,
		Bodies:        s.Bodies,
		Awake:         s.Awake,
		Contacts:      s.Contacts,
		Iterations:    s.Iterations,
		Pairs:         s.Pairs,
		Penetration:   worst,
		Truncated:     s.Truncated,
	}
}
