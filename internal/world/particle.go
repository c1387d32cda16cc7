package world

import (
	"slices"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/contact"
	"github.com/san-kum/physcore/internal/forces"
	"github.com/san-kum/physcore/internal/integrators"
	"go.uber.org/zap"
)

type ParticleWorld struct {
	cfg        Config
	particles  []*body.Particle
	registry   *forces.Registry[*body.Particle]
	integrator integrators.Integrator
	resolver   *contact.Resolver
	generators []contact.Generator
	contacts   []contact.Contact

	stats  Stats
	logger *zap.Logger
}

// NewParticleWorld builds a world around integ. A nil integrator selects
// velocity-Verlet; a nil logger discards output.
func NewParticleWorld(cfg Config, integ integrators.Integrator, logger *zap.Logger) (*ParticleWorld, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if integ == nil {
		integ = integrators.NewVelocityVerlet()
	}
	return &ParticleWorld{
		cfg:        cfg,
		registry:   forces.NewRegistry[*body.Particle](),
		integrator: integ,
		resolver:   cfg.newResolver(),
		contacts:   make([]contact.Contact, cfg.MaxContacts),
		logger:     orNop(logger).Named("particles"),
	}, nil
}

func (w *ParticleWorld) Config() Config                             { return w.cfg }
func (w *ParticleWorld) Particles() []*body.Particle                { return w.particles }
func (w *ParticleWorld) Registry() *forces.Registry[*body.Particle] { return w.registry }
func (w *ParticleWorld) Stats() Stats                               { return w.stats }

// Contacts returns the contacts generated in the last frame, as left by
// the resolver.
func (w *ParticleWorld) Contacts() []contact.Contact { return w.contacts[:w.stats.Contacts] }

func (w *ParticleWorld) AddParticle(p *body.Particle) {
	w.particles = append(w.particles, p)
}

// RemoveParticle drops p and all of its force registrations. Contact
// generators that still reference p are the caller's to remove.
func (w *ParticleWorld) RemoveParticle(p *body.Particle) {
	w.particles = slices.DeleteFunc(w.particles, func(q *body.Particle) bool { return q == p })
	w.registry.RemoveBody(p)
}

func (w *ParticleWorld) AddContactGenerator(g contact.Generator) {
	w.generators = append(w.generators, g)
}

func (w *ParticleWorld) RemoveContactGenerator(g contact.Generator) {
	w.generators = slices.DeleteFunc(w.generators, func(h contact.Generator) bool { return h == g })
}

// StartFrame clears every force accumulator.
func (w *ParticleWorld) StartFrame() {
	for _, p := range w.particles {
		p.ClearAccumulator()
	}
}

// GenerateContacts fills the contact buffer from every generator in order
// and returns the number produced.
func (w *ParticleWorld) GenerateContacts() int {
	n, truncated := fill(w.contacts, w.generators)
	w.stats.Contacts = n
	w.stats.Truncated = truncated
	return n
}

// Integrate runs predict, the force pass, then correct.
func (w *ParticleWorld) Integrate(dt float64) {
	for _, p := range w.particles {
		w.integrator.Predict(p, dt)
	}
	w.registry.UpdateForces(dt)
	for _, p := range w.particles {
		w.integrator.Correct(p, dt)
	}
}

func (w *ParticleWorld) RunPhysics(dt float64) error {
	if !(dt > 0) {
		return ErrNonPositiveDuration
	}

	w.Integrate(dt)

	w.stats.Iterations = 0
	if n := w.GenerateContacts(); n > 0 {
		w.stats.Iterations = w.resolver.Resolve(w.contacts[:n], dt)
	}

	w.stats.Frame++
	w.stats.Bodies = len(w.particles)
	w.stats.Awake = len(w.particles)
	if w.stats.Truncated {
		w.logger.Debug("contact buffer full", zap.Int("capacity", len(w.contacts)))
	}
	logFrame(w.logger, w.stats)
	return nil
}

// KineticEnergy sums ½mv² over finite-mass particles.
func (w *ParticleWorld) KineticEnergy() float64 {
	e := 0.0
	for _, p := range w.particles {
		if p.HasFiniteMass() {
			e += 0.5 * p.Velocity().LenSqr() / p.InverseMass()
		}
	}
	return e
}

// Fingerprint hashes the position and velocity bits of every particle in
// order. Identical inputs stepped identically produce identical values.
func (w *ParticleWorld) Fingerprint() uint64 {
	h := newHasher()
	for _, p := range w.particles {
		h.vec(p.Position())
		h.vec(p.Velocity())
		h.flush()
	}
	return h.sum()
}

// fill runs generators into buf until it is full.
func fill(buf []contact.Contact, generators []contact.Generator) (int, bool) {
	used := 0
	for _, g := range generators {
		if used >= len(buf) {
			break
		}
		used += g.AddContacts(buf[used:])
	}
	return used, used >= len(buf)
}
