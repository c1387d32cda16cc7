package world

import (
	"slices"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/bvh"
	"github.com/san-kum/physcore/internal/contact"
	"github.com/san-kum/physcore/internal/forces"
	"github.com/san-kum/physcore/internal/integrators"
	"github.com/san-kum/physcore/internal/links"
	"go.uber.org/zap"
)

type RigidWorld struct {
	cfg        Config
	bodies     []*body.RigidBody
	radius     map[*body.RigidBody]float64
	handles    map[*body.RigidBody]bvh.Handle
	registry   *forces.Registry[*body.RigidBody]
	integrator *integrators.RigidEuler
	resolver   *contact.Resolver
	generators []contact.Generator
	contacts   []contact.Contact

	tree    *bvh.Tree[bvh.Sphere, *body.RigidBody]
	pairs   []bvh.Pair[*body.RigidBody]
	overlap *links.SphereOverlap[*body.RigidBody]

	stats  Stats
	logger *zap.Logger
}

func NewRigidWorld(cfg Config, logger *zap.Logger) (*RigidWorld, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &RigidWorld{
		cfg:        cfg,
		radius:     make(map[*body.RigidBody]float64),
		handles:    make(map[*body.RigidBody]bvh.Handle),
		registry:   forces.NewRegistry[*body.RigidBody](),
		integrator: integrators.NewRigidEuler(),
		resolver:   cfg.newResolver(),
		contacts:   make([]contact.Contact, cfg.MaxContacts),
		tree:       bvh.NewTree[bvh.Sphere, *body.RigidBody](),
		logger:     orNop(logger).Named("rigid"),
	}
	w.overlap = &links.SphereOverlap[*body.RigidBody]{
		Candidates:  func() []bvh.Pair[*body.RigidBody] { return w.pairs },
		Radius:      func(rb *body.RigidBody) float64 { return w.radius[rb] },
		Restitution: cfg.Restitution,
	}
	return w, nil
}

func (w *RigidWorld) Config() Config                                     { return w.cfg }
func (w *RigidWorld) Bodies() []*body.RigidBody                          { return w.bodies }
func (w *RigidWorld) Registry() *forces.Registry[*body.RigidBody]        { return w.registry }
func (w *RigidWorld) Stats() Stats                                       { return w.stats }
func (w *RigidWorld) BroadPhase() *bvh.Tree[bvh.Sphere, *body.RigidBody] { return w.tree }

func (w *RigidWorld) Contacts() []contact.Contact { return w.contacts[:w.stats.Contacts] }

// AddBody adds rb with the world's sleep epsilon. A positive radius also
// enters it into the broad phase as a bounding sphere. Adding a body that
// is already present only updates its radius.
func (w *RigidWorld) AddBody(rb *body.RigidBody, radius float64) {
	rb.SetSleepEpsilon(w.cfg.SleepEpsilon)
	rb.CalculateDerivedData()
	if !slices.Contains(w.bodies, rb) {
		w.bodies = append(w.bodies, rb)
	}

	h, inTree := w.handles[rb]
	switch {
	case radius > 0 && inTree:
		w.radius[rb] = radius
		w.handles[rb] = w.tree.Update(h, bvh.Sphere{Center: rb.Position(), Radius: radius})
	case radius > 0:
		w.radius[rb] = radius
		w.handles[rb] = w.tree.Insert(rb, bvh.Sphere{Center: rb.Position(), Radius: radius})
	case inTree:
		w.tree.Remove(h)
		delete(w.handles, rb)
		delete(w.radius, rb)
	}
}

func (w *RigidWorld) RemoveBody(rb *body.RigidBody) {
	w.bodies = slices.DeleteFunc(w.bodies, func(b *body.RigidBody) bool { return b == rb })
	w.registry.RemoveBody(rb)
	if h, ok := w.handles[rb]; ok {
		w.tree.Remove(h)
		delete(w.handles, rb)
		delete(w.radius, rb)
	}
}

func (w *RigidWorld) AddContactGenerator(g contact.Generator) {
	w.generators = append(w.generators, g)
}

func (w *RigidWorld) RemoveContactGenerator(g contact.Generator) {
	w.generators = slices.DeleteFunc(w.generators, func(h contact.Generator) bool { return h == g })
}

// StartFrame clears accumulators and refreshes derived data.
func (w *RigidWorld) StartFrame() {
	for _, rb := range w.bodies {
		rb.ClearAccumulators()
		rb.CalculateDerivedData()
	}
}

// Integrate applies forces and steps every awake body.
func (w *RigidWorld) Integrate(dt float64) {
	w.registry.UpdateForces(dt)
	for _, rb := range w.bodies {
		w.integrator.Step(rb, dt)
	}
}

// refit moves the broad-phase leaves of bodies that may have moved. Bodies
// are visited in insertion order so the tree shape is reproducible.
func (w *RigidWorld) refit() {
	for _, rb := range w.bodies {
		h, ok := w.handles[rb]
		if !ok || !rb.IsAwake() {
			continue
		}
		w.handles[rb] = w.tree.Update(h, bvh.Sphere{Center: rb.Position(), Radius: w.radius[rb]})
	}
}

// GenerateContacts runs the registered generators and then the broad phase
// into whatever room is left.
func (w *RigidWorld) GenerateContacts() int {
	n, truncated := fill(w.contacts, w.generators)

	w.pairs = w.pairs[:0]
	if room := len(w.contacts) - n; room > 0 && w.tree.Len() > 1 {
		w.pairs = w.tree.AppendPotentialContactsFunc(w.pairs, room, eitherAwake)
		n += w.overlap.AddContacts(w.contacts[n:])
		truncated = n >= len(w.contacts)
	}

	w.stats.Pairs = len(w.pairs)
	w.stats.Contacts = n
	w.stats.Truncated = truncated
	return n
}

func eitherAwake(a, b *body.RigidBody) bool { return a.IsAwake() || b.IsAwake() }

// RunPhysics runs forces, integration, broad-phase refit, contact
// generation and resolution for one frame.
func (w *RigidWorld) RunPhysics(dt float64) error {
	if !(dt > 0) {
		return ErrNonPositiveDuration
	}

	w.Integrate(dt)
	w.refit()

	w.stats.Iterations = 0
	if n := w.GenerateContacts(); n > 0 {
		w.stats.Iterations = w.resolver.Resolve(w.contacts[:n], dt)
	}

	w.stats.Frame++
	w.stats.Bodies = len(w.bodies)
	w.stats.Awake = 0
	for _, rb := range w.bodies {
		if rb.IsAwake() {
			w.stats.Awake++
		}
	}
	if w.stats.Truncated {
		w.logger.Debug("contact buffer full", zap.Int("capacity", len(w.contacts)))
	}
	logFrame(w.logger, w.stats)
	return nil
}

// KineticEnergy sums linear and rotational kinetic energy of finite-mass
// bodies.
func (w *RigidWorld) KineticEnergy() float64 {
	e := 0.0
	for _, rb := range w.bodies {
		if !rb.HasFiniteMass() {
			continue
		}
		omega := rb.AngularVelocity()
		e += 0.5 * rb.Velocity().LenSqr() / rb.InverseMass()
		e += 0.5 * rb.InertiaTensorWorld().Mul3x1(omega).Dot(omega)
	}
	return e
}

// Fingerprint hashes position, orientation and both velocities of every
// body in order.
func (w *RigidWorld) Fingerprint() uint64 {
	h := newHasher()
	for _, rb := range w.bodies {
		q := rb.Orientation()
		h.vec(rb.Position())
		h.float(q.W)
		h.vec(q.V)
		h.vec(rb.Velocity())
		h.vec(rb.AngularVelocity())
		h.flush()
	}
	return h.sum()
}
