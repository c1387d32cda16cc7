package world_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/forces"
	"github.com/san-kum/physcore/internal/integrators"
	"github.com/san-kum/physcore/internal/links"
	"github.com/san-kum/physcore/internal/world"
)

func newParticle(mass float64, pos mgl64.Vec3) *body.Particle {
	p := body.NewParticle()
	Expect(p.SetMass(mass)).To(Succeed())
	p.SetPosition(pos)
	return p
}

// fountain drops a handful of particles onto the ground under gravity.
func fountain(integ integrators.Integrator) *world.ParticleWorld {
	w, err := world.NewParticleWorld(world.DefaultConfig(), integ, nil)
	Expect(err).NotTo(HaveOccurred())

	gravity := &forces.ParticleGravity{Gravity: mgl64.Vec3{0, -9.81, 0}}
	for i := 0; i < 5; i++ {
		p := newParticle(1+float64(i), mgl64.Vec3{float64(i), 2 + float64(i)*0.5, 0})
		p.SetVelocity(mgl64.Vec3{0.5, float64(i), -0.25})
		p.SetDamping(0.99)
		w.AddParticle(p)
		w.Registry().Add(p, gravity)
	}
	w.AddContactGenerator(links.NewGround(w.Particles))
	return w
}

func run(w interface {
	StartFrame()
	RunPhysics(float64) error
}, frames int, dt float64) {
	for i := 0; i < frames; i++ {
		w.StartFrame()
		Expect(w.RunPhysics(dt)).To(Succeed())
	}
}

var _ = Describe("ParticleWorld", func() {
	It("rejects non-positive durations", func() {
		w, err := world.NewParticleWorld(world.DefaultConfig(), nil, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(w.RunPhysics(0)).To(MatchError(world.ErrNonPositiveDuration))
		Expect(w.RunPhysics(-0.1)).To(MatchError(world.ErrNonPositiveDuration))
		Expect(w.Stats().Frame).To(BeZero())
	})

	It("moves free particles by velocity times duration", func() {
		w, err := world.NewParticleWorld(world.DefaultConfig(), integrators.NewEuler(), nil)
		Expect(err).NotTo(HaveOccurred())

		p := newParticle(2, mgl64.Vec3{1, 2, 3})
		p.SetVelocity(mgl64.Vec3{1, -1, 0.5})
		w.AddParticle(p)

		run(w, 1, 0.5)

		Expect(p.Position().ApproxEqual(mgl64.Vec3{1.5, 1.5, 3.25})).To(BeTrue())
		Expect(p.Velocity()).To(Equal(mgl64.Vec3{1, -1, 0.5}))
		Expect(w.Stats().Frame).To(Equal(uint64(1)))
	})

	for _, name := range integrators.Names() {
		It("keeps particles above the ground with "+name, func() {
			integ, err := integrators.New(name)
			Expect(err).NotTo(HaveOccurred())
			w := fountain(integ)

			run(w, 300, 1.0/60)

			for _, p := range w.Particles() {
				Expect(p.Position()[1]).To(BeNumerically(">", -0.05))
			}
			Expect(w.KineticEnergy()).To(BeNumerically("<", 5))
		})
	}

	It("is deterministic", func() {
		a, b := fountain(nil), fountain(nil)
		run(a, 120, 1.0/60)
		run(b, 120, 1.0/60)
		Expect(a.Fingerprint()).To(Equal(b.Fingerprint()))

		run(b, 1, 1.0/60)
		Expect(a.Fingerprint()).NotTo(Equal(b.Fingerprint()))
	})

	It("truncates contacts at capacity", func() {
		cfg := world.DefaultConfig()
		cfg.MaxContacts = 2
		w, err := world.NewParticleWorld(cfg, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 3; i++ {
			w.AddParticle(newParticle(1, mgl64.Vec3{float64(i), -1, 0}))
		}
		w.AddContactGenerator(links.NewGround(w.Particles))

		run(w, 1, 0.01)

		Expect(w.Stats().Contacts).To(Equal(2))
		Expect(w.Stats().Truncated).To(BeTrue())
		Expect(w.Contacts()).To(HaveLen(2))
	})

	It("removes particles with their registrations", func() {
		w := fountain(nil)
		first := w.Particles()[0]

		w.RemoveParticle(first)

		Expect(w.Particles()).To(HaveLen(4))
		Expect(w.Particles()).NotTo(ContainElement(first))
		Expect(w.Registry().Len()).To(Equal(4))
	})

	It("holds a hanging chain with propagated constraints", func() {
		cfg := world.DefaultConfig()
		cfg.Propagate = true
		cfg.Iterations = 40
		w, err := world.NewParticleWorld(cfg, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		gravity := &forces.ParticleGravity{Gravity: mgl64.Vec3{0, -9.81, 0}}
		anchor := mgl64.Vec3{0, 10, 0}
		var prev *body.Particle
		for i := 1; i <= 4; i++ {
			p := newParticle(1, mgl64.Vec3{0, 10 - float64(i), 0})
			w.AddParticle(p)
			w.Registry().Add(p, gravity)
			if prev == nil {
				w.AddContactGenerator(&links.AnchoredRod{Body: p, Anchor: anchor, Length: 1})
			} else {
				w.AddContactGenerator(&links.Rod{A: prev, B: p, Length: 1})
			}
			prev = p
		}

		run(w, 120, 1.0/60)

		Expect(prev.Position()[1]).To(BeNumerically("~", 6, 0.1))
	})

	It("logs frames at debug level only", func() {
		core, logs := observer.New(zapcore.DebugLevel)
		w, err := world.NewParticleWorld(world.DefaultConfig(), nil, zap.New(core))
		Expect(err).NotTo(HaveOccurred())
		w.AddParticle(newParticle(1, mgl64.Vec3{}))

		run(w, 3, 0.01)

		Expect(logs.FilterMessage("frame").Len()).To(Equal(3))
		Expect(logs.FilterLevelExact(zapcore.InfoLevel).Len()).To(BeZero())
	})
})
