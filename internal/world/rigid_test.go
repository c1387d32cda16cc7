package world_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/links"
	"github.com/san-kum/physcore/internal/world"
)

func newBall(pos mgl64.Vec3, radius float64) *body.RigidBody {
	rb := body.NewRigidBody()
	Expect(rb.SetMass(1)).To(Succeed())
	rb.SetInertiaTensor(body.SphereInertia(1, radius))
	rb.SetPosition(pos)
	return rb
}

// pile stacks falling balls above a floor, with gravity set as a constant
// acceleration so resting balls can sleep.
func pile(cfg world.Config) *world.RigidWorld {
	w, err := world.NewRigidWorld(cfg, nil)
	Expect(err).NotTo(HaveOccurred())

	for i := 0; i < 5; i++ {
		rb := newBall(mgl64.Vec3{float64(i) * 0.3, 1 + 2.1*float64(i), 0}, 1)
		rb.SetAcceleration(mgl64.Vec3{0, -9.81, 0})
		rb.SetLinearDamping(0.95)
		rb.SetAngularDamping(0.8)
		rb.SetCanSleep(true)
		w.AddBody(rb, 1)
	}
	floor := links.NewGround(w.Bodies)
	floor.Clearance = 1
	w.AddContactGenerator(floor)
	return w
}

var _ = Describe("RigidWorld", func() {
	var cfg world.Config

	BeforeEach(func() {
		cfg = world.DefaultConfig()
	})

	It("rejects non-positive durations", func() {
		w, err := world.NewRigidWorld(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.RunPhysics(0)).To(MatchError(world.ErrNonPositiveDuration))
	})

	It("injects its sleep epsilon into added bodies", func() {
		cfg.SleepEpsilon = 0.5
		w, err := world.NewRigidWorld(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		rb := newBall(mgl64.Vec3{}, 1)
		w.AddBody(rb, 0)

		Expect(rb.SleepEpsilon()).To(Equal(0.5))
		Expect(w.BroadPhase().Len()).To(BeZero())
	})

	It("separates overlapping spheres found by the broad phase", func() {
		w, err := world.NewRigidWorld(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		a := newBall(mgl64.Vec3{0, 0, 0}, 1)
		b := newBall(mgl64.Vec3{1.5, 0, 0}, 1)
		w.AddBody(a, 1)
		w.AddBody(b, 1)
		Expect(w.BroadPhase().Len()).To(Equal(2))

		w.StartFrame()
		Expect(w.RunPhysics(0.01)).To(Succeed())

		Expect(w.Stats().Pairs).To(Equal(1))
		Expect(w.Stats().Contacts).To(Equal(1))
		Expect(b.Position().Sub(a.Position()).Len()).To(BeNumerically(">=", 2-1e-9))
		Expect(a.Position()[0]).To(BeNumerically("<", 0))
		Expect(b.Position()[0]).To(BeNumerically(">", 1.5))
	})

	It("reports nothing for separated spheres", func() {
		w, err := world.NewRigidWorld(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		w.AddBody(newBall(mgl64.Vec3{0, 0, 0}, 1), 1)
		w.AddBody(newBall(mgl64.Vec3{3, 0, 0}, 1), 1)

		w.StartFrame()
		Expect(w.RunPhysics(0.01)).To(Succeed())

		Expect(w.Stats().Pairs).To(BeZero())
		Expect(w.Stats().Contacts).To(BeZero())
	})

	It("puts a resting ball to sleep and keeps it there", func() {
		w, err := world.NewRigidWorld(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		rb := newBall(mgl64.Vec3{0, 1, 0}, 1)
		rb.SetAcceleration(mgl64.Vec3{0, -10, 0})
		rb.SetCanSleep(true)
		w.AddBody(rb, 1)
		floor := links.NewGround(w.Bodies)
		floor.Clearance = 1
		floor.Restitution = 0
		w.AddContactGenerator(floor)

		run(w, 300, 0.01)

		Expect(rb.IsAwake()).To(BeFalse())
		Expect(w.Stats().Awake).To(BeZero())
		Expect(rb.Position()[1]).To(BeNumerically("~", 1, 0.01))

		pos := rb.Position()
		run(w, 10, 0.01)
		Expect(rb.Position()).To(Equal(pos))

		rb.AddForce(mgl64.Vec3{100, 0, 0})
		Expect(w.RunPhysics(0.01)).To(Succeed())
		Expect(w.Stats().Awake).To(Equal(1))
		Expect(rb.Velocity()[0]).To(BeNumerically(">", 0))
	})

	It("settles a pile above the floor", func() {
		w := pile(cfg)

		run(w, 600, 1.0/60)

		for _, rb := range w.Bodies() {
			Expect(rb.Position()[1]).To(BeNumerically(">", 0.8))
		}
		Expect(w.Stats().Bodies).To(Equal(5))
		Expect(w.BroadPhase().Validate()).To(Succeed())
	})

	It("is deterministic", func() {
		a, b := pile(cfg), pile(cfg)
		run(a, 90, 1.0/60)
		run(b, 90, 1.0/60)
		Expect(a.Fingerprint()).To(Equal(b.Fingerprint()))

		b.Bodies()[0].SetVelocity(mgl64.Vec3{0, 1e-6, 0})
		Expect(a.Fingerprint()).NotTo(Equal(b.Fingerprint()))
	})

	It("removes bodies from the broad phase", func() {
		w := pile(cfg)
		first := w.Bodies()[0]

		w.RemoveBody(first)

		Expect(w.Bodies()).To(HaveLen(4))
		Expect(w.BroadPhase().Len()).To(Equal(4))
		Expect(w.BroadPhase().Validate()).To(Succeed())
	})

	It("keeps the pair budget for pairs with an awake body", func() {
		cfg.MaxContacts = 4
		w, err := world.NewRigidWorld(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		// Six overlapping pairs among four sleeping balls.
		for i := 0; i < 4; i++ {
			rb := newBall(mgl64.Vec3{0.1 * float64(i), 0, 0}, 1)
			rb.SetCanSleep(true)
			w.AddBody(rb, 1)
			rb.SetAwake(false)
		}
		w.AddBody(newBall(mgl64.Vec3{100, 0, 0}, 1), 1)
		w.AddBody(newBall(mgl64.Vec3{101.5, 0, 0}, 1), 1)

		w.StartFrame()
		Expect(w.GenerateContacts()).To(Equal(1))
		Expect(w.Stats().Pairs).To(Equal(1))
		Expect(w.Stats().Truncated).To(BeFalse())
	})

	It("does not duplicate a body added twice", func() {
		w, err := world.NewRigidWorld(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		rb := newBall(mgl64.Vec3{}, 1)
		w.AddBody(rb, 1)
		w.AddBody(rb, 2)

		Expect(w.Bodies()).To(HaveLen(1))
		Expect(w.BroadPhase().Len()).To(Equal(1))
		Expect(w.BroadPhase().Validate()).To(Succeed())

		w.AddBody(newBall(mgl64.Vec3{3.5, 0, 0}, 1), 1)
		w.StartFrame()
		Expect(w.GenerateContacts()).To(Equal(1), "the larger radius reaches the neighbour")

		w.RemoveBody(rb)
		Expect(w.BroadPhase().Len()).To(Equal(1))
		Expect(w.BroadPhase().Validate()).To(Succeed())
	})

	It("counts rotational kinetic energy", func() {
		w, err := world.NewRigidWorld(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		rb := newBall(mgl64.Vec3{}, 1)
		rb.SetVelocity(mgl64.Vec3{2, 0, 0})
		rb.SetAngularVelocity(mgl64.Vec3{0, 0, 5})
		w.AddBody(rb, 0)

		// ½·1·4 + ½·0.4·25
		Expect(w.KineticEnergy()).To(BeNumerically("~", 7, 1e-9))
	})
})
