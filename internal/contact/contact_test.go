package contact

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physcore/internal/body"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func particle(t *testing.T, mass float64, pos, vel mgl64.Vec3) *body.Particle {
	t.Helper()
	p := body.NewParticle()
	require.NoError(t, p.SetMass(mass))
	p.SetPosition(pos)
	p.SetVelocity(vel)
	return p
}

var (
	_ Body = (*body.Particle)(nil)
	_ Body = (*body.RigidBody)(nil)
)

func TestContact_RestitutionAgainstScenery(t *testing.T) {
	const speed = 4.0

	for _, r := range []float64{0, 0.25, 0.5, 0.8, 1} {
		t.Run(fmt.Sprintf("restitution=%v", r), func(t *testing.T) {
			p := particle(t, 2, mgl64.Vec3{}, mgl64.Vec3{0, -speed, 0})
			c := Contact{
				Bodies:      [2]Body{p, nil},
				Restitution: r,
				Normal:      mgl64.Vec3{0, 1, 0},
			}
			require.InDelta(t, -speed, c.SeparatingVelocity(), delta)

			c.Resolve(0.01)

			assert.InDelta(t, r*speed, c.SeparatingVelocity(), delta)
			assert.InDelta(t, r*speed, p.Velocity()[1], delta)
		})
	}
}

func TestContact_RestitutionBetweenBodies(t *testing.T) {
	a := particle(t, 1, mgl64.Vec3{}, mgl64.Vec3{-1, 0, 0})
	b := particle(t, 3, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	c := Contact{
		Bodies:      [2]Body{a, b},
		Restitution: 0.5,
		Normal:      mgl64.Vec3{1, 0, 0},
	}

	momentum := a.Velocity().Mul(a.Mass()).Add(b.Velocity().Mul(b.Mass()))
	c.Resolve(0.01)

	assert.InDelta(t, 1.0, c.SeparatingVelocity(), delta)
	after := a.Velocity().Mul(a.Mass()).Add(b.Velocity().Mul(b.Mass()))
	assert.InDelta(t, momentum[0], after[0], delta, "momentum is conserved")
}

func TestContact_SeparatingIsUntouched(t *testing.T) {
	p := particle(t, 1, mgl64.Vec3{}, mgl64.Vec3{0, 2, 0})
	c := Contact{Bodies: [2]Body{p, nil}, Restitution: 1, Normal: mgl64.Vec3{0, 1, 0}}

	c.Resolve(0.01)

	assert.Equal(t, mgl64.Vec3{0, 2, 0}, p.Velocity())
}

func TestContact_RestingContactDoesNotBounce(t *testing.T) {
	const dt = 0.1
	p := particle(t, 1, mgl64.Vec3{}, mgl64.Vec3{0, -10 * dt, 0})
	p.SetAcceleration(mgl64.Vec3{0, -10, 0})

	c := Contact{Bodies: [2]Body{p, nil}, Restitution: 0.9, Normal: mgl64.Vec3{0, 1, 0}}
	c.Resolve(dt)

	assert.InDelta(t, 0, p.Velocity()[1], delta)
}

func TestContact_InterpenetrationSplitByMass(t *testing.T) {
	const depth = 0.6

	a := particle(t, 5, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{})
	b := particle(t, 5, mgl64.Vec3{0.4, 0, 0}, mgl64.Vec3{})
	c := Contact{
		Bodies:      [2]Body{a, b},
		Normal:      mgl64.Vec3{-1, 0, 0},
		Penetration: depth,
	}

	c.Resolve(0.01)

	assert.InDelta(t, -depth/2, a.Position()[0], delta)
	assert.InDelta(t, 0.4+depth/2, b.Position()[0], delta)
	assert.InDelta(t, depth/2, c.Movement[0].Len(), delta)
	assert.InDelta(t, depth/2, c.Movement[1].Len(), delta)

	heavy := particle(t, 3, mgl64.Vec3{}, mgl64.Vec3{})
	light := particle(t, 1, mgl64.Vec3{}, mgl64.Vec3{})
	uneven := Contact{Bodies: [2]Body{heavy, light}, Normal: mgl64.Vec3{0, 1, 0}, Penetration: 1}
	uneven.Resolve(0.01)

	assert.InDelta(t, 0.25, heavy.Position()[1], delta)
	assert.InDelta(t, -0.75, light.Position()[1], delta)
}

func TestContact_ImmovablePairIsNoop(t *testing.T) {
	a := body.NewParticle()
	b := body.NewParticle()
	a.SetVelocity(mgl64.Vec3{0, -1, 0})

	c := Contact{
		Bodies:      [2]Body{a, b},
		Restitution: 1,
		Normal:      mgl64.Vec3{0, 1, 0},
		Penetration: 2,
	}
	c.Resolve(0.01)

	assert.Equal(t, mgl64.Vec3{0, -1, 0}, a.Velocity())
	assert.Equal(t, mgl64.Vec3{}, a.Position())
	assert.Equal(t, mgl64.Vec3{}, b.Position())
}

func TestContact_RigidBodyDrift(t *testing.T) {
	rb := body.NewRigidBody()
	require.NoError(t, rb.SetMass(1))
	rb.SetCanSleep(true)
	rb.SetAwake(false)

	c := Contact{Bodies: [2]Body{rb, nil}, Normal: mgl64.Vec3{0, 1, 0}, Penetration: 0.5}
	c.Resolve(0.01)

	assert.InDelta(t, 0.5, rb.Position()[1], delta)
	assert.InDelta(t, 0.5, rb.Transform()[13], delta, "drift refreshes derived data")
}
