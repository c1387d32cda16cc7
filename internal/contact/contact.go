package contact

import "github.com/go-gl/mathgl/mgl64"

// Body is what a contact needs from the things it pushes apart.
// *body.Particle and *body.RigidBody both satisfy it.
type Body interface {
	Velocity() mgl64.Vec3
	Acceleration() mgl64.Vec3
	InverseMass() float64
	Kick(dv mgl64.Vec3)
	Drift(dp mgl64.Vec3)
}

// Generator writes up to len(dst) contacts and returns how many it wrote.
type Generator interface {
	AddContacts(dst []Contact) int
}

// Contact between Bodies[0] and Bodies[1]. A nil second body is immovable
// scenery. Normal points from the second body towards the first.
type Contact struct {
	Bodies      [2]Body
	Restitution float64
	Normal      mgl64.Vec3
	Penetration float64

	// Movement is the positional correction applied to each body by the
	// last interpenetration pass.
	Movement [2]mgl64.Vec3
}

// SeparatingVelocity is the relative velocity along the normal. Negative
// means the bodies are closing.
func (c *Contact) SeparatingVelocity() float64 {
	rel := c.Bodies[0].Velocity()
	if c.Bodies[1] != nil {
		rel = rel.Sub(c.Bodies[1].Velocity())
	}
	return rel.Dot(c.Normal)
}

// Resolve fixes velocity and then interpenetration for this contact alone.
func (c *Contact) Resolve(dt float64) {
	c.resolveVelocity(dt)
	c.resolveInterpenetration()
}

func (c *Contact) totalInverseMass() float64 {
	w := c.Bodies[0].InverseMass()
	if c.Bodies[1] != nil {
		w += c.Bodies[1].InverseMass()
	}
	return w
}

func (c *Contact) resolveVelocity(dt float64) {
	sep := c.SeparatingVelocity()
	if sep > 0 {
		return
	}

	target := -sep * c.Restitution

	// Closing speed built up by acceleration during this step alone is a
	// resting contact and must not bounce.
	acc := c.Bodies[0].Acceleration()
	if c.Bodies[1] != nil {
		acc = acc.Sub(c.Bodies[1].Acceleration())
	}
	if accSep := acc.Dot(c.Normal) * dt; accSep < 0 {
		target += c.Restitution * accSep
		if target < 0 {
			target = 0
		}
	}

	total := c.totalInverseMass()
	if total <= 0 {
		return
	}

	impulse := c.Normal.Mul((target - sep) / total)
	c.Bodies[0].Kick(impulse.Mul(c.Bodies[0].InverseMass()))
	if c.Bodies[1] != nil {
		c.Bodies[1].Kick(impulse.Mul(-c.Bodies[1].InverseMass()))
	}
}

func (c *Contact) resolveInterpenetration() {
	c.Movement = [2]mgl64.Vec3{}
	if c.Penetration <= 0 {
		return
	}

	total := c.totalInverseMass()
	if total <= 0 {
		return
	}

	move := c.Normal.Mul(c.Penetration / total)
	c.Movement[0] = move.Mul(c.Bodies[0].InverseMass())
	c.Bodies[0].Drift(c.Movement[0])
	if c.Bodies[1] != nil {
		c.Movement[1] = move.Mul(-c.Bodies[1].InverseMass())
		c.Bodies[1].Drift(c.Movement[1])
	}
}
