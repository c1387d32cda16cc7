package integrators

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physcore/internal/body"
)

// RigidEuler integrates rigid bodies with a single first-order step.
type RigidEuler struct{}

func NewRigidEuler() *RigidEuler {
	return &RigidEuler{}
}

func (r *RigidEuler) Step(rb *body.RigidBody, dt float64) {
	checkDuration(dt)
	if !rb.IsAwake() {
		return
	}
	if !rb.HasFiniteMass() {
		rb.CalculateDerivedData()
		rb.ClearAccumulators()
		return
	}

	acc := rb.Acceleration().Add(rb.ForceAccumulator().Mul(rb.InverseMass()))
	angAcc := rb.InverseInertiaTensorWorld().Mul3x1(rb.TorqueAccumulator())

	v := rb.Velocity().Add(acc.Mul(dt)).Mul(math.Pow(rb.LinearDamping(), dt))
	w := rb.AngularVelocity().Add(angAcc.Mul(dt)).Mul(math.Pow(rb.AngularDamping(), dt))
	rb.SetVelocity(v)
	rb.SetAngularVelocity(w)

	// dq/dt = ½·(ω, 0)·q
	q := rb.Orientation()
	spin := mgl64.Quat{W: 0, V: w.Mul(dt)}.Mul(q)
	q = q.Add(spin.Scale(0.5))

	rb.SetPose(rb.Position().Add(v.Mul(dt)), q)
	rb.ClearAccumulators()
	rb.UpdateMotion(dt)
}
