package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSleepEpsilon is the motion threshold a body uses until a world
// injects its own.
const DefaultSleepEpsilon = 0.1

type RigidBody struct {
	position        mgl64.Vec3
	velocity        mgl64.Vec3
	acceleration    mgl64.Vec3
	angularVelocity mgl64.Vec3
	force           mgl64.Vec3
	torque          mgl64.Vec3
	orientation     mgl64.Quat

	inverseMass               float64
	inverseInertiaTensor      mgl64.Mat3
	inverseInertiaTensorWorld mgl64.Mat3
	transform                 mgl64.Mat4

	linearDamping  float64
	angularDamping float64

	awake        bool
	canSleep     bool
	motion       float64
	sleepEpsilon float64
}

// NewRigidBody returns an awake, immovable body at the origin with identity
// orientation, no damping and sleeping disabled.
func NewRigidBody() *RigidBody {
	rb := &RigidBody{
		orientation:    mgl64.QuatIdent(),
		linearDamping:  1,
		angularDamping: 1,
		awake:          true,
		sleepEpsilon:   DefaultSleepEpsilon,
	}
	rb.motion = 2 * rb.sleepEpsilon
	rb.CalculateDerivedData()
	return rb
}

// CalculateDerivedData normalizes the orientation and rebuilds the world
// transform and world-space inverse inertia tensor from it.
func (rb *RigidBody) CalculateDerivedData() {
	rb.orientation = rb.orientation.Normalize()

	rb.transform = rb.orientation.Mat4()
	rb.transform[12] = rb.position[0]
	rb.transform[13] = rb.position[1]
	rb.transform[14] = rb.position[2]

	rot := rb.transform.Mat3()
	rb.inverseInertiaTensorWorld = rot.Mul3(rb.inverseInertiaTensor).Mul3(rot.Transpose())
}

func (rb *RigidBody) Position() mgl64.Vec3                  { return rb.position }
func (rb *RigidBody) Velocity() mgl64.Vec3                  { return rb.velocity }
func (rb *RigidBody) Acceleration() mgl64.Vec3              { return rb.acceleration }
func (rb *RigidBody) AngularVelocity() mgl64.Vec3           { return rb.angularVelocity }
func (rb *RigidBody) Orientation() mgl64.Quat               { return rb.orientation }
func (rb *RigidBody) ForceAccumulator() mgl64.Vec3          { return rb.force }
func (rb *RigidBody) TorqueAccumulator() mgl64.Vec3         { return rb.torque }
func (rb *RigidBody) InverseMass() float64                  { return rb.inverseMass }
func (rb *RigidBody) InverseInertiaTensor() mgl64.Mat3      { return rb.inverseInertiaTensor }
func (rb *RigidBody) InverseInertiaTensorWorld() mgl64.Mat3 { return rb.inverseInertiaTensorWorld }
func (rb *RigidBody) Transform() mgl64.Mat4                 { return rb.transform }
func (rb *RigidBody) LinearDamping() float64                { return rb.linearDamping }
func (rb *RigidBody) AngularDamping() float64               { return rb.angularDamping }
func (rb *RigidBody) IsAwake() bool                         { return rb.awake }
func (rb *RigidBody) CanSleep() bool                        { return rb.canSleep }
func (rb *RigidBody) Motion() float64                       { return rb.motion }
func (rb *RigidBody) SleepEpsilon() float64                 { return rb.sleepEpsilon }
func (rb *RigidBody) HasFiniteMass() bool                   { return rb.inverseMass > 0 }

func (rb *RigidBody) SetPosition(v mgl64.Vec3) {
	rb.position = v
	rb.CalculateDerivedData()
}

// SetOrientation stores the normalized quaternion and refreshes derived data.
func (rb *RigidBody) SetOrientation(q mgl64.Quat) {
	rb.orientation = q
	rb.CalculateDerivedData()
}

// SetPose moves and turns the body in one derived-data refresh.
func (rb *RigidBody) SetPose(position mgl64.Vec3, q mgl64.Quat) {
	rb.position = position
	rb.orientation = q
	rb.CalculateDerivedData()
}

func (rb *RigidBody) SetVelocity(v mgl64.Vec3)        { rb.velocity = v }
func (rb *RigidBody) SetAcceleration(v mgl64.Vec3)    { rb.acceleration = v }
func (rb *RigidBody) SetAngularVelocity(v mgl64.Vec3) { rb.angularVelocity = v }
func (rb *RigidBody) SetLinearDamping(d float64)      { rb.linearDamping = d }
func (rb *RigidBody) SetAngularDamping(d float64)     { rb.angularDamping = d }
func (rb *RigidBody) SetSleepEpsilon(eps float64)     { rb.sleepEpsilon = eps }

func (rb *RigidBody) SetInverseMass(w float64) {
	rb.inverseMass = math.Max(w, 0)
}

func (rb *RigidBody) SetMass(m float64) error {
	w, err := inverseOf(m)
	if err != nil {
		return err
	}
	rb.inverseMass = w
	return nil
}

// Mass returns +Inf for immovable bodies.
func (rb *RigidBody) Mass() float64 {
	if !rb.HasFiniteMass() {
		return math.Inf(1)
	}
	return 1 / rb.inverseMass
}

// SetInertiaTensor stores the inverse of the body-space inertia tensor. A
// singular tensor leaves the stored inverse unmodified.
func (rb *RigidBody) SetInertiaTensor(it mgl64.Mat3) {
	invertInto(&rb.inverseInertiaTensor, it)
	rb.CalculateDerivedData()
}

func (rb *RigidBody) SetInverseInertiaTensor(iit mgl64.Mat3) {
	rb.inverseInertiaTensor = iit
	rb.CalculateDerivedData()
}

// InertiaTensor returns the body-space inertia tensor, or the zero matrix
// when the stored inverse is singular.
func (rb *RigidBody) InertiaTensor() mgl64.Mat3 {
	var it mgl64.Mat3
	invertInto(&it, rb.inverseInertiaTensor)
	return it
}

func (rb *RigidBody) InertiaTensorWorld() mgl64.Mat3 {
	var it mgl64.Mat3
	invertInto(&it, rb.inverseInertiaTensorWorld)
	return it
}

// PointToWorld converts a body-space point into world space.
func (rb *RigidBody) PointToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, rb.transform)
}

// PointToLocal converts a world-space point into body space.
func (rb *RigidBody) PointToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return rb.orientation.Conjugate().Rotate(p.Sub(rb.position))
}

func (rb *RigidBody) DirectionToWorld(d mgl64.Vec3) mgl64.Vec3 {
	return rb.orientation.Rotate(d)
}

func (rb *RigidBody) DirectionToLocal(d mgl64.Vec3) mgl64.Vec3 {
	return rb.orientation.Conjugate().Rotate(d)
}

// AddForce applies f at the centre of mass.
func (rb *RigidBody) AddForce(f mgl64.Vec3) {
	rb.force = rb.force.Add(f)
	rb.awake = true
}

// AddForceAtPoint applies f at a world-space point, producing torque about
// the centre of mass.
func (rb *RigidBody) AddForceAtPoint(f, point mgl64.Vec3) {
	arm := point.Sub(rb.position)
	rb.force = rb.force.Add(f)
	rb.torque = rb.torque.Add(arm.Cross(f))
	rb.awake = true
}

// AddForceAtBodyPoint applies a world-space force at a body-space point.
func (rb *RigidBody) AddForceAtBodyPoint(f, point mgl64.Vec3) {
	rb.AddForceAtPoint(f, rb.PointToWorld(point))
}

func (rb *RigidBody) AddTorque(t mgl64.Vec3) {
	rb.torque = rb.torque.Add(t)
	rb.awake = true
}

func (rb *RigidBody) ClearAccumulators() {
	rb.force = mgl64.Vec3{}
	rb.torque = mgl64.Vec3{}
}

// Kick adds dv to the linear velocity. A non-zero kick wakes the body.
func (rb *RigidBody) Kick(dv mgl64.Vec3) {
	if dv == (mgl64.Vec3{}) {
		return
	}
	rb.velocity = rb.velocity.Add(dv)
	if !rb.awake {
		rb.SetAwake(true)
	}
}

// Drift moves the body by dp and refreshes its derived data.
func (rb *RigidBody) Drift(dp mgl64.Vec3) {
	rb.position = rb.position.Add(dp)
	rb.CalculateDerivedData()
}

// Rotate adds dw to the angular velocity.
func (rb *RigidBody) Rotate(dw mgl64.Vec3) {
	rb.angularVelocity = rb.angularVelocity.Add(dw)
}

// SetAwake wakes the body with enough motion to stay awake for a few frames,
// or puts it to sleep and zeroes its velocities.
func (rb *RigidBody) SetAwake(awake bool) {
	if awake {
		rb.awake = true
		rb.motion = 2 * rb.sleepEpsilon
		return
	}
	rb.awake = false
	rb.velocity = mgl64.Vec3{}
	rb.angularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) SetCanSleep(canSleep bool) {
	rb.canSleep = canSleep
	if !canSleep && !rb.awake {
		rb.SetAwake(true)
	}
}

// UpdateMotion folds the current kinetic motion into the smoothed motion
// value and puts the body to sleep once it settles below the epsilon.
func (rb *RigidBody) UpdateMotion(dt float64) {
	if !rb.canSleep {
		return
	}

	current := rb.velocity.Dot(rb.velocity) + rb.angularVelocity.Dot(rb.angularVelocity)
	bias := math.Pow(0.5, dt)
	rb.motion = bias*rb.motion + (1-bias)*current

	if rb.motion < rb.sleepEpsilon {
		rb.SetAwake(false)
	} else if rb.motion > 10*rb.sleepEpsilon {
		rb.motion = 10 * rb.sleepEpsilon
	}
}

func invertInto(dst *mgl64.Mat3, m mgl64.Mat3) {
	if m.Det() == 0 {
		return
	}
	*dst = m.Inv()
}
