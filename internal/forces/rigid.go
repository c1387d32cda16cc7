package forces

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physcore/internal/body"
)

type Gravity struct {
	Gravity mgl64.Vec3
}

func (g *Gravity) UpdateForce(rb *body.RigidBody, _ float64) {
	if !rb.HasFiniteMass() {
		return
	}
	rb.AddForce(g.Gravity.Mul(rb.Mass()))
}

// Spring connects two rigid bodies at body-space connection points. It only
// acts on the body it is registered against; register a mirrored Spring on
// Other for a symmetric pair.
type Spring struct {
	ConnectionPoint      mgl64.Vec3
	Other                *body.RigidBody
	OtherConnectionPoint mgl64.Vec3
	SpringConstant       float64
	RestLength           float64
}

func (s *Spring) UpdateForce(rb *body.RigidBody, _ float64) {
	lws := rb.PointToWorld(s.ConnectionPoint)
	ows := s.Other.PointToWorld(s.OtherConnectionPoint)

	f := hooke(lws.Sub(ows), s.RestLength, s.SpringConstant, false)
	if f == (mgl64.Vec3{}) {
		return
	}
	rb.AddForceAtPoint(f, lws)
}

// Buoyancy lifts a rigid body at a body-space centre of buoyancy.
type Buoyancy struct {
	CentreOfBuoyancy mgl64.Vec3
	MaxDepth         float64
	Volume           float64
	WaterHeight      float64
	LiquidDensity    float64
}

func (b *Buoyancy) UpdateForce(rb *body.RigidBody, _ float64) {
	centre := rb.PointToWorld(b.CentreOfBuoyancy)
	lift := buoyancy(centre[1], b.WaterHeight, b.MaxDepth, b.Volume, b.LiquidDensity)
	if lift == 0 {
		return
	}
	rb.AddForceAtPoint(mgl64.Vec3{0, lift, 0}, centre)
}

// Aero produces a force from the body's airspeed through an aerodynamic
// tensor expressed in body space, applied at a body-space point.
type Aero struct {
	Tensor   mgl64.Mat3
	Position mgl64.Vec3
	// Wind is read every step so the host can change it between frames.
	Wind *mgl64.Vec3
}

func (a *Aero) UpdateForce(rb *body.RigidBody, _ float64) {
	applyAero(rb, a.Tensor, a.Position, a.Wind)
}

func applyAero(rb *body.RigidBody, tensor mgl64.Mat3, at mgl64.Vec3, wind *mgl64.Vec3) {
	v := rb.Velocity()
	if wind != nil {
		v = v.Add(*wind)
	}

	bodyForce := tensor.Mul3x1(rb.DirectionToLocal(v))
	rb.AddForceAtBodyPoint(rb.DirectionToWorld(bodyForce), at)
}

// AeroControl is an Aero surface whose tensor blends between MinTensor,
// Tensor and MaxTensor as its control setting moves through [-1, 1].
type AeroControl struct {
	Aero
	MinTensor mgl64.Mat3
	MaxTensor mgl64.Mat3

	control float64
}

// SetControl clamps c to [-1, 1].
func (a *AeroControl) SetControl(c float64) {
	a.control = math.Max(-1, math.Min(1, c))
}

func (a *AeroControl) Control() float64 { return a.control }

// CurrentTensor returns the tensor for the current control setting.
func (a *AeroControl) CurrentTensor() mgl64.Mat3 {
	switch {
	case a.control <= -1:
		return a.MinTensor
	case a.control >= 1:
		return a.MaxTensor
	case a.control < 0:
		return lerp(a.MinTensor, a.Tensor, a.control+1)
	case a.control > 0:
		return lerp(a.Tensor, a.MaxTensor, a.control)
	}
	return a.Tensor
}

func (a *AeroControl) UpdateForce(rb *body.RigidBody, _ float64) {
	applyAero(rb, a.CurrentTensor(), a.Position, a.Wind)
}

func lerp(a, b mgl64.Mat3, t float64) mgl64.Mat3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}
