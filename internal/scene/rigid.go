package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/forces"
	"github.com/san-kum/physcore/internal/links"
	"github.com/san-kum/physcore/internal/world"
)

type bodyDef struct {
	mass     float64
	inertia  mgl64.Mat3
	position mgl64.Vec3
	linear   float64
	angular  float64
}

func newRigidBody(s bodyDef) (*body.RigidBody, error) {
	rb := body.NewRigidBody()
	if err := rb.SetMass(s.mass); err != nil {
		return nil, err
	}
	rb.SetInertiaTensor(s.inertia)
	rb.SetPosition(s.position)
	rb.SetLinearDamping(s.linear)
	rb.SetAngularDamping(s.angular)
	return rb, nil
}

// Flight flies a glider-like aircraft with two controllable wings, a
// rudder and a fixed tail plane. A scripted pilot rocks the wings and the
// rudder so every control path is exercised.
func Flight(p Params) (Runner, error) {
	w, err := world.NewRigidWorld(p.World, p.Logger)
	if err != nil {
		return nil, err
	}

	aircraft, err := newRigidBody(bodyDef{
		mass:     2.5,
		inertia:  body.CuboidInertia(2.5, mgl64.Vec3{2, 1, 1}),
		position: mgl64.Vec3{0, 20, 0},
		linear:   0.8,
		angular:  0.8,
	})
	if err != nil {
		return nil, err
	}
	aircraft.SetVelocity(mgl64.Vec3{-5, 0, 0})
	w.AddBody(aircraft, 2)

	wind := &mgl64.Vec3{}
	wing := mgl64.Mat3FromRows(mgl64.Vec3{}, mgl64.Vec3{-1, -0.5, 0}, mgl64.Vec3{})
	wingMin := mgl64.Mat3FromRows(mgl64.Vec3{}, mgl64.Vec3{-0.995, -0.5, 0}, mgl64.Vec3{})
	wingMax := mgl64.Mat3FromRows(mgl64.Vec3{}, mgl64.Vec3{-1.005, -0.5, 0}, mgl64.Vec3{})

	right := &forces.AeroControl{
		Aero:      forces.Aero{Tensor: wing, Position: mgl64.Vec3{-1, 0, 2}, Wind: wind},
		MinTensor: wingMin,
		MaxTensor: wingMax,
	}
	left := &forces.AeroControl{
		Aero:      forces.Aero{Tensor: wing, Position: mgl64.Vec3{-1, 0, -2}, Wind: wind},
		MinTensor: wingMin,
		MaxTensor: wingMax,
	}
	rudder := &forces.AeroControl{
		Aero:      forces.Aero{Position: mgl64.Vec3{2, 0, 0}, Wind: wind},
		MinTensor: mgl64.Mat3FromRows(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{0.01, 0, 0}),
		MaxTensor: mgl64.Mat3FromRows(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{-0.01, 0, 0}),
	}
	tail := &forces.Aero{
		Tensor:   mgl64.Mat3FromRows(mgl64.Vec3{}, mgl64.Vec3{-1, -0.5, 0}, mgl64.Vec3{0, 0, -0.1}),
		Position: mgl64.Vec3{2, 0, 0},
		Wind:     wind,
	}
	thrust := forces.GeneratorFunc[*body.RigidBody](func(rb *body.RigidBody, _ float64) {
		rb.AddForce(rb.DirectionToWorld(mgl64.Vec3{-10, 0, 0}))
	})

	reg := w.Registry()
	reg.Add(aircraft, &forces.Gravity{Gravity: earthGravity})
	reg.Add(aircraft, left)
	reg.Add(aircraft, right)
	reg.Add(aircraft, rudder)
	reg.Add(aircraft, tail)
	reg.Add(aircraft, thrust)

	floor := links.NewGround(w.Bodies)
	floor.Clearance = 1
	w.AddContactGenerator(floor)

	pilot := func(t, _ float64) {
		roll := 0.3 * math.Sin(0.5*t)
		left.SetControl(roll)
		right.SetControl(-roll)
		rudder.SetControl(0.2 * math.Sin(0.25*t))
		wind[2] = math.Sin(0.1 * t)
	}

	return &rigidRunner{name: "flight", w: w, before: pilot}, nil
}

// Raft floats two flat boxes on water at height zero, each supported at its
// corners, tied together by a spring and pushed by a sail on the first.
func Raft(p Params) (Runner, error) {
	w, err := world.NewRigidWorld(p.World, p.Logger)
	if err != nil {
		return nil, err
	}

	halfSize := mgl64.Vec3{1, 0.25, 1}
	reg := w.Registry()
	gravity := &forces.Gravity{Gravity: earthGravity}

	rafts := make([]*body.RigidBody, 2)
	for i := range rafts {
		rb, err := newRigidBody(bodyDef{
			mass:     100,
			inertia:  body.CuboidInertia(100, halfSize),
			position: mgl64.Vec3{3 * float64(i), 0.5, 0},
			linear:   0.8,
			angular:  0.8,
		})
		if err != nil {
			return nil, err
		}
		rafts[i] = rb
		w.AddBody(rb, 1.5)
		reg.Add(rb, gravity)

		for _, corner := range []mgl64.Vec3{{0.8, 0, 0.8}, {0.8, 0, -0.8}, {-0.8, 0, 0.8}, {-0.8, 0, -0.8}} {
			reg.Add(rb, &forces.Buoyancy{
				CentreOfBuoyancy: corner,
				MaxDepth:         0.25,
				Volume:           0.5,
				WaterHeight:      0,
				LiquidDensity:    1000,
			})
		}
	}

	reg.Add(rafts[0], &forces.Spring{
		ConnectionPoint:      mgl64.Vec3{1, 0, 0},
		Other:                rafts[1],
		OtherConnectionPoint: mgl64.Vec3{-1, 0, 0},
		SpringConstant:       200,
		RestLength:           1,
	})
	reg.Add(rafts[1], &forces.Spring{
		ConnectionPoint:      mgl64.Vec3{-1, 0, 0},
		Other:                rafts[0],
		OtherConnectionPoint: mgl64.Vec3{1, 0, 0},
		SpringConstant:       200,
		RestLength:           1,
	})

	wind := &mgl64.Vec3{0, 0, -5}
	reg.Add(rafts[0], &forces.Aero{
		Tensor:   mgl64.Mat3FromRows(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}),
		Position: mgl64.Vec3{0, 1, 0},
		Wind:     wind,
	})

	return &rigidRunner{name: "raft", w: w}, nil
}

const (
	pileLayers = 3
	pileRadius = 0.5
)

// Pile drops layers of four spheres onto the ground. Gravity is a constant
// acceleration rather than a force so settled spheres can fall asleep.
func Pile(p Params) (Runner, error) {
	w, err := world.NewRigidWorld(p.World, p.Logger)
	if err != nil {
		return nil, err
	}

	for layer := 0; layer < pileLayers; layer++ {
		shift := 0.15 * float64(layer%2)
		for i := 0; i < 4; i++ {
			rb, err := newRigidBody(bodyDef{
				mass:    1,
				inertia: body.SphereInertia(1, pileRadius),
				position: mgl64.Vec3{
					float64(i%2)*1.1 + shift,
					pileRadius + 0.05 + 1.2*float64(layer),
					float64(i/2)*1.1 - shift,
				},
				linear:  0.95,
				angular: 0.8,
			})
			if err != nil {
				return nil, err
			}
			rb.SetAcceleration(earthGravity)
			rb.SetCanSleep(true)
			w.AddBody(rb, pileRadius)
		}
	}

	floor := links.NewGround(w.Bodies)
	floor.Clearance = pileRadius
	w.AddContactGenerator(floor)

	return &rigidRunner{name: "pile", w: w}, nil
}
