// Package forces accumulates forces and torques onto bodies before they are
// integrated.
//
// A [Generator] computes one force law for one body per step. A [Registry]
// pairs bodies with generators and applies every pair once per frame:
//
//	reg := forces.NewRegistry[*body.Particle]()
//	reg.Add(p, &forces.ParticleGravity{Gravity: mgl64.Vec3{0, -9.81, 0}})
//	reg.UpdateForces(dt)
//
// Generators are additive. Calling one twice in a step doubles its effect.
package forces
