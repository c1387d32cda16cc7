// Package body defines the simulated bodies and their kinematic state.
//
// Two kinds of body exist:
//
//   - [Particle]: point mass with position, velocity and a force accumulator
//   - [RigidBody]: extended mass with orientation, angular velocity, a torque
//     accumulator and an inertia tensor
//
// Bodies are created and owned by the host. Force generators add to their
// accumulators, integrators advance them, and contact resolution kicks and
// drifts them. An inverse mass of zero marks a body as immovable.
//
// # Derived data
//
// A rigid body caches its world transform and world-space inverse inertia
// tensor. Both are valid immediately after [RigidBody.CalculateDerivedData];
// every setter that changes position or orientation refreshes them.
//
// # Sleep
//
// A rigid body that can sleep tracks a smoothed motion value. When it drops
// below the sleep epsilon injected by its world the body stops integrating
// until a force, torque or impulse wakes it.
package body
