// Package integrators advances body state from accumulated forces.
//
// Particle integrators are split around the force pass so a world can run
//
//	integ.Predict(p, dt)
//	registry.UpdateForces(dt)
//	integ.Correct(p, dt)
//
// [Euler] does all of its work in Correct. [VelocityVerlet] half-kicks and
// drifts in Predict (MoveA) and finishes the kick with the fresh forces in
// Correct (MoveB). Rigid bodies take one combined [RigidEuler] step.
//
// Every step clears the accumulators it consumed. Durations must be
// positive; builds tagged physdebug panic when they are not.
package integrators
