// Package world drives the per-frame physics pipeline.
//
// A world owns its bodies, a force registry, an integrator, a contact
// resolver and a list of contact generators. The host calls, once per
// frame:
//
//	w.StartFrame()
//	if err := w.RunPhysics(dt); err != nil { ... }
//
// [ParticleWorld] integrates particles in two phases around the force pass
// so velocity-Verlet sees fresh forces. [RigidWorld] integrates rigid bodies
// in one step and adds a BVH broad phase over bounding spheres.
//
// Contact buffers are allocated once from [Config.MaxContacts] and reused.
// When generators produce more contacts than fit, the extra ones are dropped
// for that frame and [Stats.Truncated] is set.
//
// # Thread Safety
//
// A world is NOT safe for concurrent use. Independent worlds may be stepped
// from different goroutines.
package world
