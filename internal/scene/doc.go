// Package scene builds the fixture worlds used by the CLI and the
// integration tests.
//
// A scene is a function that populates a fresh [world.ParticleWorld] or
// [world.RigidWorld] and wraps it in a [Runner]. Scenes are looked up by
// name through a [Registry]; there is no scene file format.
package scene
