package body

import "github.com/go-gl/mathgl/mgl64"

// CuboidInertia returns the inertia tensor of a solid cuboid with the given
// half extents.
func CuboidInertia(mass float64, halfSize mgl64.Vec3) mgl64.Mat3 {
	x2 := 4 * halfSize[0] * halfSize[0]
	y2 := 4 * halfSize[1] * halfSize[1]
	z2 := 4 * halfSize[2] * halfSize[2]
	k := mass / 12
	return mgl64.Diag3(mgl64.Vec3{k * (y2 + z2), k * (x2 + z2), k * (x2 + y2)})
}

// SphereInertia returns the inertia tensor of a solid sphere.
func SphereInertia(mass, radius float64) mgl64.Mat3 {
	i := 0.4 * mass * radius * radius
	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

// ShellInertia returns the inertia tensor of a thin spherical shell.
func ShellInertia(mass, radius float64) mgl64.Mat3 {
	i := 2.0 / 3.0 * mass * radius * radius
	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}
