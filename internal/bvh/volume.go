package bvh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Volume is a bounding volume that can be combined with others of its kind.
type Volume[V any] interface {
	Overlaps(other V) bool
	// Growth is how much the volume would increase if merged with other.
	Growth(other V) float64
	Size() float64
	Merge(other V) V
	// Contains reports whether other lies inside the volume, allowing for
	// rounding in Merge.
	Contains(other V) bool
}

// slack is the relative tolerance Contains allows for merge rounding.
const slack = 1e-9

var (
	_ Volume[Sphere] = Sphere{}
	_ Volume[Box]    = Box{}
)

type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Overlaps treats touching spheres as overlapping.
func (s Sphere) Overlaps(o Sphere) bool {
	reach := s.Radius + o.Radius
	return s.Center.Sub(o.Center).LenSqr() <= reach*reach
}

func (s Sphere) Size() float64 {
	return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
}

// Growth compares squared radii, which orders candidates the same way as
// surface area.
func (s Sphere) Growth(o Sphere) float64 {
	m := s.Merge(o)
	return m.Radius*m.Radius - s.Radius*s.Radius
}

func (s Sphere) Contains(o Sphere) bool {
	eps := slack * (1 + s.Radius + o.Radius)
	return s.Center.Sub(o.Center).Len()+o.Radius <= s.Radius+eps
}

// Merge returns the smallest sphere enclosing both.
func (s Sphere) Merge(o Sphere) Sphere {
	offset := o.Center.Sub(s.Center)
	dist2 := offset.LenSqr()
	dr := o.Radius - s.Radius

	if dr*dr >= dist2 {
		if s.Radius >= o.Radius {
			return s
		}
		return o
	}

	dist := math.Sqrt(dist2)
	radius := (dist + s.Radius + o.Radius) / 2
	return Sphere{
		Center: s.Center.Add(offset.Mul((radius - s.Radius) / dist)),
		Radius: radius,
	}
}

// Box is an axis-aligned box.
type Box struct {
	Center   mgl64.Vec3
	HalfSize mgl64.Vec3
}

// BoxFromBounds builds a box from its min and max corners.
func BoxFromBounds(min, max mgl64.Vec3) Box {
	return Box{
		Center:   min.Add(max).Mul(0.5),
		HalfSize: max.Sub(min).Mul(0.5),
	}
}

func (b Box) Min() mgl64.Vec3 { return b.Center.Sub(b.HalfSize) }
func (b Box) Max() mgl64.Vec3 { return b.Center.Add(b.HalfSize) }

// Overlaps tests every axis separately. Touching faces overlap.
func (b Box) Overlaps(o Box) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(b.Center[i]-o.Center[i]) > b.HalfSize[i]+o.HalfSize[i] {
			return false
		}
	}
	return true
}

func (b Box) Size() float64 {
	return 8 * b.HalfSize[0] * b.HalfSize[1] * b.HalfSize[2]
}

// Area returns the surface area. It stays positive for boxes that are
// flat along one axis, where the volume would be zero.
func (b Box) Area() float64 {
	h := b.HalfSize
	return 8 * (h[0]*h[1] + h[1]*h[2] + h[2]*h[0])
}

// Growth is the increase in surface area.
func (b Box) Growth(o Box) float64 {
	return b.Merge(o).Area() - b.Area()
}

func (b Box) Contains(o Box) bool {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	for i := 0; i < 3; i++ {
		eps := slack * (1 + math.Abs(b.Center[i]) + b.HalfSize[i])
		if omin[i] < bmin[i]-eps || omax[i] > bmax[i]+eps {
			return false
		}
	}
	return true
}

func (b Box) Merge(o Box) Box {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	var lo, hi mgl64.Vec3
	for i := 0; i < 3; i++ {
		lo[i] = math.Min(bmin[i], omin[i])
		hi[i] = math.Max(bmax[i], omax[i])
	}
	return BoxFromBounds(lo, hi)
}
