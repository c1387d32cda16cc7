package bvh_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physcore/internal/bvh"
)

var _ = Describe("Sphere", func() {
	unit := bvh.Sphere{Radius: 1}

	DescribeTable("Overlaps",
		func(center mgl64.Vec3, radius float64, want bool) {
			other := bvh.Sphere{Center: center, Radius: radius}
			Expect(unit.Overlaps(other)).To(Equal(want))
			Expect(other.Overlaps(unit)).To(Equal(want))
		},
		Entry("separate", mgl64.Vec3{3, 0, 0}, 1.0, false),
		Entry("touching", mgl64.Vec3{2, 0, 0}, 1.0, true),
		Entry("intersecting", mgl64.Vec3{1, 1, 0}, 0.5, true),
		Entry("contained", mgl64.Vec3{0.1, 0, 0}, 0.2, true),
	)

	It("merges into the smallest enclosing sphere", func() {
		m := unit.Merge(bvh.Sphere{Center: mgl64.Vec3{4, 0, 0}, Radius: 1})
		Expect(m.Radius).To(BeNumerically("~", 3, 1e-12))
		Expect(m.Center[0]).To(BeNumerically("~", 2, 1e-12))
	})

	It("returns the larger sphere when one contains the other", func() {
		big := bvh.Sphere{Center: mgl64.Vec3{1, 0, 0}, Radius: 5}
		Expect(unit.Merge(big)).To(Equal(big))
		Expect(big.Merge(unit)).To(Equal(big))
		Expect(big.Growth(unit)).To(BeZero())
	})

	DescribeTable("Contains",
		func(other bvh.Sphere, want bool) {
			Expect(unit.Contains(other)).To(Equal(want))
		},
		Entry("itself", unit, true),
		Entry("inner sphere", bvh.Sphere{Center: mgl64.Vec3{0.5, 0, 0}, Radius: 0.5}, true),
		Entry("sticking out", bvh.Sphere{Center: mgl64.Vec3{0.6, 0, 0}, Radius: 0.5}, false),
	)

	It("contains both halves of a merge", func() {
		a, b := sphereAt(0, 0, 0, 1), sphereAt(3.3, -1.7, 0.2, 0.4)
		m := a.Merge(b)
		Expect(m.Contains(a)).To(BeTrue())
		Expect(m.Contains(b)).To(BeTrue())
	})

	It("measures size as volume", func() {
		Expect(unit.Size()).To(BeNumerically("~", 4.0/3.0*math.Pi, 1e-12))
	})
})

var _ = Describe("Box", func() {
	unit := bvh.Box{HalfSize: mgl64.Vec3{1, 1, 1}}

	DescribeTable("Overlaps",
		func(center mgl64.Vec3, want bool) {
			other := bvh.Box{Center: center, HalfSize: mgl64.Vec3{1, 1, 1}}
			Expect(unit.Overlaps(other)).To(Equal(want))
		},
		Entry("coincident", mgl64.Vec3{}, true),
		Entry("touching face", mgl64.Vec3{2, 0, 0}, true),
		Entry("apart on x only", mgl64.Vec3{2.5, 0, 0}, false),
		Entry("apart on z only", mgl64.Vec3{0, 0, -3}, false),
		Entry("diagonal overlap", mgl64.Vec3{1.5, 1.5, 1.5}, true),
	)

	It("merges corner to corner", func() {
		m := unit.Merge(bvh.BoxFromBounds(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 1, 1}))
		Expect(m.Min()).To(Equal(mgl64.Vec3{-1, -1, -1}))
		Expect(m.Max()).To(Equal(mgl64.Vec3{3, 1, 1}))
	})

	It("grows by the added surface area", func() {
		other := bvh.Box{Center: mgl64.Vec3{2, 0, 0}, HalfSize: mgl64.Vec3{1, 1, 1}}
		Expect(unit.Size()).To(BeNumerically("==", 8))
		Expect(unit.Area()).To(BeNumerically("==", 24))
		Expect(unit.Growth(other)).To(BeNumerically("~", 16, 1e-12))
		Expect(unit.Growth(unit)).To(BeZero())
	})

	It("still grows when flat", func() {
		flat := bvh.Box{HalfSize: mgl64.Vec3{1, 0, 1}}
		other := bvh.Box{Center: mgl64.Vec3{2, 0, 0}, HalfSize: mgl64.Vec3{1, 0, 1}}
		Expect(flat.Size()).To(BeZero())
		Expect(flat.Growth(other)).To(BeNumerically("~", 8, 1e-12))
	})

	DescribeTable("Contains",
		func(other bvh.Box, want bool) {
			Expect(unit.Contains(other)).To(Equal(want))
		},
		Entry("itself", unit, true),
		Entry("inner box", bvh.Box{Center: mgl64.Vec3{0.5, 0, 0}, HalfSize: mgl64.Vec3{0.5, 0.5, 0.5}}, true),
		Entry("sticking out on x", bvh.Box{Center: mgl64.Vec3{0.6, 0, 0}, HalfSize: mgl64.Vec3{0.5, 0.5, 0.5}}, false),
		Entry("flat box outside", bvh.Box{Center: mgl64.Vec3{0, 2, 0}, HalfSize: mgl64.Vec3{1, 0, 1}}, false),
	)
})
