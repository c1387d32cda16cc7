package bvh_test

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physcore/internal/bvh"
)

type item struct {
	id  int
	vol bvh.Sphere
}

func sphereAt(x, y, z, r float64) bvh.Sphere {
	return bvh.Sphere{Center: mgl64.Vec3{x, y, z}, Radius: r}
}

// key orders a pair so results can be compared as sets.
func key(p bvh.Pair[*item]) [2]int {
	if p.A.id < p.B.id {
		return [2]int{p.A.id, p.B.id}
	}
	return [2]int{p.B.id, p.A.id}
}

func bruteForce(items map[int]*item) map[[2]int]bool {
	pairs := make(map[[2]int]bool)
	for _, a := range items {
		for _, b := range items {
			if a.id < b.id && a.vol.Overlaps(b.vol) {
				pairs[[2]int{a.id, b.id}] = true
			}
		}
	}
	return pairs
}

var _ = Describe("Tree", func() {
	var tree *bvh.Tree[bvh.Sphere, *item]

	BeforeEach(func() {
		tree = bvh.NewTree[bvh.Sphere, *item]()
	})

	It("starts empty", func() {
		Expect(tree.Len()).To(BeZero())
		Expect(tree.Validate()).To(Succeed())
		Expect(tree.PotentialContacts(10)).To(BeEmpty())
	})

	It("holds a single leaf without pairs", func() {
		a := &item{id: 1, vol: sphereAt(0, 0, 0, 1)}
		h := tree.Insert(a, a.vol)

		Expect(tree.Len()).To(Equal(1))
		Expect(tree.Body(h)).To(BeIdenticalTo(a))
		Expect(tree.PotentialContacts(10)).To(BeEmpty())
		Expect(tree.Validate()).To(Succeed())
	})

	It("pairs overlapping leaves only", func() {
		a := &item{id: 1, vol: sphereAt(0, 0, 0, 1)}
		b := &item{id: 2, vol: sphereAt(1.5, 0, 0, 1)}
		c := &item{id: 3, vol: sphereAt(10, 0, 0, 1)}
		for _, it := range []*item{a, b, c} {
			tree.Insert(it, it.vol)
		}

		pairs := tree.PotentialContacts(10)
		Expect(pairs).To(HaveLen(1))
		Expect(key(pairs[0])).To(Equal([2]int{1, 2}))
	})

	It("finds pairs that straddle sibling subtrees", func() {
		// Two loose clusters whose inner members touch across the split.
		items := []*item{
			{id: 1, vol: sphereAt(-3, 0, 0, 0.5)},
			{id: 2, vol: sphereAt(-0.6, 0, 0, 0.7)},
			{id: 3, vol: sphereAt(0.6, 0, 0, 0.7)},
			{id: 4, vol: sphereAt(3, 0, 0, 0.5)},
		}
		byID := make(map[int]*item)
		for _, it := range items {
			tree.Insert(it, it.vol)
			byID[it.id] = it
		}

		got := make(map[[2]int]bool)
		for _, p := range tree.PotentialContacts(100) {
			got[key(p)] = true
		}
		Expect(got).To(Equal(bruteForce(byID)))
		Expect(got).To(HaveKey([2]int{2, 3}))
	})

	It("keeps leaf handles stable across splits", func() {
		a := &item{id: 1, vol: sphereAt(0, 0, 0, 1)}
		ha := tree.Insert(a, a.vol)
		for i := 2; i < 20; i++ {
			it := &item{id: i, vol: sphereAt(float64(i), 0, 0, 1)}
			tree.Insert(it, it.vol)
		}

		Expect(tree.Body(ha)).To(BeIdenticalTo(a))
		Expect(tree.Volume(ha)).To(Equal(a.vol))
	})

	It("promotes the sibling on removal", func() {
		a := &item{id: 1, vol: sphereAt(0, 0, 0, 1)}
		b := &item{id: 2, vol: sphereAt(1, 0, 0, 1)}
		c := &item{id: 3, vol: sphereAt(2, 0, 0, 1)}
		ha := tree.Insert(a, a.vol)
		hb := tree.Insert(b, b.vol)
		tree.Insert(c, c.vol)

		tree.Remove(hb)
		Expect(tree.Len()).To(Equal(2))
		Expect(tree.Validate()).To(Succeed())

		pairs := tree.PotentialContacts(10)
		Expect(pairs).To(HaveLen(1))
		Expect(key(pairs[0])).To(Equal([2]int{1, 3}))

		tree.Remove(ha)
		Expect(tree.Len()).To(Equal(1))
		Expect(tree.Validate()).To(Succeed())
		Expect(tree.PotentialContacts(10)).To(BeEmpty())
	})

	It("ignores removal of unknown handles", func() {
		a := &item{id: 1, vol: sphereAt(0, 0, 0, 1)}
		h := tree.Insert(a, a.vol)
		tree.Remove(h)
		tree.Remove(h)
		tree.Remove(bvh.NoHandle)

		Expect(tree.Len()).To(BeZero())
		Expect(tree.Validate()).To(Succeed())
	})

	It("moves a leaf on update", func() {
		a := &item{id: 1, vol: sphereAt(0, 0, 0, 1)}
		b := &item{id: 2, vol: sphereAt(5, 0, 0, 1)}
		ha := tree.Insert(a, a.vol)
		tree.Insert(b, b.vol)
		Expect(tree.PotentialContacts(10)).To(BeEmpty())

		ha = tree.Update(ha, sphereAt(4, 0, 0, 1))
		Expect(tree.Body(ha)).To(BeIdenticalTo(a))
		Expect(tree.PotentialContacts(10)).To(HaveLen(1))
		Expect(tree.Validate()).To(Succeed())
	})

	It("stops at the limit", func() {
		for i := 0; i < 10; i++ {
			it := &item{id: i, vol: sphereAt(0, 0, 0, 1)}
			tree.Insert(it, it.vol)
		}

		Expect(tree.PotentialContacts(100)).To(HaveLen(45))
		Expect(tree.PotentialContacts(7)).To(HaveLen(7))
		Expect(tree.PotentialContacts(0)).To(BeEmpty())

		dst := make([]bvh.Pair[*item], 3)
		Expect(tree.AppendPotentialContacts(dst, 4)).To(HaveLen(7))
	})

	It("fills the limit with kept pairs only", func() {
		for i := 0; i < 10; i++ {
			it := &item{id: i, vol: sphereAt(0, 0, 0, 1)}
			tree.Insert(it, it.vol)
		}
		odd := func(a, b *item) bool { return a.id%2 == 1 || b.id%2 == 1 }

		// 10 of the 45 pairs join two even ids.
		Expect(tree.AppendPotentialContactsFunc(nil, 100, odd)).To(HaveLen(35))

		pairs := tree.AppendPotentialContactsFunc(nil, 30, odd)
		Expect(pairs).To(HaveLen(30))
		for _, p := range pairs {
			Expect(odd(p.A, p.B)).To(BeTrue())
		}
		Expect(tree.AppendPotentialContactsFunc(nil, 100, nil)).To(HaveLen(45))
	})

	It("resets to empty", func() {
		for i := 0; i < 5; i++ {
			it := &item{id: i, vol: sphereAt(float64(i), 0, 0, 1)}
			tree.Insert(it, it.vol)
		}
		tree.Reset()

		Expect(tree.Len()).To(BeZero())
		Expect(tree.Validate()).To(Succeed())
		Expect(tree.PotentialContacts(10)).To(BeEmpty())
	})

	It("stays valid and complete under random churn", func() {
		rng := rand.New(rand.NewSource(7))
		live := make(map[int]*item)
		handles := make(map[int]bvh.Handle)
		next := 0

		for step := 0; step < 400; step++ {
			switch {
			case len(live) > 0 && rng.Intn(3) == 0:
				for id := range live {
					tree.Remove(handles[id])
					delete(live, id)
					delete(handles, id)
					break
				}
			case len(live) > 0 && rng.Intn(4) == 0:
				for id, it := range live {
					it.vol = sphereAt(rng.Float64()*20, rng.Float64()*20, rng.Float64()*20, 0.5+rng.Float64())
					handles[id] = tree.Update(handles[id], it.vol)
					break
				}
			default:
				it := &item{
					id:  next,
					vol: sphereAt(rng.Float64()*20, rng.Float64()*20, rng.Float64()*20, 0.5+rng.Float64()),
				}
				next++
				live[it.id] = it
				handles[it.id] = tree.Insert(it, it.vol)
			}

			Expect(tree.Validate()).To(Succeed(), "step %d", step)
			Expect(tree.Len()).To(Equal(len(live)))
		}

		got := make(map[[2]int]bool)
		for _, p := range tree.PotentialContacts(1 << 20) {
			Expect(p.A.vol.Overlaps(p.B.vol)).To(BeTrue())
			k := key(p)
			Expect(got).NotTo(HaveKey(k), "pair reported twice")
			got[k] = true
		}
		Expect(got).To(Equal(bruteForce(live)))
	})
})

var _ = Describe("Tree of boxes", func() {
	It("works with axis-aligned boxes", func() {
		tree := bvh.NewTree[bvh.Box, int]()
		unit := mgl64.Vec3{0.5, 0.5, 0.5}
		tree.Insert(1, bvh.Box{Center: mgl64.Vec3{0, 0, 0}, HalfSize: unit})
		tree.Insert(2, bvh.Box{Center: mgl64.Vec3{0.9, 0, 0}, HalfSize: unit})
		tree.Insert(3, bvh.Box{Center: mgl64.Vec3{0.9, 0.9, 5}, HalfSize: unit})

		Expect(tree.Validate()).To(Succeed())
		Expect(tree.PotentialContacts(10)).To(ConsistOf(bvh.Pair[int]{A: 1, B: 2}))
	})
})
