package bvh

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func flatBox(x float64) Box {
	return Box{Center: mgl64.Vec3{x, 0, 0}, HalfSize: mgl64.Vec3{0.5, 0, 0.5}}
}

func (t *Tree[V, B]) sibling(h Handle) int {
	p := t.nodes[h].parent
	if t.nodes[p].children[0] == int(h) {
		return t.nodes[p].children[1]
	}
	return t.nodes[p].children[0]
}

var _ = Describe("Tree internals", func() {
	It("places flat boxes next to their nearest neighbour", func() {
		tree := NewTree[Box, int]()
		near := tree.Insert(0, flatBox(0))
		tree.Insert(1, flatBox(10))
		h := tree.Insert(2, flatBox(0.5))

		Expect(tree.sibling(h)).To(Equal(int(near)))
		Expect(tree.Validate()).To(Succeed())
	})

	It("rejects an internal node that does not enclose its children", func() {
		tree := NewTree[Box, int]()
		first := tree.Insert(0, flatBox(0))
		tree.Insert(1, flatBox(3))
		Expect(tree.Validate()).To(Succeed())

		tree.nodes[tree.root].volume = tree.nodes[first].volume
		Expect(tree.Validate()).To(MatchError(ErrInvalidTree))
	})

	It("rejects a shrunken sphere node", func() {
		tree := NewTree[Sphere, int]()
		tree.Insert(0, Sphere{Radius: 1})
		tree.Insert(1, Sphere{Center: mgl64.Vec3{4, 0, 0}, Radius: 1})
		Expect(tree.Validate()).To(Succeed())

		tree.nodes[tree.root].volume.Radius -= 0.01
		Expect(tree.Validate()).To(MatchError(ErrInvalidTree))
	})
})
