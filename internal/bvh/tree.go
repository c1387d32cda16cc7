package bvh

import (
	"errors"
	"fmt"
)

// ErrInvalidTree is wrapped by every structural error reported by Validate.
var ErrInvalidTree = errors.New("bvh: invalid tree")

// Handle identifies a leaf.
type Handle int

const (
	NoHandle Handle = -1
	none            = -1
)

type Pair[T any] struct {
	A, B T
}

type node[V Volume[V], B comparable] struct {
	volume   V
	body     B
	parent   int
	children [2]int
	leaf     bool
	inUse    bool
}

// Tree is not safe for concurrent use.
type Tree[V Volume[V], B comparable] struct {
	nodes  []node[V, B]
	free   []int
	root   int
	leaves int
}

func NewTree[V Volume[V], B comparable]() *Tree[V, B] {
	return &Tree[V, B]{root: none}
}

// Len returns the number of leaves.
func (t *Tree[V, B]) Len() int { return t.leaves }

func (t *Tree[V, B]) Reset() {
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.root = none
	t.leaves = 0
}

// Body returns the body stored at a leaf.
func (t *Tree[V, B]) Body(h Handle) B { return t.nodes[h].body }

func (t *Tree[V, B]) Volume(h Handle) V { return t.nodes[h].volume }

// Insert adds a leaf and returns its handle.
func (t *Tree[V, B]) Insert(body B, volume V) Handle {
	leaf := t.alloc(node[V, B]{
		volume:   volume,
		body:     body,
		leaf:     true,
		parent:   none,
		children: [2]int{none, none},
	})
	t.leaves++

	if t.root == none {
		t.root = leaf
		return Handle(leaf)
	}

	cur := t.root
	for !t.nodes[cur].leaf {
		c := t.nodes[cur].children
		if t.nodes[c[0]].volume.Growth(volume) < t.nodes[c[1]].volume.Growth(volume) {
			cur = c[0]
		} else {
			cur = c[1]
		}
	}

	// Split: a new internal node takes the old leaf's place, so existing
	// handles stay valid.
	parent := t.nodes[cur].parent
	split := t.alloc(node[V, B]{
		volume:   t.nodes[cur].volume.Merge(volume),
		parent:   parent,
		children: [2]int{cur, leaf},
	})
	t.replaceChild(parent, cur, split)
	t.nodes[cur].parent = split
	t.nodes[leaf].parent = split

	t.refit(parent)
	return Handle(leaf)
}

// Remove deletes a leaf. Its sibling is promoted into the parent's slot.
func (t *Tree[V, B]) Remove(h Handle) {
	leaf := int(h)
	if leaf < 0 || leaf >= len(t.nodes) || !t.nodes[leaf].inUse || !t.nodes[leaf].leaf {
		return
	}
	t.leaves--

	parent := t.nodes[leaf].parent
	if parent == none {
		t.root = none
		t.release(leaf)
		return
	}

	sibling := t.nodes[parent].children[0]
	if sibling == leaf {
		sibling = t.nodes[parent].children[1]
	}

	grand := t.nodes[parent].parent
	t.nodes[sibling].parent = grand
	t.replaceChild(grand, parent, sibling)

	t.release(leaf)
	t.release(parent)
	t.refit(grand)
}

// Update moves a leaf to a new volume and returns its new handle.
func (t *Tree[V, B]) Update(h Handle, volume V) Handle {
	body := t.nodes[h].body
	t.Remove(h)
	return t.Insert(body, volume)
}

// PotentialContacts returns up to limit pairs of leaves whose volumes
// overlap.
func (t *Tree[V, B]) PotentialContacts(limit int) []Pair[B] {
	return t.AppendPotentialContacts(nil, limit)
}

// AppendPotentialContacts appends up to limit candidate pairs to dst.
func (t *Tree[V, B]) AppendPotentialContacts(dst []Pair[B], limit int) []Pair[B] {
	return t.AppendPotentialContactsFunc(dst, limit, nil)
}

// AppendPotentialContactsFunc is AppendPotentialContacts restricted to pairs
// for which keep returns true. Rejected pairs do not count towards limit.
// A nil keep accepts every pair.
func (t *Tree[V, B]) AppendPotentialContactsFunc(dst []Pair[B], limit int, keep func(a, b B) bool) []Pair[B] {
	if t.root == none || limit <= 0 {
		return dst
	}
	w := walk[V, B]{t: t, capAt: len(dst) + limit, keep: keep}
	return w.within(dst, t.root)
}

type walk[V Volume[V], B comparable] struct {
	t     *Tree[V, B]
	capAt int
	keep  func(a, b B) bool
}

func (w *walk[V, B]) within(dst []Pair[B], i int) []Pair[B] {
	n := &w.t.nodes[i]
	if n.leaf || len(dst) >= w.capAt {
		return dst
	}
	c := n.children
	dst = w.within(dst, c[0])
	dst = w.within(dst, c[1])
	return w.between(dst, c[0], c[1])
}

func (w *walk[V, B]) between(dst []Pair[B], a, b int) []Pair[B] {
	if len(dst) >= w.capAt {
		return dst
	}
	na, nb := &w.t.nodes[a], &w.t.nodes[b]
	if !na.volume.Overlaps(nb.volume) {
		return dst
	}
	if na.leaf && nb.leaf {
		if w.keep != nil && !w.keep(na.body, nb.body) {
			return dst
		}
		return append(dst, Pair[B]{A: na.body, B: nb.body})
	}

	// Descend into the larger volume first.
	if nb.leaf || (!na.leaf && na.volume.Size() >= nb.volume.Size()) {
		dst = w.between(dst, na.children[0], b)
		return w.between(dst, na.children[1], b)
	}
	dst = w.between(dst, a, nb.children[0])
	return w.between(dst, a, nb.children[1])
}

// Validate checks parent links, the binary shape and that every internal
// volume encloses its children.
func (t *Tree[V, B]) Validate() error {
	if t.root == none {
		if t.leaves != 0 {
			return fmt.Errorf("%w: empty tree reports %d leaves", ErrInvalidTree, t.leaves)
		}
		return nil
	}
	if t.nodes[t.root].parent != none {
		return fmt.Errorf("%w: root %d has parent %d", ErrInvalidTree, t.root, t.nodes[t.root].parent)
	}

	leaves := 0
	stack := []int{t.root}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[i]
		if !n.inUse {
			return fmt.Errorf("%w: node %d is on the free list", ErrInvalidTree, i)
		}
		if n.leaf {
			leaves++
			continue
		}
		for _, c := range n.children {
			if c == none {
				return fmt.Errorf("%w: internal node %d has a missing child", ErrInvalidTree, i)
			}
			if t.nodes[c].parent != i {
				return fmt.Errorf("%w: node %d does not point back to parent %d", ErrInvalidTree, c, i)
			}
			if !n.volume.Contains(t.nodes[c].volume) {
				return fmt.Errorf("%w: node %d does not enclose child %d", ErrInvalidTree, i, c)
			}
			stack = append(stack, c)
		}
	}

	if leaves != t.leaves {
		return fmt.Errorf("%w: reached %d leaves, expected %d", ErrInvalidTree, leaves, t.leaves)
	}
	return nil
}

func (t *Tree[V, B]) alloc(n node[V, B]) int {
	n.inUse = true
	if k := len(t.free); k > 0 {
		i := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[i] = n
		return i
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

func (t *Tree[V, B]) release(i int) {
	t.nodes[i] = node[V, B]{parent: none, children: [2]int{none, none}}
	t.free = append(t.free, i)
}

func (t *Tree[V, B]) replaceChild(parent, old, repl int) {
	if parent == none {
		t.root = repl
		return
	}
	c := &t.nodes[parent].children
	if c[0] == old {
		c[0] = repl
	} else {
		c[1] = repl
	}
}

func (t *Tree[V, B]) refit(i int) {
	for i != none {
		c := t.nodes[i].children
		t.nodes[i].volume = t.nodes[c[0]].volume.Merge(t.nodes[c[1]].volume)
		i = t.nodes[i].parent
	}
}
