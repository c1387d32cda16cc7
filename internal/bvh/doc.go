// Package bvh is a bounding volume hierarchy used as the broad phase.
//
// The tree is generic over its bounding volume. [Sphere] and [Box] are
// provided; any type implementing [Volume] for itself works.
//
// Nodes live in a slice and refer to each other by index. Removed slots go
// on a free list and are reused by later inserts. A leaf keeps its [Handle]
// for as long as it stays in the tree, even when an insert splits it.
//
// The tree only proposes candidate pairs whose volumes overlap. Testing the
// real shapes is left to the caller.
package bvh
