package octree

import (
	"iter"

	"github.com/Faultbox/cubeworld/internal/engine/picking"
)

// Walk visits every node in pre-order, children in octant order. Returning
// false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(*Node) bool) {
	walk(t.root, fn)
}

func walk(root *Node, fn func(*Node) bool) {
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(n) || n.IsLeaf() {
			continue
		}
		for i := 7; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// Leaves returns every leaf in octant order. The sequence can be ranged over
// any number of times; each pass starts from the root.
func (t *Tree) Leaves() iter.Seq[*Node] {
	return LeavesOf(t.root)
}

// LeavesOf returns the leaves of the subtree rooted at n in octant order.
func LeavesOf(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		stop := false
		walk(n, func(n *Node) bool {
			if stop {
				return false
			}
			if n.IsLeaf() && !yield(n) {
				stop = true
			}
			return true
		})
	}
}

// LeavesInRegion returns the leaves whose cubes intersect box, pruning
// subtrees outside it. Cubes touching the box only on a face are included.
func (t *Tree) LeavesInRegion(box picking.AABB) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		stack := []*Node{t.root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !n.Bounds().Intersects(box) {
				continue
			}
			if n.IsLeaf() {
				if !yield(n) {
					return
				}
				continue
			}
			for i := 7; i >= 0; i-- {
				stack = append(stack, n.children[i])
			}
		}
	}
}

// Stats summarizes the shape of the tree.
type Stats struct {
	Leaves   int
	Internal int
	MaxDepth int
}

// Stats counts nodes and reports the deepest level in use.
func (t *Tree) Stats() Stats {
	var s Stats
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() {
			s.Leaves++
		} else {
			s.Internal++
		}
		s.MaxDepth = max(s.MaxDepth, n.depth)
		return true
	})
	return s
}
