package octree

import (
	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/internal/world/cube"
	"github.com/Faultbox/cubeworld/pkg/math"
)

// NodeKind is the state of a node.
type NodeKind uint8

const (
	// LeafNode wraps a single deformable cube.
	LeafNode NodeKind = iota
	// InternalNode owns exactly eight children, one per octant.
	InternalNode
)

func (k NodeKind) String() string {
	switch k {
	case LeafNode:
		return "leaf"
	case InternalNode:
		return "internal"
	default:
		return "unknown"
	}
}

// Node is one cell of the tree. It is either a leaf holding a cube or an
// internal node holding eight children; the kind only changes through the
// edit operations on Tree.
type Node struct {
	kind       NodeKind
	center     math.Vec3
	halfExtent float32
	depth      int

	children *[8]*Node // set for InternalNode
	cube     *cube.Leaf
}

func newLeafNode(c *cube.Leaf) *Node {
	return &Node{
		kind:       LeafNode,
		center:     c.Center(),
		halfExtent: c.HalfExtent(),
		depth:      c.Depth(),
		cube:       c,
	}
}

// Kind returns whether the node is a leaf or an internal node.
func (n *Node) Kind() NodeKind { return n.kind }

// IsLeaf reports whether the node wraps a cube.
func (n *Node) IsLeaf() bool { return n.kind == LeafNode }

// Center returns the center of the node's cube.
func (n *Node) Center() math.Vec3 { return n.center }

// HalfExtent returns half of the node's side length.
func (n *Node) HalfExtent() float32 { return n.halfExtent }

// Depth returns the distance from the root, which has depth 0.
func (n *Node) Depth() int { return n.depth }

// Bounds returns the node's bounding cube.
func (n *Node) Bounds() picking.AABB {
	return picking.CubeAABB(n.center, n.halfExtent)
}

// Child returns the child in the given octant, or nil for leaves and
// out-of-range octants.
func (n *Node) Child(octant int) *Node {
	if n.kind != InternalNode || octant < 0 || octant >= 8 {
		return nil
	}
	return n.children[octant]
}

// Cube returns the leaf cube, or nil for internal nodes.
func (n *Node) Cube() *cube.Leaf {
	return n.cube
}

// octant returns the index of the child containing p. Points on a splitting
// plane go to the positive side.
func (n *Node) octant(p math.Vec3) int {
	i := 0
	if p.X >= n.center.X {
		i |= 1
	}
	if p.Y >= n.center.Y {
		i |= 2
	}
	if p.Z >= n.center.Z {
		i |= 4
	}
	return i
}

// childAt returns the child containing p. It panics on leaves, which would
// mean a traversal lost track of the node kind.
func (n *Node) childAt(p math.Vec3) *Node {
	if n.kind != InternalNode || n.children == nil {
		panic("octree: descending into a " + n.kind.String() + " node")
	}
	return n.children[n.octant(p)]
}
