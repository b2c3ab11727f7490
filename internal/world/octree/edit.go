package octree

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/internal/world/cube"
	"github.com/Faultbox/cubeworld/pkg/math"
)

// Every edit validates its arguments before touching the tree, so a failed
// edit leaves the tree exactly as it was.

// Subdivide turns a leaf into an internal node with eight half-sized leaves.
// The children inherit the leaf's corner colors and UVs; contractions reset.
func (t *Tree) Subdivide(leaf *Node) error {
	if err := t.checkLeaf(leaf); err != nil {
		return err
	}
	if leaf.depth+1 > t.maxDepth {
		return errors.Wrapf(ErrMaxDepthExceeded, "subdividing depth %d with limit %d", leaf.depth, t.maxDepth)
	}
	t.split(leaf)

	t.logger.Debug("subdivided",
		zap.Int("depth", leaf.depth),
		zap.Float32("half_extent", leaf.halfExtent),
	)
	return nil
}

func (t *Tree) split(n *Node) {
	var children [8]*Node
	for octant := range children {
		children[octant] = newLeafNode(n.cube.Split(octant))
	}
	n.kind = InternalNode
	n.children = &children
	n.cube = nil
}

// Merge collapses an internal node whose children are all leaves back into a
// single leaf. Corner attributes are averaged from the children; contractions
// reset.
func (t *Tree) Merge(node *Node) error {
	if !t.owns(node) {
		return ErrStaleNode
	}
	if node.IsLeaf() {
		return errors.Wrap(ErrNotMergeable, "node is already a leaf")
	}

	var leaves [8]*cube.Leaf
	for octant, child := range node.children {
		if !child.IsLeaf() {
			return errors.Wrapf(ErrNotMergeable, "child %d is subdivided", octant)
		}
		leaves[octant] = child.cube
	}

	node.cube = cube.Join(node.center, node.halfExtent, node.depth, leaves)
	node.kind = LeafNode
	node.children = nil

	t.logger.Debug("merged",
		zap.Int("depth", node.depth),
		zap.Float32("half_extent", node.halfExtent),
	)
	return nil
}

// ContractEdge sets an edge contraction on leaf and mirrors it onto the
// face neighbors sharing that edge, so the shared edge deforms identically
// on both sides. Neighbors at a different depth are left alone.
func (t *Tree) ContractEdge(leaf *Node, edge cube.EdgeID, value float32) error {
	if err := t.checkLeaf(leaf); err != nil {
		return err
	}
	if err := cube.ValidateContraction(edge, value); err != nil {
		return err
	}
	e, _ := cube.Edge(edge)

	// Resolve mirrors before mutating anything.
	type mirror struct {
		node *Node
		edge cube.EdgeID
	}
	var mirrors []mirror
	for axis := 0; axis < 3; axis++ {
		if axis == e.Axis {
			continue
		}
		bit := 1 << axis
		dir := Negative
		if e.From&bit != 0 {
			dir = Positive
		}
		neighbors, err := t.Neighbors(leaf, Axis(axis), dir)
		if err != nil {
			return err
		}
		if len(neighbors) != 1 || neighbors[0].depth != leaf.depth {
			if len(neighbors) > 0 {
				t.logger.Debug("skipping contraction mirror across depth change",
					zap.Stringer("axis", Axis(axis)),
					zap.Int("depth", leaf.depth),
					zap.Int("neighbors", len(neighbors)),
				)
			}
			continue
		}
		mirrors = append(mirrors, mirror{
			node: neighbors[0],
			edge: cube.EdgeAt(e.Axis, e.From^bit),
		})
	}

	_ = leaf.cube.SetContraction(edge, value)
	for _, m := range mirrors {
		_ = m.node.cube.SetContraction(m.edge, value)
	}
	return nil
}

// SubdivideToPoint subdivides along the path to p until the leaf containing
// p is at least depth deep, and returns that leaf.
func (t *Tree) SubdivideToPoint(p math.Vec3, depth int) (*Node, error) {
	if !t.Bounds().Contains(p) {
		return nil, errors.Wrapf(ErrOutOfBounds, "point %v", p)
	}
	if depth > t.maxDepth {
		return nil, errors.Wrapf(ErrMaxDepthExceeded, "target depth %d with limit %d", depth, t.maxDepth)
	}

	n := t.root
	splits := 0
	for {
		if n.IsLeaf() {
			if n.depth >= depth {
				break
			}
			t.split(n)
			splits++
		}
		n = n.childAt(p)
	}

	if splits > 0 {
		t.logger.Debug("subdivided to point", zap.Int("depth", n.depth), zap.Int("splits", splits))
	}
	return n, nil
}

// SubdivideRegion subdivides every leaf intersecting box until it is at
// least depth deep. It returns the number of leaves split.
func (t *Tree) SubdivideRegion(box picking.AABB, depth int) (int, error) {
	if depth > t.maxDepth {
		return 0, errors.Wrapf(ErrMaxDepthExceeded, "target depth %d with limit %d", depth, t.maxDepth)
	}

	splits := 0
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !n.Bounds().Intersects(box) {
			continue
		}
		if n.IsLeaf() {
			if n.depth >= depth {
				continue
			}
			t.split(n)
			splits++
		}
		stack = append(stack, n.children[:]...)
	}

	if splits > 0 {
		t.logger.Debug("subdivided region", zap.Int("depth", depth), zap.Int("splits", splits))
	}
	return splits, nil
}
