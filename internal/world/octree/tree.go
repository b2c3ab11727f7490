// Package octree maintains the world as an oct-tree of deformable cubes and
// provides the spatial queries and edit operations that keep it consistent
// while it is mutated live.
//
// A Tree is not safe for concurrent use. Reads (queries, traversals) may run
// in parallel with each other but never with an edit; node pointers and
// iterators obtained before an edit must not be used after it. The edit
// package wraps a Tree with the locking for this discipline.
package octree

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/internal/world/cube"
	"github.com/Faultbox/cubeworld/pkg/math"
)

const (
	// DefaultMaxDepth is the depth limit used when no WithMaxDepth option is given.
	DefaultMaxDepth = 6
	// MaxSupportedDepth bounds WithMaxDepth. Deeper cubes run out of float32
	// precision relative to the root extent.
	MaxSupportedDepth = 20
)

// Tree is the root of the world oct-tree. Its bounds are fixed at creation.
type Tree struct {
	root     *Node
	maxDepth int
	palette  cube.Palette
	logger   *zap.Logger
}

// Option configures a Tree.
type Option func(*Tree)

// WithMaxDepth sets the deepest level subdivision may reach.
func WithMaxDepth(depth int) Option {
	return func(t *Tree) {
		t.maxDepth = depth
	}
}

// WithPalette sets the corner colors of the initial root cube.
func WithPalette(p cube.Palette) Option {
	return func(t *Tree) {
		t.palette = p
	}
}

// WithLogger sets the logger edits report to.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tree) {
		t.logger = logger
	}
}

// New creates a tree whose root is a single undeformed leaf cube.
func New(center math.Vec3, halfExtent float32, opts ...Option) (*Tree, error) {
	if !(halfExtent > 0) || math32.IsInf(halfExtent, 0) {
		return nil, errors.Wrapf(ErrInvalidConfig, "half extent %v must be positive and finite", halfExtent)
	}

	t := &Tree{
		maxDepth: DefaultMaxDepth,
		palette:  cube.DefaultPalette,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.maxDepth < 0 || t.maxDepth > MaxSupportedDepth {
		return nil, errors.Wrapf(ErrInvalidConfig, "max depth %d not in [0, %d]", t.maxDepth, MaxSupportedDepth)
	}

	t.root = newLeafNode(cube.NewWithPalette(center, halfExtent, 0, t.palette))
	return t, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// MaxDepth returns the configured depth limit.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// Center returns the world center.
func (t *Tree) Center() math.Vec3 { return t.root.center }

// HalfExtent returns half the world side length.
func (t *Tree) HalfExtent() float32 { return t.root.halfExtent }

// Bounds returns the world bounding cube.
func (t *Tree) Bounds() picking.AABB { return t.root.Bounds() }

// FindLeaf returns the leaf whose cube contains p.
func (t *Tree) FindLeaf(p math.Vec3) (*Node, error) {
	if !t.Bounds().Contains(p) {
		return nil, errors.Wrapf(ErrOutOfBounds, "point %v", p)
	}
	n := t.root
	for !n.IsLeaf() {
		n = n.childAt(p)
	}
	return n, nil
}

// NodeAt returns the node containing p at the given depth, or the leaf
// containing p if the tree is coarser there.
func (t *Tree) NodeAt(p math.Vec3, depth int) (*Node, error) {
	if !t.Bounds().Contains(p) {
		return nil, errors.Wrapf(ErrOutOfBounds, "point %v", p)
	}
	return t.descend(p, depth), nil
}

func (t *Tree) descend(p math.Vec3, depth int) *Node {
	n := t.root
	for !n.IsLeaf() && n.depth < depth {
		n = n.childAt(p)
	}
	return n
}

// owns reports whether n is currently part of the tree.
func (t *Tree) owns(n *Node) bool {
	if n == nil || !t.Bounds().Contains(n.center) {
		return false
	}
	return t.descend(n.center, n.depth) == n
}

func (t *Tree) checkLeaf(n *Node) error {
	if !t.owns(n) {
		return ErrStaleNode
	}
	if !n.IsLeaf() {
		return errors.Wrapf(ErrNotLeaf, "node at depth %d", n.depth)
	}
	return nil
}
