package octree

import "github.com/pkg/errors"

var (
	// ErrOutOfBounds is returned when a query point lies outside the root cube.
	ErrOutOfBounds = errors.New("point outside world bounds")
	// ErrMaxDepthExceeded is returned when a subdivision would create nodes
	// deeper than the configured limit.
	ErrMaxDepthExceeded = errors.New("maximum depth exceeded")
	// ErrNotMergeable is returned when a merge target is a leaf or has a child
	// that is itself subdivided.
	ErrNotMergeable = errors.New("node is not mergeable")
	// ErrNoHit is returned when a ray does not intersect the world.
	ErrNoHit = errors.New("ray hit nothing")
	// ErrNotLeaf is returned when a leaf-only operation receives an internal node.
	ErrNotLeaf = errors.New("node is not a leaf")
	// ErrStaleNode is returned for nodes that no longer belong to the tree,
	// typically references kept across a merge or subdivision above them.
	ErrStaleNode = errors.New("node is not part of the tree")
	// ErrInvalidAxis is returned for axes outside X, Y, Z.
	ErrInvalidAxis = errors.New("invalid axis")
	// ErrInvalidConfig is returned by New for unusable bounds or depth limits.
	ErrInvalidConfig = errors.New("invalid tree configuration")
)
