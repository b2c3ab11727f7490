package octree

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/pkg/math"
)

// Hit is the result of a successful raycast.
type Hit struct {
	Node     *Node
	Point    math.Vec3
	Distance float32 // along the normalized direction
}

// Raycast returns the nearest leaf the ray enters. A ray starting inside the
// world hits the leaf containing its origin at distance 0.
func (t *Tree) Raycast(origin, direction math.Vec3) (Hit, error) {
	ray := picking.NewRay(origin, direction)
	if ray.IsZero() {
		return Hit{}, errors.Wrap(ErrNoHit, "zero direction")
	}
	hit, ok := raycast(t.root, ray)
	if !ok {
		return Hit{}, ErrNoHit
	}
	return hit, nil
}

type rayCandidate struct {
	node *Node
	t    float32
}

// raycast visits children nearest entry first, so the first leaf reached is
// the closest one. Recursion depth is bounded by the tree depth.
func raycast(n *Node, ray picking.Ray) (Hit, bool) {
	tNear, _, ok := ray.Slab(n.Bounds())
	if !ok {
		return Hit{}, false
	}
	if n.IsLeaf() {
		d := max(tNear, 0)
		return Hit{Node: n, Point: ray.At(d), Distance: d}, true
	}

	candidates := make([]rayCandidate, 0, 8)
	for _, child := range n.children {
		if tc, _, ok := ray.Slab(child.Bounds()); ok {
			candidates = append(candidates, rayCandidate{node: child, t: max(tc, 0)})
		}
	}
	slices.SortStableFunc(candidates, func(a, b rayCandidate) int {
		switch {
		case a.t < b.t:
			return -1
		case a.t > b.t:
			return 1
		}
		return 0
	})

	for _, c := range candidates {
		if hit, ok := raycast(c.node, ray); ok {
			return hit, true
		}
	}
	return Hit{}, false
}
