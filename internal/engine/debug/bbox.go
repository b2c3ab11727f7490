// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/internal/world/octree"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding is the default padding for selection boxes.
const DefaultBBoxPadding = 0.01

// BBoxWireframe creates line vertices for a wireframe box grown by padding
// on all sides. Format: [x, y, z] per vertex, two vertices per edge.
func BBoxWireframe(box picking.AABB, padding float32) []float32 {
	lo, hi := box.Min, box.Max
	minX, minY, minZ := lo.X-padding, lo.Y-padding, lo.Z-padding
	maxX, maxY, maxZ := hi.X+padding, hi.Y+padding, hi.Z+padding

	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// CellWireframe outlines the undeformed cell of every leaf, which shows the
// subdivision structure independently of edge contraction.
func CellWireframe(tree *octree.Tree) []float32 {
	var out []float32
	for n := range tree.Leaves() {
		out = append(out, BBoxWireframe(n.Bounds(), 0)...)
	}
	return out
}
