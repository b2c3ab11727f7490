// Package mesh flattens the leaves of a world tree into vertex and index
// buffers for a renderer.
package mesh

import (
	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/pkg/math"
)

// Vertex is one corner of a leaf cube after deformation.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
	TexCoord [2]float32
}

// Mesh holds the world geometry ready for GPU upload. Every leaf contributes
// VerticesPerLeaf vertices and IndicesPerLeaf indices, in tree order.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   picking.AABB
}

// Leaves returns the number of leaf cubes in the mesh.
func (m *Mesh) Leaves() int {
	return len(m.Vertices) / VerticesPerLeaf
}

// Triangles returns the number of triangles in the mesh.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Transforms are the matrices the renderer applies to the mesh. The mesh
// itself is always in world space.
type Transforms struct {
	Camera math.Mat4 // view-projection
	Model  math.Mat4
}

// DefaultTransforms returns identity transforms.
func DefaultTransforms() Transforms {
	return Transforms{Camera: math.Identity(), Model: math.Identity()}
}

// Frame is what the renderer consumes each frame.
type Frame struct {
	Mesh       *Mesh
	Transforms Transforms
}
