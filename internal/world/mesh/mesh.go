package mesh

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/internal/world/cube"
	"github.com/Faultbox/cubeworld/internal/world/octree"
	"github.com/Faultbox/cubeworld/pkg/math"
)

const (
	// VerticesPerLeaf is the number of vertices emitted per leaf cube.
	VerticesPerLeaf = cube.CornerCount
	// IndicesPerLeaf is the number of indices emitted per leaf cube.
	IndicesPerLeaf = len(cube.Triangles) * 3
)

// Extract builds the mesh of every leaf in tree order.
func Extract(tree *octree.Tree) *Mesh {
	b := newBuilder(tree.Stats().Leaves)
	for n := range tree.Leaves() {
		b.addLeaf(n.Cube())
	}
	return b.mesh()
}

// ExtractParallel builds the same mesh as Extract, splitting the work by the
// root's subtrees across at most workers goroutines. workers <= 0 uses
// GOMAXPROCS.
func ExtractParallel(ctx context.Context, tree *octree.Tree, workers int) (*Mesh, error) {
	root := tree.Root()
	if root.IsLeaf() {
		return Extract(tree), nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var parts [8]*builder
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for octant := range parts {
		sub := root.Child(octant)
		g.Go(func() error {
			b := newBuilder(0)
			for n := range octree.LeavesOf(sub) {
				if err := ctx.Err(); err != nil {
					return err
				}
				b.addLeaf(n.Cube())
			}
			parts[octant] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stitch(parts[:]), nil
}

// stitch concatenates partial meshes, rebasing their indices.
func stitch(parts []*builder) *Mesh {
	var nv, ni int
	for _, p := range parts {
		nv += len(p.vertices)
		ni += len(p.indices)
	}

	out := &builder{
		vertices: make([]Vertex, 0, nv),
		indices:  make([]uint32, 0, ni),
	}
	for _, p := range parts {
		base := uint32(len(out.vertices))
		out.vertices = append(out.vertices, p.vertices...)
		for _, idx := range p.indices {
			out.indices = append(out.indices, base+idx)
		}
		if p.hasBounds {
			out.extendBox(p.bounds)
		}
	}
	return out.mesh()
}

type builder struct {
	vertices  []Vertex
	indices   []uint32
	bounds    picking.AABB
	hasBounds bool
}

func newBuilder(leaves int) *builder {
	return &builder{
		vertices: make([]Vertex, 0, leaves*VerticesPerLeaf),
		indices:  make([]uint32, 0, leaves*IndicesPerLeaf),
	}
}

func (b *builder) addLeaf(leaf *cube.Leaf) {
	g := leaf.ExtractGeometry()
	normals := cornerNormals(&g)
	base := uint32(len(b.vertices))

	for corner, v := range g.Vertices {
		b.vertices = append(b.vertices, Vertex{
			Position: v.Position.Array(),
			Normal:   normals[corner].Array(),
			Color:    v.Color,
			TexCoord: v.UV.Array(),
		})
		b.extend(v.Position)
	}
	for _, tri := range cube.Triangles {
		b.indices = append(b.indices, base+uint32(tri[0]), base+uint32(tri[1]), base+uint32(tri[2]))
	}
}

func (b *builder) extend(p math.Vec3) {
	b.extendBox(picking.AABB{Min: p, Max: p})
}

func (b *builder) extendBox(box picking.AABB) {
	if !b.hasBounds {
		b.bounds = box
		b.hasBounds = true
		return
	}
	b.bounds = b.bounds.Union(box)
}

func (b *builder) mesh() *Mesh {
	return &Mesh{
		Vertices: b.vertices,
		Indices:  b.indices,
		Bounds:   b.bounds,
	}
}

// cornerNormals averages the area-weighted normals of the triangles meeting
// at each corner. Corners of fully collapsed triangles keep a zero normal.
func cornerNormals(g *cube.Geometry) [cube.CornerCount]math.Vec3 {
	var sum [cube.CornerCount]math.Vec3
	for _, tri := range cube.Triangles {
		a := g.Vertices[tri[0]].Position
		b := g.Vertices[tri[1]].Position
		c := g.Vertices[tri[2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		for _, corner := range tri {
			sum[corner] = sum[corner].Add(n)
		}
	}
	for i := range sum {
		sum[i] = sum[i].Normalize()
	}
	return sum
}
