package mesh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/cubeworld/internal/world/cube"
	"github.com/Faultbox/cubeworld/internal/world/octree"
	"github.com/Faultbox/cubeworld/pkg/math"
)

func newTree(t *testing.T) *octree.Tree {
	t.Helper()
	tree, err := octree.New(math.Vec3{}, 10, octree.WithMaxDepth(4))
	require.NoError(t, err)
	return tree
}

// buildWorld subdivides unevenly and deforms a few edges.
func buildWorld(t *testing.T) *octree.Tree {
	t.Helper()
	tree := newTree(t)
	_, err := tree.SubdivideToPoint(math.Vec3{X: 7, Y: -3, Z: 2}, 3)
	require.NoError(t, err)
	_, err = tree.SubdivideToPoint(math.Vec3{X: -8, Y: 8, Z: -8}, 2)
	require.NoError(t, err)

	leaf, err := tree.FindLeaf(math.Vec3{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	require.NoError(t, tree.ContractEdge(leaf, 0, 0.5))
	require.NoError(t, tree.ContractEdge(leaf, 7, 0.3))
	return tree
}

func TestExtractSingleLeaf(t *testing.T) {
	tree := newTree(t)
	m := Extract(tree)

	require.Len(t, m.Vertices, VerticesPerLeaf)
	require.Len(t, m.Indices, IndicesPerLeaf)
	assert.Equal(t, 1, m.Leaves())
	assert.Equal(t, 12, m.Triangles())
	assert.Equal(t, tree.Bounds(), m.Bounds)

	for i, tri := range cube.Triangles {
		for j := range tri {
			assert.Equal(t, uint32(tri[j]), m.Indices[i*3+j])
		}
	}

	for corner, v := range m.Vertices {
		p := math.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]}
		n := math.Vec3{X: v.Normal[0], Y: v.Normal[1], Z: v.Normal[2]}
		assert.InDelta(t, 1, n.Length(), 1e-5, "corner %d", corner)
		assert.Greater(t, n.Dot(p), float32(0), "corner %d normal points inward", corner)
		assert.Equal(t, [4]float32(cube.DefaultPalette[corner]), v.Color)
	}

	diag := float32(1 / 1.7320508)
	assert.InDeltaSlice(t, []float32{diag, diag, diag}, m.Vertices[7].Normal[:], 1e-5)
	assert.InDeltaSlice(t, []float32{-diag, -diag, -diag}, m.Vertices[0].Normal[:], 1e-5)
}

func TestExtractCountsAndOffsets(t *testing.T) {
	tree := buildWorld(t)
	stats := tree.Stats()
	m := Extract(tree)

	assert.Equal(t, stats.Leaves, m.Leaves())
	assert.Len(t, m.Indices, stats.Leaves*IndicesPerLeaf)

	// Each leaf's indices stay inside its own vertex block.
	for leaf := 0; leaf < m.Leaves(); leaf++ {
		lo := uint32(leaf * VerticesPerLeaf)
		hi := lo + VerticesPerLeaf
		for _, idx := range m.Indices[leaf*IndicesPerLeaf : (leaf+1)*IndicesPerLeaf] {
			assert.GreaterOrEqual(t, idx, lo)
			assert.Less(t, idx, hi)
		}
	}

	// Leaves appear in tree order.
	i := 0
	for n := range tree.Leaves() {
		g := n.Cube().ExtractGeometry()
		assert.Equal(t, g.Vertices[0].Position.Array(), m.Vertices[i*VerticesPerLeaf].Position)
		i++
	}
}

func TestExtractUsesDeformedPositions(t *testing.T) {
	tree := newTree(t)
	require.NoError(t, tree.ContractEdge(tree.Root(), 0, 0.5))

	m := Extract(tree)
	assert.Equal(t, [3]float32{-5, -10, -10}, m.Vertices[0].Position)
	assert.Equal(t, [3]float32{5, -10, -10}, m.Vertices[1].Position)
	// Contraction never grows the bounds past the cube.
	assert.True(t, tree.Bounds().Contains(m.Bounds.Min))
	assert.True(t, tree.Bounds().Contains(m.Bounds.Max))
}

func TestExtractParallelMatchesExtract(t *testing.T) {
	tree := buildWorld(t)
	want := Extract(tree)

	for _, workers := range []int{0, 1, 3, 8, 16} {
		got, err := ExtractParallel(context.Background(), tree, workers)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers %d", workers)
	}
}

func TestExtractParallelSingleLeaf(t *testing.T) {
	tree := newTree(t)
	got, err := ExtractParallel(context.Background(), tree, 4)
	require.NoError(t, err)
	assert.Equal(t, Extract(tree), got)
}

func TestExtractParallelCanceled(t *testing.T) {
	tree := buildWorld(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := ExtractParallel(ctx, tree, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, m)
}

func TestDefaultTransforms(t *testing.T) {
	tr := DefaultTransforms()
	assert.Equal(t, math.Identity(), tr.Camera)
	assert.Equal(t, math.Identity(), tr.Model)

	f := Frame{Mesh: Extract(newTree(t)), Transforms: tr}
	assert.Equal(t, 1, f.Mesh.Leaves())
}
