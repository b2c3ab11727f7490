package edit

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/cubeworld/internal/world/cube"
	"github.com/Faultbox/cubeworld/internal/world/mesh"
	"github.com/Faultbox/cubeworld/internal/world/octree"
	"github.com/Faultbox/cubeworld/pkg/math"
)

func newWorld(t *testing.T) *World {
	t.Helper()
	tree, err := octree.New(math.Vec3{}, 10, octree.WithMaxDepth(4))
	require.NoError(t, err)
	return NewWorld(tree, nil)
}

func point(x, y, z float32) Target {
	return AtPoint(math.Vec3{X: x, Y: y, Z: z})
}

func TestApplySubdivideAndMerge(t *testing.T) {
	w := newWorld(t)

	res, err := w.Apply(Command{Op: OpSubdivide, Target: point(1, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, Result{Op: OpSubdivide, Depth: 0, Splits: 1}, res)
	assert.Equal(t, 8, w.Stats().Leaves)

	_, err = w.Apply(Command{Op: OpSubdivide, Target: point(1, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, 15, w.Stats().Leaves)

	// Merging through a depth-1 leaf fails: its parent has a subdivided child.
	_, err = w.Apply(Command{Op: OpMerge, Target: point(-1, -1, -1)})
	assert.True(t, errors.Is(err, octree.ErrNotMergeable))

	res, err = w.Apply(Command{Op: OpMerge, Target: point(1, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Depth)
	assert.Equal(t, 8, w.Stats().Leaves)

	_, err = w.Apply(Command{Op: OpMerge, Target: point(1, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, octree.Stats{Leaves: 1}, w.Stats())

	_, err = w.Apply(Command{Op: OpMerge, Target: point(1, 1, 1)})
	assert.True(t, errors.Is(err, octree.ErrNotMergeable))
}

func TestApplyContract(t *testing.T) {
	w := newWorld(t)

	_, err := w.Apply(Command{Op: OpContract, Target: point(0, 0, 0), Edge: 0, Value: 0.5})
	require.NoError(t, err)

	err = w.View(func(tree *octree.Tree) error {
		c, err := tree.Root().Cube().Contraction(0)
		require.NoError(t, err)
		assert.Equal(t, float32(0.5), c)
		return nil
	})
	require.NoError(t, err)

	_, err = w.Apply(Command{Op: OpContract, Target: point(0, 0, 0), Edge: 12, Value: 0.5})
	assert.True(t, errors.Is(err, cube.ErrInvalidEdge))
	_, err = w.Apply(Command{Op: OpContract, Target: point(0, 0, 0), Edge: 1, Value: 1})
	assert.True(t, errors.Is(err, cube.ErrInvalidValue))
}

func TestApplyRayTarget(t *testing.T) {
	w := newWorld(t)
	_, err := w.Apply(Command{Op: OpSubdivide, Target: point(0, 0, 0)})
	require.NoError(t, err)

	cmd := Command{
		Op:     OpSubdivide,
		Target: Target{Ray: &RayTarget{Origin: [3]float32{-20, 1, 1}, Direction: [3]float32{1, 0, 0}}},
	}
	res, err := w.Apply(cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Depth)

	err = w.View(func(tree *octree.Tree) error {
		assert.False(t, tree.Root().Child(6).IsLeaf())
		return nil
	})
	require.NoError(t, err)

	miss := Command{
		Op:     OpSubdivide,
		Target: Target{Ray: &RayTarget{Origin: [3]float32{20, 0, 0}, Direction: [3]float32{1, 0, 0}}},
	}
	_, err = w.Apply(miss)
	assert.True(t, errors.Is(err, octree.ErrNoHit))
}

func TestApplySubdivideToAndRegion(t *testing.T) {
	w := newWorld(t)

	res, err := w.Apply(Command{Op: OpSubdivideTo, Target: point(3, 3, 3), Depth: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Depth)
	assert.Equal(t, 3, res.Splits)

	res, err = w.Apply(Command{
		Op:    OpSubdivideRegion,
		Min:   [3]float32{-6, -6, -6},
		Max:   [3]float32{-4, -4, -4},
		Depth: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Splits)

	_, err = w.Apply(Command{Op: OpSubdivideTo, Target: point(3, 3, 3), Depth: 9})
	assert.True(t, errors.Is(err, octree.ErrMaxDepthExceeded))
	_, err = w.Apply(Command{Op: OpSubdivideTo, Target: point(30, 3, 3), Depth: 2})
	assert.True(t, errors.Is(err, octree.ErrOutOfBounds))
}

func TestApplyInvalidCommands(t *testing.T) {
	w := newWorld(t)
	p := [3]float32{}

	tests := []Command{
		{},
		{Op: "explode", Target: point(0, 0, 0)},
		{Op: OpSubdivide},
		{Op: OpSubdivide, Target: Target{Point: &p, Ray: &RayTarget{}}},
		{Op: OpSubdivideTo, Target: Target{Ray: &RayTarget{Direction: [3]float32{1, 0, 0}}}, Depth: 1},
	}
	for _, cmd := range tests {
		_, err := w.Apply(cmd)
		assert.True(t, errors.Is(err, ErrInvalidCommand), "command %+v", cmd)
	}
	assert.Equal(t, octree.Stats{Leaves: 1}, w.Stats())
}

func TestPick(t *testing.T) {
	w := newWorld(t)
	_, err := w.Apply(Command{Op: OpSubdivide, Target: point(0, 0, 0)})
	require.NoError(t, err)

	tr := mesh.Transforms{
		Camera: math.Perspective(1.0, 1.0, 0.1, 100).
			Mul(math.LookAt(math.Vec3{X: 0.5, Y: 0.5, Z: 30}, math.Vec3{X: 0.5, Y: 0.5}, math.Vec3{Y: 1})),
		Model: math.Identity(),
	}

	hit, err := w.Pick(400, 400, 800, 800, tr)
	require.NoError(t, err)
	assert.Equal(t, 1, hit.Node.Depth())
	assert.InDelta(t, 19.9, hit.Distance, 0.05)
	assert.InDelta(t, 10, hit.Point.Z, 1e-2)

	// The same pick as a command target subdivides the +Z child it hit.
	_, err = w.Apply(Command{Op: OpSubdivide, Target: PickTarget(400, 400, 800, 800, tr)})
	require.NoError(t, err)
	assert.Equal(t, 15, w.Stats().Leaves)

	// Looking away from the world misses.
	away := mesh.Transforms{
		Camera: math.Perspective(1.0, 1.0, 0.1, 100).
			Mul(math.LookAt(math.Vec3{Z: 30}, math.Vec3{Z: 40}, math.Vec3{Y: 1})),
		Model: math.Identity(),
	}
	_, err = w.Pick(400, 400, 800, 800, away)
	assert.True(t, errors.Is(err, octree.ErrNoHit))
}

func TestExtract(t *testing.T) {
	w := newWorld(t)
	_, err := w.Apply(Command{Op: OpSubdivideTo, Target: point(3, -3, 3), Depth: 2})
	require.NoError(t, err)

	serial, err := w.Extract(context.Background(), 1)
	require.NoError(t, err)
	parallel, err := w.Extract(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
	assert.Equal(t, w.Stats().Leaves, serial.Leaves())

	f, err := w.Frame(context.Background(), 2, mesh.DefaultTransforms())
	require.NoError(t, err)
	assert.Equal(t, serial, f.Mesh)
	assert.Equal(t, math.Identity(), f.Transforms.Model)
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	w := newWorld(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				m, err := w.Extract(context.Background(), 2)
				assert.NoError(t, err)
				assert.Equal(t, len(m.Vertices)/mesh.VerticesPerLeaf*mesh.IndicesPerLeaf, len(m.Indices))
			}
		}()
	}

	pts := [][3]float32{{1, 1, 1}, {-1, 1, -1}, {5, -5, 5}, {-7, -7, 7}}
	for _, p := range pts {
		_, err := w.Apply(Command{Op: OpSubdivideTo, Target: Target{Point: &p}, Depth: 3})
		require.NoError(t, err)
	}
	wg.Wait()
	assert.Equal(t, 3, w.Stats().MaxDepth)
}

func TestScript(t *testing.T) {
	script := `
commands:
  - op: subdivide
    point: [0, 0, 0]
  - op: contract
    point: [1, 1, 1]
    edge: 3
    value: 0.25
  - op: subdivide
    ray:
      origin: [-20, 1, 1]
      direction: [1, 0, 0]
  - op: subdivide_to
    point: [-7, -7, -7]
    depth: 3
  - op: subdivide_region
    min: [4, -6, -6]
    max: [6, -4, -4]
    depth: 2
`
	path := filepath.Join(t.TempDir(), "edits.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	require.Len(t, s.Commands, 5)
	assert.Equal(t, OpContract, s.Commands[1].Op)
	assert.Equal(t, 3, s.Commands[1].Edge)
	assert.Equal(t, float32(0.25), s.Commands[1].Value)
	require.NotNil(t, s.Commands[2].Target.Ray)
	assert.Equal(t, [3]float32{-20, 1, 1}, s.Commands[2].Target.Ray.Origin)
	assert.Equal(t, [3]float32{4, -6, -6}, s.Commands[4].Min)

	w := newWorld(t)
	n, err := w.Run(s)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 3, w.Stats().MaxDepth)
}

func TestScriptStopsAtFirstFailure(t *testing.T) {
	s, err := ParseScript([]byte(`
commands:
  - op: subdivide
    point: [0, 0, 0]
  - op: merge
    point: [0, 0, 0]
  - op: merge
    point: [0, 0, 0]
  - op: subdivide
    point: [0, 0, 0]
`))
	require.NoError(t, err)

	w := newWorld(t)
	n, err := w.Run(s)
	assert.Equal(t, 2, n)
	assert.True(t, errors.Is(err, octree.ErrNotMergeable))
	assert.Equal(t, octree.Stats{Leaves: 1}, w.Stats())
}

func TestParseScriptErrors(t *testing.T) {
	_, err := ParseScript([]byte("commands: [\n"))
	assert.Error(t, err)

	_, err = ParseScript([]byte("commands:\n  - op: fly\n    point: [0, 0, 0]\n"))
	assert.True(t, errors.Is(err, ErrInvalidCommand))

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
