// Package edit translates edit commands and screen picks into operations on
// a shared world tree.
//
// World enforces single-writer access: commands hold the write lock while
// they mutate the tree, and queries and mesh extraction share the read lock.
package edit

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/internal/world/cube"
	"github.com/Faultbox/cubeworld/internal/world/mesh"
	"github.com/Faultbox/cubeworld/internal/world/octree"
)

// World is a tree shared between editors and readers.
type World struct {
	mu     sync.RWMutex
	tree   *octree.Tree
	logger *zap.Logger
}

// NewWorld wraps tree. The tree must not be used directly afterwards.
func NewWorld(tree *octree.Tree, logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &World{tree: tree, logger: logger}
}

// Result describes what a command changed.
type Result struct {
	Op Op
	// Depth of the node the command acted on, or of the deepest target for
	// region subdivision.
	Depth  int
	Splits int
}

// Apply runs one command under the write lock.
func (w *World) Apply(cmd Command) (Result, error) {
	if err := cmd.validate(); err != nil {
		return Result{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	res, err := w.apply(cmd)
	if err != nil {
		w.logger.Debug("edit rejected", zap.String("op", string(cmd.Op)), zap.Error(err))
		return Result{}, err
	}
	w.logger.Debug("edit applied",
		zap.String("op", string(cmd.Op)),
		zap.Int("depth", res.Depth),
		zap.Int("splits", res.Splits),
	)
	return res, nil
}

// Run applies the script's commands in order and stops at the first failure.
// It returns the number of commands applied.
func (w *World) Run(s *Script) (int, error) {
	for i, cmd := range s.Commands {
		if _, err := w.Apply(cmd); err != nil {
			return i, errors.Wrapf(err, "command %d (%s)", i, cmd.Op)
		}
	}
	return len(s.Commands), nil
}

func (w *World) apply(cmd Command) (Result, error) {
	t := w.tree
	res := Result{Op: cmd.Op}

	switch cmd.Op {
	case OpSubdivide:
		leaf, err := w.resolve(cmd.Target)
		if err != nil {
			return res, err
		}
		res.Depth = leaf.Depth()
		res.Splits = 1
		return res, t.Subdivide(leaf)

	case OpMerge:
		leaf, err := w.resolve(cmd.Target)
		if err != nil {
			return res, err
		}
		if leaf.Depth() == 0 {
			return res, errors.Wrap(octree.ErrNotMergeable, "root has no parent")
		}
		parent, err := t.NodeAt(leaf.Center(), leaf.Depth()-1)
		if err != nil {
			return res, err
		}
		res.Depth = parent.Depth()
		return res, t.Merge(parent)

	case OpContract:
		leaf, err := w.resolve(cmd.Target)
		if err != nil {
			return res, err
		}
		res.Depth = leaf.Depth()
		return res, t.ContractEdge(leaf, cube.EdgeID(cmd.Edge), cmd.Value)

	case OpSubdivideTo:
		before := t.Stats().Internal
		leaf, err := t.SubdivideToPoint(vec(*cmd.Target.Point), cmd.Depth)
		if err != nil {
			return res, err
		}
		res.Depth = leaf.Depth()
		res.Splits = t.Stats().Internal - before
		return res, nil

	case OpSubdivideRegion:
		splits, err := t.SubdivideRegion(picking.NewAABB(vec(cmd.Min), vec(cmd.Max)), cmd.Depth)
		res.Depth = cmd.Depth
		res.Splits = splits
		return res, err
	}
	return res, errors.Wrapf(ErrInvalidCommand, "unknown op %q", cmd.Op)
}

func (w *World) resolve(target Target) (*octree.Node, error) {
	if target.Point != nil {
		return w.tree.FindLeaf(vec(*target.Point))
	}
	hit, err := w.tree.Raycast(vec(target.Ray.Origin), vec(target.Ray.Direction))
	if err != nil {
		return nil, err
	}
	return hit.Node, nil
}

// Pick casts a ray through a pixel of the viewport and returns the nearest
// leaf it hits. Node pointers in the hit are valid until the next edit.
func (w *World) Pick(screenX, screenY, width, height float32, tr mesh.Transforms) (octree.Hit, error) {
	inv := tr.Camera.Mul(tr.Model).Inverse()
	ray := picking.ScreenToRay(screenX, screenY, width, height, inv)

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tree.Raycast(ray.Origin, ray.Direction)
}

// PickTarget is Pick turned into a ray target for a later command.
func PickTarget(screenX, screenY, width, height float32, tr mesh.Transforms) Target {
	inv := tr.Camera.Mul(tr.Model).Inverse()
	return AlongRay(picking.ScreenToRay(screenX, screenY, width, height, inv))
}

// View runs fn with shared read access to the tree. fn must not edit the
// tree or retain nodes after returning.
func (w *World) View(fn func(*octree.Tree) error) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return fn(w.tree)
}

// Stats reports the current tree shape.
func (w *World) Stats() octree.Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tree.Stats()
}

// Extract builds the world mesh. workers == 1 extracts on the calling
// goroutine; otherwise the work is split as in mesh.ExtractParallel.
func (w *World) Extract(ctx context.Context, workers int) (*mesh.Mesh, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if workers == 1 {
		return mesh.Extract(w.tree), nil
	}
	return mesh.ExtractParallel(ctx, w.tree, workers)
}

// Frame builds the mesh and pairs it with the transforms to render it with.
func (w *World) Frame(ctx context.Context, workers int, tr mesh.Transforms) (mesh.Frame, error) {
	m, err := w.Extract(ctx, workers)
	if err != nil {
		return mesh.Frame{}, err
	}
	return mesh.Frame{Mesh: m, Transforms: tr}, nil
}
