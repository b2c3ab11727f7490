package edit

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/pkg/math"
)

// ErrInvalidCommand is returned for commands that are malformed before they
// reach the tree: unknown ops, missing targets and the like.
var ErrInvalidCommand = errors.New("invalid edit command")

// Op names an edit.
type Op string

// Supported ops.
const (
	OpSubdivide       Op = "subdivide"
	OpMerge           Op = "merge"
	OpContract        Op = "contract"
	OpSubdivideTo     Op = "subdivide_to"
	OpSubdivideRegion Op = "subdivide_region"
)

// RayTarget selects the first leaf hit by a ray.
type RayTarget struct {
	Origin    [3]float32 `yaml:"origin"`
	Direction [3]float32 `yaml:"direction"`
}

// Target selects a leaf by a world point or a ray. Exactly one is set.
type Target struct {
	Point *[3]float32 `yaml:"point,omitempty"`
	Ray   *RayTarget  `yaml:"ray,omitempty"`
}

// Command is a single edit. Which fields matter depends on Op:
//
//	subdivide         Target
//	merge             Target (merges the parent of the leaf it selects)
//	contract          Target, Edge, Value
//	subdivide_to      Target.Point, Depth
//	subdivide_region  Min, Max, Depth
type Command struct {
	Op     Op     `yaml:"op"`
	Target Target `yaml:",inline"`

	Edge  int     `yaml:"edge,omitempty"`
	Value float32 `yaml:"value,omitempty"`
	Depth int     `yaml:"depth,omitempty"`

	Min [3]float32 `yaml:"min,omitempty"`
	Max [3]float32 `yaml:"max,omitempty"`
}

// AtPoint returns a target selecting the leaf containing p.
func AtPoint(p math.Vec3) Target {
	a := p.Array()
	return Target{Point: &a}
}

// AlongRay returns a target selecting the first leaf hit by the ray.
func AlongRay(r picking.Ray) Target {
	return Target{Ray: &RayTarget{Origin: r.Origin.Array(), Direction: r.Direction.Array()}}
}

func (c Command) validate() error {
	switch c.Op {
	case OpSubdivide, OpMerge, OpContract:
		return c.Target.validate()
	case OpSubdivideTo:
		if c.Target.Point == nil || c.Target.Ray != nil {
			return errors.Wrap(ErrInvalidCommand, "subdivide_to needs a point target")
		}
		return nil
	case OpSubdivideRegion:
		return nil
	case "":
		return errors.Wrap(ErrInvalidCommand, "missing op")
	default:
		return errors.Wrapf(ErrInvalidCommand, "unknown op %q", c.Op)
	}
}

func (t Target) validate() error {
	switch {
	case t.Point != nil && t.Ray != nil:
		return errors.Wrap(ErrInvalidCommand, "target has both point and ray")
	case t.Point == nil && t.Ray == nil:
		return errors.Wrap(ErrInvalidCommand, "missing target")
	}
	return nil
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
