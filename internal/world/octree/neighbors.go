package octree

import (
	"github.com/pkg/errors"
)

// Axis selects one of the three coordinate axes.
type Axis int

// Axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) valid() bool {
	return a >= AxisX && a <= AxisZ
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "invalid"
	}
}

// Direction selects the positive or negative side along an axis.
type Direction int

// Directions.
const (
	Negative Direction = -1
	Positive Direction = 1
)

// Neighbors returns the leaves sharing the face of leaf on the given side.
// The result is a single leaf of the same or coarser depth, or every leaf of
// a finer subdivision that touches the face. It is empty at the world
// boundary. The lookup always starts from the root.
func (t *Tree) Neighbors(leaf *Node, axis Axis, dir Direction) ([]*Node, error) {
	if err := t.checkLeaf(leaf); err != nil {
		return nil, err
	}
	if !axis.valid() {
		return nil, errors.Wrapf(ErrInvalidAxis, "axis %d", axis)
	}
	switch {
	case dir > 0:
		dir = Positive
	case dir < 0:
		dir = Negative
	default:
		return nil, errors.Wrap(ErrInvalidAxis, "zero direction")
	}

	// Center of the same-sized cell on the other side of the face.
	a := int(axis)
	step := 2 * leaf.halfExtent * float32(dir)
	cousin := leaf.center.With(a, leaf.center.At(a)+step)
	if !t.Bounds().Contains(cousin) {
		return nil, nil
	}

	n := t.descend(cousin, leaf.depth)
	if n.IsLeaf() {
		return []*Node{n}, nil
	}

	// The cousin is subdivided further: keep the children on the side facing
	// back toward leaf.
	var nearBit int
	if dir == Negative {
		nearBit = 1 << a
	}
	var out []*Node
	stack := []*Node{n}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c.IsLeaf() {
			out = append(out, c)
			continue
		}
		for i := 7; i >= 0; i-- {
			if i&(1<<a) == nearBit {
				stack = append(stack, c.children[i])
			}
		}
	}
	return out, nil
}
