package cube

import "github.com/pkg/errors"

const (
	// CornerCount is the number of corners of a cube.
	CornerCount = 8
	// EdgeCount is the number of edges of a cube.
	EdgeCount = 12
)

// EdgeID identifies one of the twelve cube edges. Edges are grouped by the
// axis they run along: id = axis*4 + k, where k packs the side bits of the two
// remaining axes (lower axis first).
type EdgeID int

// EdgeSpec describes the corners an edge connects.
type EdgeSpec struct {
	Axis int
	// From has the Axis bit clear, To has it set.
	From, To int
}

var edges = func() [EdgeCount]EdgeSpec {
	var table [EdgeCount]EdgeSpec
	for axis := 0; axis < 3; axis++ {
		p, q := otherAxes(axis)
		for k := 0; k < 4; k++ {
			from := (k&1)<<p | (k>>1)<<q
			table[axis*4+k] = EdgeSpec{Axis: axis, From: from, To: from | 1<<axis}
		}
	}
	return table
}()

// otherAxes returns the two axes perpendicular to axis, in ascending order.
func otherAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

// Valid reports whether id names one of the twelve edges.
func (id EdgeID) Valid() bool {
	return id >= 0 && id < EdgeCount
}

// Edge returns the corner pair of the edge.
func Edge(id EdgeID) (EdgeSpec, error) {
	if !id.Valid() {
		return EdgeSpec{}, errors.Wrapf(ErrInvalidEdge, "edge %d", id)
	}
	return edges[id], nil
}

// EdgeAt returns the edge running along axis through the given corner.
func EdgeAt(axis, corner int) EdgeID {
	p, q := otherAxes(axis)
	k := (corner>>p)&1 | ((corner>>q)&1)<<1
	return EdgeID(axis*4 + k)
}

// CornerEdges returns the three edges meeting at a corner, ordered by axis.
func CornerEdges(corner int) [3]EdgeID {
	return [3]EdgeID{EdgeAt(0, corner), EdgeAt(1, corner), EdgeAt(2, corner)}
}
