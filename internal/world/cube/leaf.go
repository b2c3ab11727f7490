package cube

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/cubeworld/internal/engine/picking"
	"github.com/Faultbox/cubeworld/pkg/math"
)

// Triangles is the fixed triangulation of a cube: two triangles per face,
// counter-clockwise when seen from outside, referencing corner indices.
var Triangles = [12][3]uint8{
	{0, 4, 6}, {0, 6, 2}, // -X
	{1, 3, 7}, {1, 7, 5}, // +X
	{0, 1, 5}, {0, 5, 4}, // -Y
	{2, 6, 7}, {2, 7, 3}, // +Y
	{0, 2, 3}, {0, 3, 1}, // -Z
	{4, 5, 7}, {4, 7, 6}, // +Z
}

// Leaf is a deformable axis-aligned cube. Corner positions always lie on the
// cube's bounding box; contraction is only applied by ExtractGeometry.
type Leaf struct {
	center       math.Vec3
	halfExtent   float32
	depth        int
	vertices     [CornerCount]Vertex
	contractions [EdgeCount]float32
}

// Geometry is the renderable form of a leaf: its eight corners after edge
// contraction, to be indexed with Triangles.
type Geometry struct {
	Vertices [CornerCount]Vertex
}

// New creates an undeformed cube colored with DefaultPalette.
func New(center math.Vec3, halfExtent float32, depth int) *Leaf {
	return NewWithPalette(center, halfExtent, depth, DefaultPalette)
}

// NewWithPalette creates an undeformed cube with per-corner colors from p and
// planar UVs (u follows X, v follows Y).
func NewWithPalette(center math.Vec3, halfExtent float32, depth int, p Palette) *Leaf {
	l := &Leaf{center: center, halfExtent: halfExtent, depth: depth}
	for corner := range l.vertices {
		l.vertices[corner] = Vertex{
			Position: cornerPosition(center, halfExtent, corner),
			Color:    p[corner],
			UV:       math.Vec2{X: float32(corner & 1), Y: float32((corner >> 1) & 1)},
		}
	}
	return l
}

// cornerPosition returns the position of a corner (or, equally, the center of
// the matching octant when halfExtent is halved).
func cornerPosition(center math.Vec3, halfExtent float32, corner int) math.Vec3 {
	offset := math.Splat(-halfExtent)
	for axis := 0; axis < 3; axis++ {
		if corner&(1<<axis) != 0 {
			offset = offset.With(axis, halfExtent)
		}
	}
	return center.Add(offset)
}

// OctantCenter returns the center of the given octant of a cube.
func OctantCenter(center math.Vec3, halfExtent float32, octant int) math.Vec3 {
	return cornerPosition(center, halfExtent/2, octant)
}

// Center returns the cube center.
func (l *Leaf) Center() math.Vec3 { return l.center }

// HalfExtent returns half of the cube's side length.
func (l *Leaf) HalfExtent() float32 { return l.halfExtent }

// Depth returns the tree depth the cube was created at.
func (l *Leaf) Depth() int { return l.depth }

// Bounds returns the cube's bounding box.
func (l *Leaf) Bounds() picking.AABB {
	return picking.CubeAABB(l.center, l.halfExtent)
}

// Vertex returns a corner vertex.
func (l *Leaf) Vertex(corner int) (Vertex, error) {
	if corner < 0 || corner >= CornerCount {
		return Vertex{}, errors.Wrapf(ErrInvalidCorner, "corner %d", corner)
	}
	return l.vertices[corner], nil
}

// Corner returns the undeformed position of a corner.
func (l *Leaf) Corner(corner int) (math.Vec3, error) {
	v, err := l.Vertex(corner)
	return v.Position, err
}

// Vertices returns a copy of all corner vertices.
func (l *Leaf) Vertices() [CornerCount]Vertex {
	return l.vertices
}

// Contraction returns the contraction factor of an edge.
func (l *Leaf) Contraction(edge EdgeID) (float32, error) {
	if !edge.Valid() {
		return 0, errors.Wrapf(ErrInvalidEdge, "edge %d", edge)
	}
	return l.contractions[edge], nil
}

// Contractions returns a copy of all twelve contraction factors.
func (l *Leaf) Contractions() [EdgeCount]float32 {
	return l.contractions
}

// ValidateContraction checks an edge/value pair without applying it.
func ValidateContraction(edge EdgeID, value float32) error {
	if !edge.Valid() {
		return errors.Wrapf(ErrInvalidEdge, "edge %d", edge)
	}
	if !(value >= 0 && value < 1) {
		return errors.Wrapf(ErrInvalidValue, "contraction %v not in [0, 1)", value)
	}
	return nil
}

// SetContraction sets how far the edge is pulled toward its midpoint.
func (l *Leaf) SetContraction(edge EdgeID, value float32) error {
	if err := ValidateContraction(edge, value); err != nil {
		return err
	}
	l.contractions[edge] = value
	return nil
}

// SetVertexAttribute replaces the color and UV of a corner.
func (l *Leaf) SetVertexAttribute(corner int, color Color, uv math.Vec2) error {
	if corner < 0 || corner >= CornerCount {
		return errors.Wrapf(ErrInvalidCorner, "corner %d", corner)
	}
	l.vertices[corner].Color = color
	l.vertices[corner].UV = uv
	return nil
}

// ExtractGeometry returns the corners displaced by edge contraction. A corner
// moves by the average pull of its contracted incident edges; edges with zero
// contraction do not dilute the pull.
func (l *Leaf) ExtractGeometry() Geometry {
	var g Geometry
	for corner, v := range l.vertices {
		var pull math.Vec3
		n := 0
		for _, id := range CornerEdges(corner) {
			c := l.contractions[id]
			if c <= 0 {
				continue
			}
			e := edges[id]
			a, b := l.vertices[e.From].Position, l.vertices[e.To].Position
			var t float32
			if corner == e.To {
				t = 1
			}
			pull = pull.Add(Interpolate(a, b, t, c).Sub(v.Position))
			n++
		}
		if n > 0 {
			v.Position = v.Position.Add(pull.Scale(1 / float32(n)))
		}
		g.Vertices[corner] = v
	}
	return g
}

// Split returns the leaf for one octant of l. The child inherits l's
// corner colors and UVs; its contractions start at zero.
func (l *Leaf) Split(octant int) *Leaf {
	h := l.halfExtent / 2
	c := OctantCenter(l.center, l.halfExtent, octant)
	child := &Leaf{center: c, halfExtent: h, depth: l.depth + 1}
	for corner := range child.vertices {
		child.vertices[corner] = Vertex{
			Position: cornerPosition(c, h, corner),
			Color:    l.vertices[corner].Color,
			UV:       l.vertices[corner].UV,
		}
	}
	return child
}

// Join builds the leaf covering the cube (center, halfExtent) from its eight
// children ordered by octant. Corner k of the result averages corner k of
// every child, which is each child's corner nearest to the parent's corner k.
func Join(center math.Vec3, halfExtent float32, depth int, children [8]*Leaf) *Leaf {
	parent := &Leaf{center: center, halfExtent: halfExtent, depth: depth}

	for corner := range parent.vertices {
		var colors [8]Color
		var uvs [8]math.Vec2
		for i, child := range children {
			colors[i] = child.vertices[corner].Color
			uvs[i] = child.vertices[corner].UV
		}
		parent.vertices[corner] = Vertex{
			Position: cornerPosition(center, halfExtent, corner),
			Color:    AverageColor(colors[:]...),
			UV:       AverageUV(uvs[:]...),
		}
	}
	return parent
}
