// Package cube implements the deformable cube that forms the leaves of the
// world oct-tree: eight corner vertices on an axis-aligned box plus twelve
// per-edge contraction factors that bend the rendered surface.
//
// Corner i has bit 0 set on the +X side, bit 1 on the +Y side and bit 2 on
// the +Z side of the cube.
package cube

import "github.com/Faultbox/cubeworld/pkg/math"

// MaxContraction is the largest contraction applied during interpolation.
// Larger factors would collapse an edge to zero length.
const MaxContraction float32 = 0.999

// Color is an RGBA color with channels in [0, 1].
type Color [4]float32

// Vertex is a cube corner with its render attributes.
type Vertex struct {
	Position math.Vec3
	Color    Color
	UV       math.Vec2
}

// Interpolate returns the point at t along the segment a→b, pulled toward
// the segment midpoint by contraction. A contraction of 0 leaves the linear
// interpolation untouched; values approaching 1 collapse every point onto the
// midpoint. The contraction is clamped to [0, MaxContraction].
func Interpolate(a, b math.Vec3, t, contraction float32) math.Vec3 {
	c := clampContraction(contraction)
	p := a.Lerp(b, t)
	return p.Lerp(a.Midpoint(b), c)
}

func clampContraction(c float32) float32 {
	// NaN fails every comparison and falls through to 0.
	if !(c > 0) {
		return 0
	}
	if c > MaxContraction {
		return MaxContraction
	}
	return c
}

// AverageColor returns the channel-wise mean of the given colors.
func AverageColor(colors ...Color) Color {
	var sum Color
	if len(colors) == 0 {
		return sum
	}
	for _, c := range colors {
		for i := range sum {
			sum[i] += c[i]
		}
	}
	n := float32(len(colors))
	for i := range sum {
		sum[i] /= n
	}
	return sum
}

// AverageUV returns the mean of the given texture coordinates.
func AverageUV(uvs ...math.Vec2) math.Vec2 {
	var sum math.Vec2
	if len(uvs) == 0 {
		return sum
	}
	for _, uv := range uvs {
		sum = sum.Add(uv)
	}
	return sum.Scale(1 / float32(len(uvs)))
}
