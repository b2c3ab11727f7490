// Package picking provides ray casting and bounding box utilities used to
// resolve edit targets in the world.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/cubeworld/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing the direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IsZero reports whether the ray has no direction.
func (r Ray) IsZero() bool {
	return r.Direction == math.Vec3{}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := (2.0*screenX/viewportW - 1.0)
	ndcY := (1.0 - 2.0*screenY/viewportH) // Flip Y

	nearWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return NewRay(nearWorld, farWorld.Sub(nearWorld))
}

func unproject(invViewProj math.Mat4, ndc math.Vec4) math.Vec3 {
	p := invViewProj.MulVec4(ndc)
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// Slab clips the ray against the box and returns the parametric entry and
// exit distances. tNear is negative when the origin is inside the box.
func (r Ray) Slab(box AABB) (tNear, tFar float32, hit bool) {
	tNear = -math32.MaxFloat32
	tFar = math32.MaxFloat32

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.At(axis)
		d := r.Direction.At(axis)
		lo, hi := box.Min.At(axis), box.Max.At(axis)

		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
	}

	if tFar < tNear || tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tNear, tFar, ok := r.Slab(box)
	if !ok {
		return 0, false
	}
	// Return entry point, or exit point if starting inside
	if tNear < 0 {
		return tFar, true
	}
	return tNear, true
}
