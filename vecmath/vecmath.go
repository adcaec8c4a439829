// Package vecmath layers the small, named helpers the manifold pipeline
// repeats on top of raylib-go's Vector3 arithmetic, the way the teacher's
// systems package layers clampFloat/distanceSq/normalizeAngle over math.Sqrt.
package vecmath

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// WithY returns v with its Y component replaced.
func WithY(v rl.Vector3, y float32) rl.Vector3 {
	return rl.Vector3{X: v.X, Y: y, Z: v.Z}
}

// ZeroY returns v with Y zeroed, used when flattening motion deltas onto the
// XZ plane (§4.8 step 1 of the character controller).
func ZeroY(v rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: v.X, Y: 0, Z: v.Z}
}

// XZDistance returns the Euclidean distance between a and b projected onto
// the XZ plane, ignoring Y entirely.
func XZDistance(a, b rl.Vector3) float32 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return rl.Vector3Length(rl.Vector3{X: dx, Y: 0, Z: dz})
}

// XZDistanceSq is the squared form of XZDistance, avoiding a sqrt for
// comparisons.
func XZDistanceSq(a, b rl.Vector3) float32 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return dx*dx + dz*dz
}

// SignedAngleXZ returns the signed angle in radians from a to b about the Y
// axis, in (-pi, pi], used by the character controller's platform-rotation
// carry (§4.8 step 3).
func SignedAngleXZ(a, b rl.Vector3) float32 {
	cross := a.X*b.Z - a.Z*b.X
	dot := a.X*b.X + a.Z*b.Z
	return rl.Vector3Angle(rl.Vector3{X: a.X, Y: 0, Z: a.Z}, rl.Vector3{X: b.X, Y: 0, Z: b.Z}) * sign(cross, dot)
}

func sign(cross, dot float32) float32 {
	_ = dot
	if cross < 0 {
		return -1
	}
	return 1
}

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max rl.Vector3
}

// EmptyAABB returns an AABB with inverted bounds, ready to be grown with
// Extend.
func EmptyAABB() AABB {
	const inf = float32(1e30)
	return AABB{
		Min: rl.Vector3{X: inf, Y: inf, Z: inf},
		Max: rl.Vector3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Extend grows the box to contain p.
func (b AABB) Extend(p rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3{X: minF(b.Min.X, p.X), Y: minF(b.Min.Y, p.Y), Z: minF(b.Min.Z, p.Z)},
		Max: rl.Vector3{X: maxF(b.Max.X, p.X), Y: maxF(b.Max.Y, p.Y), Z: maxF(b.Max.Z, p.Z)},
	}
}

// Contains reports whether p lies within the box (inclusive).
func (b AABB) Contains(p rl.Vector3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the midpoint of the box.
func (b AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(b.Min, b.Max), 0.5)
}

// DistanceToPoint returns the zero-inside, component-wise-excess-outside
// distance the query engine uses for findClosestRingIndex (§4.7). Per the
// documented latent bug (§9), the "extents" half-size is computed as
// (min-min)/2 — identically zero — so the effective metric this function
// reproduces is distance-to-center, not distance-to-surface. Preserved for
// parity; see DESIGN.md.
func (b AABB) DistanceToPoint(p rl.Vector3) float32 {
	extents := rl.Vector3Scale(rl.Vector3Subtract(b.Min, b.Min), 0.5)
	center := b.Center()
	d := rl.Vector3Subtract(p, center)
	excess := rl.Vector3{
		X: maxF(absF(d.X)-extents.X, 0),
		Y: maxF(absF(d.Y)-extents.Y, 0),
		Z: maxF(absF(d.Z)-extents.Z, 0),
	}
	return rl.Vector3Length(excess)
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func absF(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}
