// Package physics defines the downward-ray/capsule query interface the
// manifold construction pipeline consumes (C1), plus an in-memory synthetic
// implementation used by tests, property checks, and the demo CLI.
//
// Production integrations implement Port against their own physics engine;
// the core never assumes a particular backend.
package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Hit is the result of an accepted raycastDown query.
type Hit struct {
	Point      rl.Vector3
	Normal     rl.Vector3
	ColliderID uint64
	Layer      uint32
	Distance   float32
}

// Port is the adapter interface the manifold core consumes. Implementations
// are thread-confined to the caller: the core calls a Port only from a single
// logical owner, and never concurrently with another subsystem during a
// build (§5 of the spec).
type Port interface {
	// RaycastDown casts a ray from origin along -Y for up to maxDistance,
	// restricted to colliders whose layer intersects layerMask. Triggers are
	// always excluded. Returns the nearest hit, if any.
	RaycastDown(origin rl.Vector3, maxDistance float32, layerMask uint32) (Hit, bool)

	// CapsuleOccupied reports whether any non-trigger collider on a layer in
	// layerMask overlaps the capsule between pointA and pointB with the
	// given radius.
	CapsuleOccupied(pointA, pointB rl.Vector3, radius float32, layerMask uint32) bool

	// SyncTransforms forces the backend to finalize any pending transform
	// updates before a build begins. Implementations that auto-sync may
	// treat this as a no-op.
	SyncTransforms()
}

// TransformProvider is an optional capability a Port backend can implement to
// resolve a collider handle's current world position and facing, used by the
// character controller's moving-platform carry (§4.8 steps 2-3). It is not
// consulted by the construction pipeline itself, only by Controller, and a
// backend that cannot resolve transforms by ID simply doesn't implement it —
// Controller then runs with translate/rotate-with-colliders disabled.
type TransformProvider interface {
	// Transform returns colliderID's current world position and a unit
	// forward direction, or ok=false if the collider is unknown.
	Transform(colliderID uint64) (position, forward rl.Vector3, ok bool)
}

// VelocityProvider is an optional capability reporting whether a collider is
// currently stationary, used by Controller to gate position-history sampling
// to static floors only (§4.8 step 8). Unknown colliders are treated as
// static by callers, matching the conservative default for history capture.
type VelocityProvider interface {
	IsStatic(colliderID uint64) bool
}
