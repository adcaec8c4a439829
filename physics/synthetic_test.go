package physics

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestFlatPlaneRaycastDown(t *testing.T) {
	s := NewFlatPlaneScene()
	hit, ok := s.RaycastDown(rl.Vector3{X: 0.3, Y: 5, Z: -0.7}, 10, LayerWalkable)
	if !ok {
		t.Fatal("expected a hit on the flat plane")
	}
	if math.Abs(float64(hit.Point.Y)) > 1e-4 {
		t.Errorf("expected hit at Y=0, got %f", hit.Point.Y)
	}
	if hit.Normal.Y < 0.99 {
		t.Errorf("expected an up-facing normal, got %v", hit.Normal)
	}
}

func TestRaycastDownRespectsLayerMask(t *testing.T) {
	s := NewFlatPlaneScene()
	_, ok := s.RaycastDown(rl.Vector3{X: 0, Y: 5, Z: 0}, 10, LayerBlocking)
	if ok {
		t.Error("expected no hit when querying a layer the collider is not part of")
	}
}

func TestLowCeilingInvisibleToWalkableLayerRay(t *testing.T) {
	s := NewLowCeilingScene(0.8)
	hit, ok := s.RaycastDown(rl.Vector3{X: 0, Y: 5, Z: 0}, 10, LayerWalkable)
	if !ok {
		t.Fatal("expected a hit")
	}
	// The walkable-layer ray should only see the floor, not the (blocking
	// layer) ceiling, since the ceiling is on a different layer.
	if math.Abs(float64(hit.Point.Y)) > 1e-4 {
		t.Errorf("expected walkable-layer ray to reach the floor at Y=0, got %f", hit.Point.Y)
	}
}

func TestSlopedRampNormal(t *testing.T) {
	s := NewSlopedRampScene(50)
	hit, ok := s.RaycastDown(rl.Vector3{X: 0, Y: 5, Z: 0}, 10, LayerWalkable)
	if !ok {
		t.Fatal("expected a hit on the ramp")
	}
	want := float32(math.Cos(50 * math.Pi / 180))
	if math.Abs(float64(hit.Normal.Y-want)) > 1e-3 {
		t.Errorf("expected normal.Y ~ %f, got %f", want, hit.Normal.Y)
	}
}

func TestCapsuleOccupiedDetectsBoxOverlap(t *testing.T) {
	s := NewSynthetic()
	s.AddBox(rl.Vector3{X: 0, Y: 0, Z: 0}, rl.Vector3{X: 1, Y: 1, Z: 1}, LayerBlocking)

	occupied := s.CapsuleOccupied(rl.Vector3{X: 0, Y: 0, Z: 0}, rl.Vector3{X: 0, Y: 2, Z: 0}, 0.3, LayerBlocking)
	if !occupied {
		t.Error("expected capsule through the box to be occupied")
	}

	clear := s.CapsuleOccupied(rl.Vector3{X: 10, Y: 0, Z: 10}, rl.Vector3{X: 10, Y: 2, Z: 10}, 0.3, LayerBlocking)
	if clear {
		t.Error("expected capsule far from the box to be clear")
	}
}

func TestMovingPlatformAdvancesOnSync(t *testing.T) {
	s, platform := NewMovingPlatformScene(rl.Vector3{X: 1, Y: 0, Z: 0})
	_ = platform

	before, ok := s.RaycastDown(rl.Vector3{X: 0, Y: 5, Z: 0}, 10, LayerWalkable)
	if !ok {
		t.Fatal("expected a hit on the platform")
	}

	s.Advance(1.0)
	s.SyncTransforms()

	// The platform spans X in [-2,2] before the move and [-1,3] after moving
	// 1 unit on X, so (2.5, 5, 0) sees the ground before the sync and the
	// platform surface after it.
	after, ok := s.RaycastDown(rl.Vector3{X: 2.5, Y: 5, Z: 0}, 10, LayerWalkable)
	if !ok {
		t.Fatal("expected a hit on the translated platform")
	}
	if math.Abs(float64(after.Point.Y-before.Point.Y)) > 1e-4 {
		t.Errorf("expected the platform surface height to stay constant, got %f vs %f", before.Point.Y, after.Point.Y)
	}
}
