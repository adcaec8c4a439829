package vecmath

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestXZDistanceIgnoresY(t *testing.T) {
	a := rl.Vector3{X: 0, Y: 100, Z: 0}
	b := rl.Vector3{X: 3, Y: -50, Z: 4}
	if d := XZDistance(a, b); math.Abs(float64(d-5)) > 1e-5 {
		t.Errorf("expected XZDistance 5, got %f", d)
	}
}

func TestAABBDistanceToPointIsDistanceToCenter(t *testing.T) {
	// The documented latent-bug behavior (§9): distance is to center, not to
	// the surface of the box, even for points inside it.
	box := EmptyAABB().Extend(rl.Vector3{X: -1, Y: -1, Z: -1}).Extend(rl.Vector3{X: 1, Y: 1, Z: 1})
	p := rl.Vector3{X: 0.9, Y: 0, Z: 0}
	got := box.DistanceToPoint(p)
	want := float32(0.9)
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("expected distance-to-center %f, got %f", want, got)
	}
}

func TestAABBContains(t *testing.T) {
	box := EmptyAABB().Extend(rl.Vector3{X: 0, Y: 0, Z: 0}).Extend(rl.Vector3{X: 2, Y: 2, Z: 2})
	if !box.Contains(rl.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Error("expected point inside box to be contained")
	}
	if box.Contains(rl.Vector3{X: 3, Y: 1, Z: 1}) {
		t.Error("expected point outside box to not be contained")
	}
}

func TestSignedAngleXZSign(t *testing.T) {
	a := rl.Vector3{X: 1, Y: 0, Z: 0}
	b := rl.Vector3{X: 0, Y: 0, Z: 1}
	if got := SignedAngleXZ(a, b); got <= 0 {
		t.Errorf("expected positive angle rotating +X toward +Z, got %f", got)
	}
	if got := SignedAngleXZ(b, a); got >= 0 {
		t.Errorf("expected negative angle rotating +Z toward +X, got %f", got)
	}
}
