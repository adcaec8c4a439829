package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// The scenario scenes below are the same six fixtures the spec's testable
// properties section (§8) describes, each wired into the demo CLI (§4.11).
// The manifold package's tests build on the flat-plane, staircase and
// step-too-high scenes.

// LayerWalkable and LayerBlocking are the default layer bits used by the
// scene constructors; production callers choose their own bitmask.
const (
	LayerWalkable uint32 = 1 << 0
	LayerBlocking uint32 = 1 << 1
)

// NewFlatPlaneScene returns an infinite flat plane at Y=0 (§8 scenario 1).
func NewFlatPlaneScene() *Synthetic {
	s := NewSynthetic()
	s.AddPlane(rl.Vector3{X: 0, Y: 0, Z: 0}, rl.Vector3{X: 0, Y: 1, Z: 0}, LayerWalkable)
	return s
}

// NewStaircaseScene returns two platforms with tops at Y=0 (x<0) and
// Y=stepRise (x>=0), meeting at X=0 (§8 scenario 2 uses stepRise=0.3).
func NewStaircaseScene(stepRise float32) *Synthetic {
	s := NewSynthetic()
	s.AddBox(rl.Vector3{X: -50, Y: -0.5, Z: 0}, rl.Vector3{X: 50, Y: 0.5, Z: 1000}, LayerWalkable)
	s.AddBox(rl.Vector3{X: 50, Y: stepRise - 0.5, Z: 0}, rl.Vector3{X: 50, Y: 0.5, Z: 1000}, LayerWalkable)
	return s
}

// NewStepTooHighScene returns two platforms separated by a rise that exceeds
// stepHeight, so the two sides never connect (§8 scenario 3).
func NewStepTooHighScene(riseHeight float32) *Synthetic {
	return NewStaircaseScene(riseHeight)
}

// NewLowCeilingScene returns a flat floor at Y=0 with a ceiling slab at
// ceilingY, blocking headroom in the overlap region (§8 scenario 4).
func NewLowCeilingScene(ceilingY float32) *Synthetic {
	s := NewFlatPlaneScene()
	s.AddBox(rl.Vector3{X: 0, Y: ceilingY + 0.5, Z: 0}, rl.Vector3{X: 1000, Y: 0.5, Z: 1000}, LayerBlocking)
	return s
}

// NewSlopedRampScene returns a plane inclined at angleDegrees from
// horizontal, tilting around the Z axis (§8 scenario 5).
func NewSlopedRampScene(angleDegrees float32) *Synthetic {
	s := NewSynthetic()
	rad := float64(angleDegrees) * math.Pi / 180
	normal := rl.Vector3{X: float32(-math.Sin(rad)), Y: float32(math.Cos(rad)), Z: 0}
	s.AddPlane(rl.Vector3{X: 0, Y: 0, Z: 0}, normal, LayerWalkable)
	return s
}

// NewMovingPlatformScene returns a static ground plane plus a kinematic box
// platform at Y=1 translating at velocity (§8 scenario 6). The platform
// handle is returned so callers can query its current position.
func NewMovingPlatformScene(velocity rl.Vector3) (*Synthetic, Handle) {
	s := NewSynthetic()
	s.AddPlane(rl.Vector3{X: 0, Y: 0, Z: 0}, rl.Vector3{X: 0, Y: 1, Z: 0}, LayerWalkable)
	platform := s.AddKinematicBox(rl.Vector3{X: 0, Y: 1, Z: 0}, rl.Vector3{X: 2, Y: 0.25, Z: 2}, velocity, LayerWalkable)
	return s, platform
}
