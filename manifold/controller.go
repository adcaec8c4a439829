package manifold

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/walkmesh/physics"
	"github.com/pthm-cable/walkmesh/vecmath"
)

// positionHistoryLength is the fixed buffer length of §4.8's PositionHistory.
const positionHistoryLength = 256

// DefaultHistoryRadix and DefaultHistoryCarryThreshold are PositionHistory's
// default sampling parameters (§4.8).
const (
	DefaultHistoryRadix          = 20
	DefaultHistoryCarryThreshold = 1
)

// PositionHistory is a fixed-length ring buffer of agent positions sampled
// with a geometric policy (§4.8): recent positions dominate the front slots,
// while the back slots change only rarely, with expected stride geometric in
// radix. Used by Controller as a failure-recovery fallback.
type PositionHistory struct {
	radix          int
	carryThreshold int
	buffer         [positionHistoryLength]rl.Vector3
	counters       [positionHistoryLength]int
}

// NewPositionHistory creates a PositionHistory with the given sampling
// parameters, seeded to p via Reset.
func NewPositionHistory(radix, carryThreshold int, p rl.Vector3) *PositionHistory {
	h := &PositionHistory{radix: radix, carryThreshold: carryThreshold}
	h.Reset(p)
	return h
}

// Reset fills every slot with p and randomizes the rollover counters
// uniformly in [0,radix), so clusters of controllers don't synchronize their
// shift cadence (§4.8).
func (h *PositionHistory) Reset(p rl.Vector3) {
	for i := range h.buffer {
		h.buffer[i] = p
		h.counters[i] = rand.Intn(h.radix)
	}
}

// Push records a new position using the per-slot rollover counters of §4.8:
// walk slots from the front, incrementing (mod radix) each counter; stop at
// the first slot whose pre-increment value was below carryThreshold, or at
// the last slot. Shift every slot before that one one position toward the
// end (the entry previously in the stop slot is overwritten), then place p
// at index 0.
func (h *PositionHistory) Push(p rl.Vector3) {
	shiftCount := len(h.buffer) - 1
	for i := range h.buffer {
		was := h.counters[i]
		h.counters[i] = (was + 1) % h.radix
		if was < h.carryThreshold || i == len(h.buffer)-1 {
			shiftCount = i
			break
		}
	}
	for i := shiftCount; i > 0; i-- {
		h.buffer[i] = h.buffer[i-1]
	}
	h.buffer[0] = p
}

// OldestToNewest returns the buffer contents ordered from the oldest entry
// (the slot that changes most rarely) to the newest (index 0), the order
// Controller's fallback search walks them in (§4.8 step 6).
func (h *PositionHistory) OldestToNewest() []rl.Vector3 {
	out := make([]rl.Vector3, len(h.buffer))
	for i := range h.buffer {
		out[i] = h.buffer[len(h.buffer)-1-i]
	}
	return out
}

// ControllerConfig holds the per-agent carry/history knobs §4.8 documents
// outside of the manifold's own build Settings (which describe the surface,
// not any one walking agent).
type ControllerConfig struct {
	TranslateWithColliders bool
	RotateWithColliders    bool
	HistoryRadix           int
	HistoryCarryThreshold  int
}

// DefaultControllerConfig returns the conventional defaults (§4.8).
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		TranslateWithColliders: true,
		RotateWithColliders:    true,
		HistoryRadix:           DefaultHistoryRadix,
		HistoryCarryThreshold:  DefaultHistoryCarryThreshold,
	}
}

// Controller is the character controller of §4.8: move-with-fallback over a
// Manifold it rebuilds on demand, carrying position/orientation across
// moving floors and falling back to position history on failure.
type Controller struct {
	manifold *Manifold
	port     physics.Port
	config   ControllerConfig

	transformProvider physics.TransformProvider
	velocityProvider  physics.VelocityProvider

	position rl.Vector3
	hasFloor bool

	currentFloorCollider uint64
	floorLocalPos        rl.Vector3
	floorLocalForward    rl.Vector3
	worldForward         rl.Vector3

	history *PositionHistory
}

// NewController creates a Controller that rebuilds m on every Move call.
// TranslateWithColliders/RotateWithColliders are silently disabled if port
// does not implement the corresponding optional capability (§4.2).
func NewController(m *Manifold, port physics.Port, config ControllerConfig, initialPosition rl.Vector3) *Controller {
	c := &Controller{
		manifold:     m,
		port:         port,
		config:       config,
		position:     initialPosition,
		worldForward: rl.Vector3{X: 0, Y: 0, Z: 1},
	}
	c.transformProvider, _ = port.(physics.TransformProvider)
	c.velocityProvider, _ = port.(physics.VelocityProvider)
	c.history = NewPositionHistory(config.HistoryRadix, config.HistoryCarryThreshold, initialPosition)
	return c
}

// Position returns the controller's current world position.
func (c *Controller) Position() rl.Vector3 { return c.position }

// ResetPositionHistory reseeds the position history to the current position.
func (c *Controller) ResetPositionHistory() {
	c.history.Reset(c.position)
}

// SimpleMove scales dir by dt and calls Move (§4.8).
func (c *Controller) SimpleMove(dir rl.Vector3, dt float32) error {
	return c.Move(rl.Vector3Scale(dir, dt))
}

// Move is §4.8's per-move algorithm.
func (c *Controller) Move(delta rl.Vector3) error {
	delta = vecmath.ZeroY(delta)

	src := c.position
	if c.config.TranslateWithColliders && c.hasFloor && c.transformProvider != nil {
		src = c.floorLocalToWorld(c.floorLocalPos)
	}

	if c.config.RotateWithColliders && c.hasFloor && c.transformProvider != nil {
		newForward := c.floorLocalToWorldDir(c.floorLocalForward)
		angle := vecmath.SignedAngleXZ(c.worldForward, newForward)
		delta = rl.Vector3RotateByAxisAngle(delta, rl.Vector3{X: 0, Y: 1, Z: 0}, angle)
		c.worldForward = newForward
	}

	dst := rl.Vector3Add(src, delta)

	if result, ok := c.tryFindNextPosition(src, dst, 1); ok {
		c.commit(result)
		return nil
	}

	for _, h := range c.history.OldestToNewest() {
		if result, ok := c.tryFindNextPosition(h, h, 0); ok {
			c.commit(result)
			return nil
		}
	}

	return ErrNoSurface
}

// tryFindNextPosition is §4.8 step 5/6: build a manifold patch covering
// [src,dst] padded by extrude cells, find the ring closest to src, flood-fill
// reachability from it, and answer with the closest reachable point to dst.
func (c *Controller) tryFindNextPosition(src, dst rl.Vector3, extrude int) (ClosestPointResult, bool) {
	cellMin, cellMax := c.gridBoundsXZ(src, dst, extrude)

	dist := rl.Vector3Distance(src, dst)
	cellSize := c.manifold.settings.CellSize
	maxHeightDelta := dist/cellSize + 1 + c.manifold.settings.StepHeight

	yMin := minF(src.Y, dst.Y) - maxHeightDelta
	yMax := maxF(src.Y, dst.Y) + maxHeightDelta

	if err := c.manifold.Update(cellMin, cellMax, yMin, yMax); err != nil {
		return ClosestPointResult{}, false
	}

	startRing, err := c.manifold.FindClosestRingIndex(src)
	if err != nil || startRing < 0 {
		return ClosestPointResult{}, false
	}
	if err := c.manifold.MarkReachable(startRing); err != nil {
		return ClosestPointResult{}, false
	}

	result, ok, err := c.manifold.FindClosestPoint(dst, true)
	if err != nil {
		return ClosestPointResult{}, false
	}
	return result, ok
}

// gridBoundsXZ computes the cell range covering [src,dst] in XZ, padded by
// extrude cells each side. The upper bound always adds one additional cell
// beyond the padding (converting an inclusive corner bound to the exclusive
// cell-count bound Update expects), so a degenerate src==dst, extrude=0 call
// (the step-6 history fallback) still yields a non-empty one-cell-wide range
// instead of tripping the BadInput empty-range rejection.
func (c *Controller) gridBoundsXZ(src, dst rl.Vector3, extrude int) (Cell, Cell) {
	cellSize := c.manifold.settings.CellSize

	minX, maxX := src.X, dst.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minZ, maxZ := src.Z, dst.Z
	if minZ > maxZ {
		minZ, maxZ = maxZ, minZ
	}

	pad := int32(extrude)
	cellMin := Cell{X: floorDiv(minX, cellSize) - pad, Z: floorDiv(minZ, cellSize) - pad}
	cellMax := Cell{X: floorDiv(maxX, cellSize) + pad + 1, Z: floorDiv(maxZ, cellSize) + pad + 1}
	return cellMin, cellMax
}

// commit is §4.8 step 8: teleport to result, update floor tracking state, and
// conditionally push to position history.
func (c *Controller) commit(result ClosestPointResult) {
	c.position = result.Point

	if result.ClosestPoleVertexIndex >= 0 {
		if colliderID, ok := c.manifold.ColliderForVertex(result.ClosestPoleVertexIndex); ok {
			c.currentFloorCollider = colliderID
			c.hasFloor = true
			if c.transformProvider != nil {
				c.floorLocalPos = c.worldToFloorLocal(c.position)
				c.floorLocalForward = c.worldToFloorLocalDir(c.worldForward)
			}
		}
	} else {
		c.hasFloor = false
	}

	if c.isFloorStatic() {
		mostRecent := c.history.buffer[0]
		if rl.Vector3Distance(c.position, mostRecent) > c.manifold.settings.CellSize {
			c.history.Push(c.position)
		}
	}
}

// isFloorStatic reports whether the current floor should gate history
// sampling (§4.8 step 8). A controller with no floor, or a port that cannot
// report velocity, is treated as static (the conservative default, §4.2).
func (c *Controller) isFloorStatic() bool {
	if !c.hasFloor || c.velocityProvider == nil {
		return true
	}
	return c.velocityProvider.IsStatic(c.currentFloorCollider)
}

// floorForwardAngle returns the current floor's yaw relative to +Z, or 0 if
// the floor transform cannot be resolved.
func (c *Controller) floorForwardAngle() float32 {
	if c.transformProvider == nil {
		return 0
	}
	_, forward, ok := c.transformProvider.Transform(c.currentFloorCollider)
	if !ok {
		return 0
	}
	return vecmath.SignedAngleXZ(rl.Vector3{X: 0, Y: 0, Z: 1}, forward)
}

func (c *Controller) floorLocalToWorld(local rl.Vector3) rl.Vector3 {
	if c.transformProvider == nil {
		return c.position
	}
	pos, _, ok := c.transformProvider.Transform(c.currentFloorCollider)
	if !ok {
		return c.position
	}
	angle := c.floorForwardAngle()
	rotated := rl.Vector3RotateByAxisAngle(local, rl.Vector3{X: 0, Y: 1, Z: 0}, angle)
	return rl.Vector3Add(pos, rotated)
}

func (c *Controller) floorLocalToWorldDir(localDir rl.Vector3) rl.Vector3 {
	angle := c.floorForwardAngle()
	return rl.Vector3RotateByAxisAngle(localDir, rl.Vector3{X: 0, Y: 1, Z: 0}, angle)
}

func (c *Controller) worldToFloorLocal(world rl.Vector3) rl.Vector3 {
	if c.transformProvider == nil {
		return world
	}
	pos, _, ok := c.transformProvider.Transform(c.currentFloorCollider)
	if !ok {
		return world
	}
	angle := -c.floorForwardAngle()
	delta := rl.Vector3Subtract(world, pos)
	return rl.Vector3RotateByAxisAngle(delta, rl.Vector3{X: 0, Y: 1, Z: 0}, angle)
}

func (c *Controller) worldToFloorLocalDir(worldDir rl.Vector3) rl.Vector3 {
	angle := -c.floorForwardAngle()
	return rl.Vector3RotateByAxisAngle(worldDir, rl.Vector3{X: 0, Y: 1, Z: 0}, angle)
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
