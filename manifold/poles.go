package manifold

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/walkmesh/physics"
	"github.com/pthm-cable/walkmesh/vecmath"
)

// createPoles samples a vertical pole of stand-height vertices at every grid
// corner in [cellMin..cellMax] over the vertical band [floorMin, floorMax]
// (§4.3). Corners already sampled (present in m.poles) are skipped, so a
// partial-update caller can grow the build incrementally without resampling.
func (m *Manifold) createPoles(cellMin, cellMax Cell, floorMin, floorMax float32) {
	for x := cellMin.X; x <= cellMax.X; x++ {
		for z := cellMin.Z; z <= cellMax.Z; z++ {
			corner := Cell{X: x, Z: z}
			if _, ok := m.poles[corner]; ok {
				continue
			}
			m.poles[corner] = m.samplePole(corner, floorMin, floorMax)
		}
	}
}

// samplePole performs the iterative descent of §4.3 for a single corner.
func (m *Manifold) samplePole(corner Cell, floorMin, floorMax float32) Pole {
	start := int32(len(m.vertices))
	var count int32

	worldX := float32(corner.X) * m.settings.CellSize
	worldZ := float32(corner.Z) * m.settings.CellSize

	y := floorMax + m.settings.StepHeight

	for y > floorMin {
		origin := rl.Vector3{X: worldX, Y: y, Z: worldZ}
		distance := y - floorMin

		hit, ok := m.port.RaycastDown(origin, distance, m.settings.RelevantLayers)
		if !ok {
			break
		}

		nextY := hit.Point.Y - m.settings.AgentHeight

		if m.acceptPoleHit(hit) {
			m.appendPoleVertex(hit.Point, hit.ColliderID)
			count++
		}

		y = nextY
	}

	return Pole{Start: start, Count: count}
}

// acceptPoleHit applies the headroom/slope/layer/capsule-occupancy gate of
// §4.3 step 5.
func (m *Manifold) acceptPoleHit(hit physics.Hit) bool {
	if hit.Distance < m.settings.StepHeight {
		return false
	}
	return m.passesSurfaceGate(hit)
}

// passesSurfaceGate applies the slope/layer/capsule-occupancy portion of the
// §4.3 step 5 gate shared with true-edge reconstruction (§4.5), which omits
// the headroom-to-prior-ceiling distance check (that check only makes sense
// for the pole's iterative descent, not a one-shot bisection probe).
func (m *Manifold) passesSurfaceGate(hit physics.Hit) bool {
	if hit.Normal.Y < m.settings.SurfaceNormalYThreshold {
		return false
	}
	if hit.Layer&m.settings.WalkableLayers == 0 {
		return false
	}

	lowOffset, highOffset := m.settings.capsuleEndpoints()
	pointA := vecmath.WithY(hit.Point, hit.Point.Y+lowOffset)
	pointB := vecmath.WithY(hit.Point, hit.Point.Y+highOffset)
	if m.port.CapsuleOccupied(pointA, pointB, m.settings.AgentRadius, m.settings.RelevantLayers) {
		return false
	}
	return true
}
