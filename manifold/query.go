package manifold

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/walkmesh/vecmath"
)

// ClosestPointResult is the answer to FindClosestPoint (§4.7, §6).
type ClosestPointResult struct {
	Point                  rl.Vector3
	RingIndex              int32
	ClosestPoleVertexIndex int32 // -1 if the ring has no pole-segment vertex
}

// GetCell returns the grid cell containing p's XZ projection (§6). Like the
// rest of the query surface, it requires StateComplete (§5, §7).
func (m *Manifold) GetCell(p rl.Vector3) (Cell, error) {
	if err := m.requireComplete(); err != nil {
		return Cell{}, err
	}
	return Cell{
		X: int32(floorDiv(p.X, m.settings.CellSize)),
		Z: int32(floorDiv(p.Z, m.settings.CellSize)),
	}, nil
}

func floorDiv(v, cellSize float32) int32 {
	q := v / cellSize
	i := int32(q)
	if q < 0 && float32(i) != q {
		i--
	}
	return i
}

// ringBounds computes a ring's vertex AABB on demand; rings don't cache one
// (§3 keeps Ring minimal), and the bounding box is only needed by queries.
func (m *Manifold) ringBounds(ring *Ring) vecmath.AABB {
	box := vecmath.EmptyAABB()
	for i := 0; i < ring.Count; i++ {
		box = box.Extend(m.vertexPoint(ring.Indices[i]))
	}
	return box
}

// FindClosestRingIndex is §4.7's findClosestRingIndex: a linear scan using
// the AABB distance metric (ties broken by first-seen); -1 if there are no
// rings. Queries are only legal once the manifold has reached StateComplete
// (§5, §7); a non-Complete manifold returns ErrNotReady. Callers should be
// aware this distance metric has a documented latent bug
// (vecmath.AABB.DistanceToPoint, §9): it is preserved for parity with the
// original behavior rather than fixed.
func (m *Manifold) FindClosestRingIndex(p rl.Vector3) (int32, error) {
	if err := m.requireComplete(); err != nil {
		return -1, err
	}

	best := int32(-1)
	bestDist := float32(0)
	for i := range m.rings {
		box := m.ringBounds(&m.rings[i])
		d := box.DistanceToPoint(p)
		if best == -1 || d < bestDist {
			best = int32(i)
			bestDist = d
		}
	}
	return best, nil
}

// FindClosestPoint is §4.7's findClosestPoint. The bool result reports
// whether a point was found at all (false only on a manifold with zero
// eligible rings); it requires StateComplete, returning ErrNotReady
// otherwise (§5, §7).
func (m *Manifold) FindClosestPoint(p rl.Vector3, onlyMarked bool) (ClosestPointResult, bool, error) {
	result := ClosestPointResult{RingIndex: -1, ClosestPoleVertexIndex: -1}
	if err := m.requireComplete(); err != nil {
		return result, false, err
	}

	found := false
	bestXZ := float32(0)

	for i := range m.rings {
		ring := &m.rings[i]
		if onlyMarked && !ring.Marked {
			continue
		}

		if cellContainsXZ(ring.Cell, m.settings.CellSize, p) {
			if pt, ok := m.interiorInterpolate(ring, p); ok {
				d := vecmath.XZDistanceSq(pt, p)
				if !found || d < bestXZ {
					found = true
					bestXZ = d
					result.Point = pt
					result.RingIndex = int32(i)
				}
			}
		}

		for e := 0; e < ring.Count; e++ {
			u, v := ring.Edge(e)
			pt := closestPointOnSegment3D(m.vertexPoint(u), m.vertexPoint(v), p)
			d := vecmath.XZDistanceSq(pt, p)
			if !found || d < bestXZ {
				found = true
				bestXZ = d
				result.Point = pt
				result.RingIndex = int32(i)
			}
		}
	}

	if !found {
		return result, false, nil
	}

	result.ClosestPoleVertexIndex = m.closestPoleVertex(&m.rings[result.RingIndex], result.Point)
	return result, true, nil
}

// cellContainsXZ reports whether p's XZ projection falls within the cell's
// footprint: [x*cs, (x+1)*cs) x [z*cs, (z+1)*cs) (§6).
func cellContainsXZ(cell Cell, cellSize float32, p rl.Vector3) bool {
	minX := float32(cell.X) * cellSize
	minZ := float32(cell.Z) * cellSize
	return p.X >= minX && p.X < minX+cellSize && p.Z >= minZ && p.Z < minZ+cellSize
}

// interiorInterpolate is §4.7's interior-interpolation routine for a convex
// CCW ring viewed from +Y: find the unique "left" edge (v0.x > v1.x) and
// "right" edge (v0.x < v1.x) whose XZ span straddles p.x, interpolate height
// on each, then interpolate between those in Z.
func (m *Manifold) interiorInterpolate(ring *Ring, p rl.Vector3) (rl.Vector3, bool) {
	var leftPoint, rightPoint rl.Vector3
	haveLeft, haveRight := false, false

	for i := 0; i < ring.Count; i++ {
		u, v := ring.Edge(i)
		v0 := m.vertexPoint(u)
		v1 := m.vertexPoint(v)

		lo, hi := v0.X, v1.X
		if lo > hi {
			lo, hi = hi, lo
		}
		if p.X < lo || p.X > hi {
			continue
		}

		cross := (v1.X-v0.X)*(p.Z-v0.Z) - (v1.Z-v0.Z)*(p.X-v0.X)
		if cross < 0 {
			break
		}

		if hi == lo {
			continue
		}
		t := (p.X - v0.X) / (v1.X - v0.X)
		pt := rl.Vector3{
			X: p.X,
			Y: v0.Y + (v1.Y-v0.Y)*t,
			Z: v0.Z + (v1.Z-v0.Z)*t,
		}

		if v0.X > v1.X {
			leftPoint = pt
			haveLeft = true
		} else {
			rightPoint = pt
			haveRight = true
		}
	}

	if !haveLeft || !haveRight {
		return rl.Vector3{}, false
	}

	lo, hi := rightPoint.Z, leftPoint.Z
	var t float32
	if hi != lo {
		t = (p.Z - lo) / (hi - lo)
	}
	y := rightPoint.Y + (leftPoint.Y-rightPoint.Y)*t
	return rl.Vector3{X: p.X, Y: y, Z: p.Z}, true
}

// closestPointOnSegment3D projects p onto segment [a,b] via clamped
// parametric projection (§4.7).
func closestPointOnSegment3D(a, b, p rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	denom := rl.Vector3DotProduct(ab, ab)
	if denom < 1e-12 {
		return a
	}
	t := rl.Vector3DotProduct(rl.Vector3Subtract(p, a), ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

// closestPoleVertex returns the ring's pole-segment vertex closest to p in
// 3D, or -1 if the ring has none (§4.7).
func (m *Manifold) closestPoleVertex(ring *Ring, p rl.Vector3) int32 {
	best := int32(-1)
	bestDist := float32(0)
	for i := 0; i < ring.Count; i++ {
		idx := ring.Indices[i]
		if int(idx) >= m.poleVertexCount {
			continue
		}
		d := rl.Vector3DistanceSqr(m.vertexPoint(idx), p)
		if best == -1 || d < bestDist {
			best = idx
			bestDist = d
		}
	}
	return best
}

// MarkReachable is §4.7's flood fill: BFS from startRingIndex over reverse
// shared edges, marking every ring reachable from it. Requires
// StateComplete, returning ErrNotReady otherwise (§5, §7).
func (m *Manifold) MarkReachable(startRingIndex int32) error {
	if err := m.requireComplete(); err != nil {
		return err
	}
	if startRingIndex < 0 || int(startRingIndex) >= len(m.rings) {
		return nil
	}

	queue := []int32{startRingIndex}
	m.rings[startRingIndex].Marked = true

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		ring := &m.rings[idx]
		for i := 0; i < ring.Count; i++ {
			u, v := ring.Edge(i)
			neighborIdx, ok := m.edgeToRing[EdgeKey{U: v, V: u}]
			if !ok {
				continue
			}
			if m.rings[neighborIdx].Marked {
				continue
			}
			m.rings[neighborIdx].Marked = true
			queue = append(queue, neighborIdx)
		}
	}
	return nil
}
