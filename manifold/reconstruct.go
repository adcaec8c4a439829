package manifold

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/walkmesh/vecmath"
)

// reconstructRings completes every pending PartialRing into a full Ring
// (§4.5), then discards the partials: once reconstructed, a Manifold no
// longer retains non-Complete partial records (telemetry snapshots RingTypes
// before the next Clear if it needs ring-type counts).
func (m *Manifold) reconstructRings() {
	m.reconstructRingSlice(m.partials)
	m.partials = m.partials[:0]
}

// reconstructRingSlice completes a slice of pending partials, letting
// UpdateAsync (§4.9) process the backlog in bounded chunks between yields.
func (m *Manifold) reconstructRingSlice(partials []PartialRing) {
	for _, pr := range partials {
		var ring Ring
		switch pr.Type {
		case RingCorner:
			ring = m.reconstructCorner(pr)
		case RingEdge:
			ring = m.reconstructEdge(pr)
		case RingInvertedCorner:
			ring = m.reconstructInvertedCorner(pr)
		case RingDiagonal:
			ring = m.reconstructDiagonal(pr)
		default:
			continue
		}
		m.appendRing(ring, pr.Type)
	}
}

// dirOffset returns the integer corner-direction offset from b to a, the
// "P3-P0"-style argument generate_true_edge takes (§4.5).
func dirOffset(a, b Cell) Cell { return Cell{X: a.X - b.X, Z: a.Z - b.Z} }

// generateTrueEdge is generate_true_edge(srcVertexIndex, dirOffset) (§4.5):
// a cache lookup on (src, dir), computing and appending a new reconstructed
// boundary vertex on miss.
func (m *Manifold) generateTrueEdge(src int32, dir Cell) int32 {
	key := trueEdgeKey{Src: src, Dir: dir}
	if idx, ok := m.trueEdgeCache[key]; ok {
		return idx
	}

	srcPoint := m.vertexPoint(src)
	dst := rl.Vector3{
		X: srcPoint.X + float32(dir.X)*m.settings.CellSize,
		Y: srcPoint.Y,
		Z: srcPoint.Z + float32(dir.Z)*m.settings.CellSize,
	}
	result := m.trueEdge(srcPoint, dst)

	idx := m.appendBoundaryVertex(result)
	m.trueEdgeCache[key] = idx
	return idx
}

// trueEdge is the bisection search of §4.5: fraction starts at 0.5 with
// stepSize 0.25, halved every iteration, run for ReconstructionIterations
// iterations. src is always a valid answer (it's a pole vertex), so it seeds
// the running best.
func (m *Manifold) trueEdge(src, dst rl.Vector3) rl.Vector3 {
	delta := rl.Vector3Subtract(dst, src)
	fraction := float32(0.5)
	step := float32(0.25)
	best := src

	for i := 0; i < m.settings.ReconstructionIterations; i++ {
		probe := rl.Vector3Add(src, rl.Vector3Scale(delta, fraction))
		origin := vecmath.WithY(probe, probe.Y+m.settings.StepHeight)

		hit, ok := m.port.RaycastDown(origin, 2*m.settings.StepHeight, m.settings.RelevantLayers)
		if ok && m.passesSurfaceGate(hit) {
			best = hit.Point
			fraction += step
		} else {
			fraction -= step
		}
		step *= 0.5
	}

	return best
}

// reconstructCorner completes a Corner partial ring (one pole, V0) per §4.5:
// Ring = [e03, V0, e01], optionally extended by corner-intersection
// refinement when enabled.
func (m *Manifold) reconstructCorner(pr PartialRing) Ring {
	e03 := m.generateTrueEdge(pr.V[0], dirOffset(pr.P[3], pr.P[0]))
	e01 := m.generateTrueEdge(pr.V[0], dirOffset(pr.P[1], pr.P[0]))

	ring := Ring{Cell: pr.Cell, Count: 3}
	ring.Indices[0] = e03
	ring.Indices[1] = pr.V[0]
	ring.Indices[2] = e01

	if m.settings.CornerReconstruction {
		if extra, ok := m.cornerIntersection(pr, e03, e01); ok {
			ring.Indices[ring.Count] = extra
			ring.Count++
		}
	}
	return ring
}

// reconstructEdge completes an Edge partial ring (two adjacent poles, V0/V1)
// per §4.5: Ring = [e03, V0, V1, e12].
func (m *Manifold) reconstructEdge(pr PartialRing) Ring {
	e03 := m.generateTrueEdge(pr.V[0], dirOffset(pr.P[3], pr.P[0]))
	e12 := m.generateTrueEdge(pr.V[1], dirOffset(pr.P[2], pr.P[1]))

	ring := Ring{Cell: pr.Cell, Count: 4}
	ring.Indices[0] = e03
	ring.Indices[1] = pr.V[0]
	ring.Indices[2] = pr.V[1]
	ring.Indices[3] = e12
	return ring
}

// reconstructInvertedCorner completes an InvertedCorner partial ring (three
// poles, missing P3) per §4.5: Ring = [e23, e03, V0, V1, V2].
func (m *Manifold) reconstructInvertedCorner(pr PartialRing) Ring {
	e03 := m.generateTrueEdge(pr.V[0], dirOffset(pr.P[3], pr.P[0]))
	e23 := m.generateTrueEdge(pr.V[2], dirOffset(pr.P[3], pr.P[2]))

	ring := Ring{Cell: pr.Cell, Count: 5}
	ring.Indices[0] = e23
	ring.Indices[1] = e03
	ring.Indices[2] = pr.V[0]
	ring.Indices[3] = pr.V[1]
	ring.Indices[4] = pr.V[2]
	return ring
}

// reconstructDiagonal completes a Diagonal partial ring (opposite poles V0,
// V2) per §4.5: Ring = [V0, e01, e21, V2, e23, e03].
func (m *Manifold) reconstructDiagonal(pr PartialRing) Ring {
	e01 := m.generateTrueEdge(pr.V[0], dirOffset(pr.P[1], pr.P[0]))
	e03 := m.generateTrueEdge(pr.V[0], dirOffset(pr.P[3], pr.P[0]))
	e21 := m.generateTrueEdge(pr.V[2], dirOffset(pr.P[1], pr.P[2]))
	e23 := m.generateTrueEdge(pr.V[2], dirOffset(pr.P[3], pr.P[2]))

	ring := Ring{Cell: pr.Cell, Count: 6}
	ring.Indices[0] = pr.V[0]
	ring.Indices[1] = e01
	ring.Indices[2] = e21
	ring.Indices[3] = pr.V[2]
	ring.Indices[4] = e23
	ring.Indices[5] = e03
	return ring
}

// axisDir returns the (already unit-length) world-space direction from
// corner offset b to corner offset a; adjacent cell corners differ by
// exactly one axis step, so no normalization is needed.
func axisDir(a, b Cell) rl.Vector3 {
	return rl.Vector3{X: float32(a.X - b.X), Y: 0, Z: float32(a.Z - b.Z)}
}

// cornerIntersection is the corner-intersection refinement of §4.5, run
// only for Corner partials when CornerReconstruction is enabled. e03/e01 are
// the boundary vertices the base Corner ring already computed (called V3/V1
// in the spec's refinement text, reusing the generic quad-vertex naming).
func (m *Manifold) cornerIntersection(pr PartialRing, e03, e01 int32) (int32, bool) {
	v0 := m.vertexPoint(pr.V[0])
	v1pos := m.vertexPoint(e01)
	v3pos := m.vertexPoint(e03)

	dirA := axisDir(pr.P[1], pr.P[0])
	dirB := axisDir(pr.P[3], pr.P[0])

	d1 := vecmath.XZDistance(v1pos, v0)
	d3 := vecmath.XZDistance(v3pos, v0)

	a0 := rl.Vector3Add(v0, rl.Vector3Scale(dirA, 0.5*d1))
	a1 := rl.Vector3Add(a0, rl.Vector3Scale(dirB, m.settings.CellSize))
	bPrime := m.trueEdge(a0, a1)

	c0 := rl.Vector3Add(v0, rl.Vector3Scale(dirB, 0.5*d3))
	c1 := rl.Vector3Add(c0, rl.Vector3Scale(dirA, m.settings.CellSize))
	dPrime := m.trueEdge(c0, c1)

	dir1 := rl.Vector3Subtract(bPrime, v1pos)
	dir2 := rl.Vector3Subtract(dPrime, v3pos)
	if nearParallelXZ(dir1, dir2) {
		return 0, false
	}

	t, ok := solveLineIntersectionXZ(v1pos, dir1, v3pos, dir2)
	if !ok {
		return 0, false
	}

	intersect := rl.Vector3{
		X: v1pos.X + t*dir1.X,
		Y: v1pos.Y + t*dir1.Y,
		Z: v1pos.Z + t*dir1.Z,
	}

	cellMinX := float32(pr.Cell.X) * m.settings.CellSize
	cellMinZ := float32(pr.Cell.Z) * m.settings.CellSize
	cellMaxX := cellMinX + m.settings.CellSize
	cellMaxZ := cellMinZ + m.settings.CellSize
	if intersect.X <= cellMinX || intersect.X >= cellMaxX || intersect.Z <= cellMinZ || intersect.Z >= cellMaxZ {
		return 0, false
	}

	// Exact zero is treated as rejection (collinear), not acceptance (§9).
	if cross2D(v1pos, intersect, v3pos) <= 0 {
		return 0, false
	}

	return m.appendBoundaryVertex(intersect), true
}

// nearParallelXZ reports whether a and b are within 3 degrees of parallel or
// anti-parallel in the XZ plane (§4.5's skip condition).
func nearParallelXZ(a, b rl.Vector3) bool {
	la := math.Hypot(float64(a.X), float64(a.Z))
	lb := math.Hypot(float64(b.X), float64(b.Z))
	if la < 1e-9 || lb < 1e-9 {
		return true
	}
	cos := (float64(a.X)*float64(b.X) + float64(a.Z)*float64(b.Z)) / (la * lb)
	return math.Abs(cos) > math.Cos(3*math.Pi/180)
}

// solveLineIntersectionXZ solves for t in p1 + t*dir1 = p2 + s*dir2,
// restricted to the XZ plane, via a 2x2 linear solve.
func solveLineIntersectionXZ(p1 rl.Vector3, dir1 rl.Vector3, p2 rl.Vector3, dir2 rl.Vector3) (float32, bool) {
	a := mat.NewDense(2, 2, []float64{
		float64(dir1.X), -float64(dir2.X),
		float64(dir1.Z), -float64(dir2.Z),
	})
	if math.Abs(mat.Det(a)) < 1e-9 {
		return 0, false
	}

	b := mat.NewVecDense(2, []float64{
		float64(p2.X - p1.X),
		float64(p2.Z - p1.Z),
	})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return 0, false
	}
	return float32(x.AtVec(0)), true
}

// cross2D returns the signed area (twice) of the triangle o,a,b in the XZ
// plane; positive iff o->a->b turns left (CCW).
func cross2D(o, a, b rl.Vector3) float32 {
	return (a.X-o.X)*(b.Z-o.Z) - (a.Z-o.Z)*(b.X-o.X)
}
