package manifold

import "sort"

// poleCursor tracks how much of one cell corner's pole has been consumed
// while assembling rings for a single cell (§4.4). It is local to one cell's
// processing: the same corner Pole is re-read, from offset 0, for every
// adjacent cell it borders.
type poleCursor struct {
	pole   Pole
	offset int32
}

func (c poleCursor) exhausted() bool { return c.offset >= c.pole.Count }

func (c poleCursor) vertexIndex() int32 { return c.pole.Start + c.offset }

// createPartialRings assembles rings for every cell in [cellMin, cellMax)
// (a cell needs all four of its corners, so the upper bound is exclusive
// relative to the inclusive corner range createPoles samples over) (§4.4).
func (m *Manifold) createPartialRings(cellMin, cellMax Cell) {
	for x := cellMin.X; x < cellMax.X; x++ {
		for z := cellMin.Z; z < cellMax.Z; z++ {
			m.buildCellRings(Cell{X: x, Z: z})
		}
	}
}

// buildCellRings runs the height-sorted greedy pairing of §4.4 for one cell,
// repeating until the highest remaining corner pole is exhausted.
func (m *Manifold) buildCellRings(cell Cell) {
	var cursors [4]poleCursor
	for i, offset := range cornerOffsets {
		cursors[i] = poleCursor{pole: m.poles[cell.add(offset)]}
	}

	for {
		order := m.sortCursorsByTopY(cursors)
		top := order[0]
		if cursors[top].exhausted() {
			return
		}

		var vs [4]int32
		for i := range vs {
			vs[i] = -1
		}

		seedVertex := cursors[top].vertexIndex()
		vs[top] = seedVertex
		prevY := m.vertexPoint(seedVertex).Y

		for k := 1; k < 4; k++ {
			idx := order[k]
			if cursors[idx].exhausted() {
				break // sorted with exhausted slices last: nothing further qualifies
			}
			nextVertex := cursors[idx].vertexIndex()
			nextY := m.vertexPoint(nextVertex).Y
			if prevY-nextY > m.settings.StepHeight {
				break // remaining slices (sorted lower) are even further below
			}
			vs[idx] = nextVertex
			prevY = nextY
			cursors[idx].offset++
		}

		cursors[top].offset++

		m.emitRingOrPartial(cell, vs)
	}
}

// sortCursorsByTopY returns corner indices 0..3 ordered by the Y of each
// cursor's current top vertex, descending, with exhausted cursors sorted
// last (§4.4 step 1). A stable sort keeps the result deterministic when two
// corners' current vertices sit at the same height.
func (m *Manifold) sortCursorsByTopY(cursors [4]poleCursor) [4]int {
	order := [4]int{0, 1, 2, 3}
	sort.SliceStable(order[:], func(i, j int) bool {
		a, b := cursors[order[i]], cursors[order[j]]
		aEx, bEx := a.exhausted(), b.exhausted()
		if aEx != bEx {
			return !aEx // non-exhausted sorts before exhausted
		}
		if aEx && bEx {
			return false
		}
		return m.vertexPoint(a.vertexIndex()).Y > m.vertexPoint(b.vertexIndex()).Y
	})
	return order
}

// occupancyMask builds the 4-bit corner-occupancy mask of §4.4 step 6, bit i
// set iff corner i contributed a vertex to vs.
func occupancyMask(vs [4]int32) uint8 {
	var mask uint8
	for i, v := range vs {
		if v != -1 {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// classifyMask maps a corner-occupancy mask to its RingType per §4.4 step 6.
func classifyMask(mask uint8) RingType {
	switch popcount4(mask) {
	case 0:
		return RingInvalid
	case 1:
		return RingCorner
	case 2:
		if mask == 0b0101 || mask == 0b1010 {
			return RingDiagonal
		}
		return RingEdge
	case 3:
		return RingInvertedCorner
	case 4:
		return RingComplete
	default:
		return RingInvalid
	}
}

func popcount4(mask uint8) int {
	n := 0
	for i := 0; i < 4; i++ {
		if mask&(1<<uint(i)) != 0 {
			n++
		}
	}
	return n
}

// alignShift finds the rotation that satisfies §4.4 step 7's alignment rule
// (V0 set, V3 unset) for the given mask/type.
func alignShift(mask uint8, t RingType) int {
	switch t {
	case RingCorner, RingDiagonal:
		for i := 0; i < 4; i++ {
			if mask&(1<<uint(i)) != 0 {
				return i
			}
		}
	case RingEdge:
		for i := 0; i < 4; i++ {
			j := (i + 1) % 4
			if mask&(1<<uint(i)) != 0 && mask&(1<<uint(j)) != 0 {
				return i
			}
		}
	case RingInvertedCorner:
		for i := 0; i < 4; i++ {
			if mask&(1<<uint(i)) == 0 {
				return (i + 1) % 4 // missing corner rotates to V3
			}
		}
	}
	return 0
}

// emitRingOrPartial classifies one greedy-pairing candidate and either
// appends it directly as a completed Ring (Complete) or, if edge
// reconstruction is enabled, records it as an aligned PartialRing for C5.
func (m *Manifold) emitRingOrPartial(cell Cell, vs [4]int32) {
	mask := occupancyMask(vs)
	ringType := classifyMask(mask)
	if ringType == RingInvalid {
		return
	}

	if ringType == RingComplete {
		ring := Ring{Cell: cell, Count: 4}
		copy(ring.Indices[:4], vs[:])
		m.appendRing(ring, RingComplete)
		return
	}

	shift := alignShift(mask, ringType)
	var alignedV [4]int32
	var alignedP [4]Cell
	for i := 0; i < 4; i++ {
		src := (i + shift) % 4
		alignedV[i] = vs[src]
		alignedP[i] = cornerOffsets[src]
	}

	if !m.settings.EdgeReconstruction {
		return
	}
	m.partials = append(m.partials, PartialRing{
		Cell: cell,
		V:    alignedV,
		P:    alignedP,
		Type: ringType,
	})
}
