package manifold

import (
	"testing"

	"github.com/pthm-cable/walkmesh/physics"
)

func TestClassifyMask(t *testing.T) {
	cases := []struct {
		mask uint8
		want RingType
	}{
		{0b0000, RingInvalid},
		{0b0001, RingCorner},
		{0b0010, RingCorner},
		{0b0011, RingEdge},
		{0b0110, RingEdge},
		{0b0101, RingDiagonal},
		{0b1010, RingDiagonal},
		{0b0111, RingInvertedCorner},
		{0b1011, RingInvertedCorner},
		{0b1111, RingComplete},
	}
	for _, c := range cases {
		if got := classifyMask(c.mask); got != c.want {
			t.Errorf("classifyMask(%04b) = %s, want %s", c.mask, got, c.want)
		}
	}
}

func TestAlignShiftCornerRotatesSetBitToV0(t *testing.T) {
	// mask 0b0100 (corner 2 only set); aligned so V0 is set.
	shift := alignShift(0b0100, RingCorner)
	rotated := (0 + shift) % 4
	if (0b0100>>uint(rotated))&1 == 0 {
		t.Errorf("expected corner 0 after rotation by %d to be the set bit", shift)
	}
}

func TestAlignShiftInvertedCornerRotatesMissingBitToV3(t *testing.T) {
	// mask 0b1011: corner 2 (bit index 2) missing.
	shift := alignShift(0b1011, RingInvertedCorner)
	rotated := (3 + shift) % 4
	if (0b1011>>uint(rotated))&1 != 0 {
		t.Errorf("expected corner 3 after rotation by %d to be the missing bit", shift)
	}
}

func TestBuildCellRingsOnFlatPlaneProducesOneCompleteRing(t *testing.T) {
	m := mustNew(physics.NewFlatPlaneScene())
	m.createPoles(Cell{X: 0, Z: 0}, Cell{X: 1, Z: 1}, -1, 1)
	m.buildCellRings(Cell{X: 0, Z: 0})

	if len(m.rings) != 1 {
		t.Fatalf("expected exactly 1 ring, got %d", len(m.rings))
	}
	if m.ringTypes[0] != RingComplete {
		t.Errorf("expected a Complete ring, got %s", m.ringTypes[0])
	}
}
