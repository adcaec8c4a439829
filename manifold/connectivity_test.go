package manifold

import (
	"testing"

	"github.com/pthm-cable/walkmesh/physics"
)

func TestIsSharedEdgeBetweenAdjacentCompleteRings(t *testing.T) {
	m := mustNew(physics.NewFlatPlaneScene())
	if err := m.Update(Cell{X: -1, Z: -1}, Cell{X: 1, Z: 1}, -1, 1); err != nil {
		t.Fatalf("Update: %v", err)
	}

	shared := false
	for _, r := range m.Rings() {
		for i := 0; i < r.Count; i++ {
			u, v := r.Edge(i)
			ok, err := m.IsSharedEdge(u, v)
			if err != nil {
				t.Fatalf("IsSharedEdge: %v", err)
			}
			if ok {
				shared = true
			}
		}
	}
	if !shared {
		t.Error("expected at least one shared edge among the 2x2 ring grid")
	}
}

func TestIsSharedEdgeFalseForUnknownEdge(t *testing.T) {
	m := mustNew(physics.NewFlatPlaneScene())
	if err := m.Update(Cell{X: -1, Z: -1}, Cell{X: 1, Z: 1}, -1, 1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	ok, err := m.IsSharedEdge(999, 1000)
	if err != nil {
		t.Fatalf("IsSharedEdge: %v", err)
	}
	if ok {
		t.Error("expected IsSharedEdge to be false for an edge that was never connected")
	}
}
