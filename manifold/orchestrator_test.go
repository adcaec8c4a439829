package manifold

import (
	"context"
	"errors"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/walkmesh/physics"
)

// TestUpdateFlatPlaneProducesCompleteRingGrid covers §8 scenario 1: a flat
// plane over update((-1,-1),(1,1),-1,1) should yield a 2x2 grid of Complete
// rings, all four-vertex and all pole-only.
func TestUpdateFlatPlaneProducesCompleteRingGrid(t *testing.T) {
	port := physics.NewFlatPlaneScene()
	m := mustNew(port)

	if err := m.Update(Cell{X: -1, Z: -1}, Cell{X: 1, Z: 1}, -1, 1); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if m.State() != StateComplete {
		t.Fatalf("expected StateComplete, got %s", m.State())
	}

	rings := m.Rings()
	if len(rings) != 4 {
		t.Fatalf("expected 4 rings, got %d", len(rings))
	}

	for i, r := range rings {
		if r.Count != 4 {
			t.Errorf("ring %d: expected 4 vertices, got %d", i, r.Count)
		}
		for j := 0; j < r.Count; j++ {
			if int(r.Indices[j]) >= m.PoleVertexCount() {
				t.Errorf("ring %d vertex %d: expected a pole vertex, got index %d >= pole count %d", i, j, r.Indices[j], m.PoleVertexCount())
			}
		}
	}
}

func TestUpdateRejectsDegenerateRangeAsBadInput(t *testing.T) {
	m := mustNew(physics.NewFlatPlaneScene())
	err := m.Update(Cell{X: 0, Z: 0}, Cell{X: 0, Z: 1}, -1, 1)
	if !errors.Is(err, ErrBadInput) {
		t.Fatalf("expected ErrBadInput, got %v", err)
	}
	if m.State() != StateCleared {
		t.Errorf("expected state to remain Cleared after a rejected no-op, got %s", m.State())
	}
}

func TestPartialUpdateOutOfOrderFails(t *testing.T) {
	m := mustNew(physics.NewFlatPlaneScene())
	err := m.PartialUpdateConnectEdges()
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestPartialUpdateSequenceReachesComplete(t *testing.T) {
	m := mustNew(physics.NewFlatPlaneScene())

	if err := m.PartialUpdateCreatePoles(Cell{X: -1, Z: -1}, Cell{X: 1, Z: 1}, -1, 1); err != nil {
		t.Fatalf("create poles: %v", err)
	}
	if err := m.PartialUpdateCreatePartialRings(Cell{X: -1, Z: -1}, Cell{X: 1, Z: 1}); err != nil {
		t.Fatalf("create partial rings: %v", err)
	}
	if err := m.PartialUpdateReconstructRings(); err != nil {
		t.Fatalf("reconstruct rings: %v", err)
	}
	if err := m.PartialUpdateConnectEdges(); err != nil {
		t.Fatalf("connect edges: %v", err)
	}
	if m.State() != StateComplete {
		t.Fatalf("expected StateComplete, got %s", m.State())
	}
}

func TestUpdateAsyncMatchesSyncRingCount(t *testing.T) {
	sync := mustNew(physics.NewFlatPlaneScene())
	if err := sync.Update(Cell{X: -2, Z: -2}, Cell{X: 2, Z: 2}, -1, 1); err != nil {
		t.Fatalf("sync update: %v", err)
	}

	async := mustNew(physics.NewFlatPlaneScene())
	if err := async.UpdateAsync(context.Background(), Cell{X: -2, Z: -2}, Cell{X: 2, Z: 2}, -1, 1, 2); err != nil {
		t.Fatalf("async update: %v", err)
	}

	if len(sync.Rings()) != len(async.Rings()) {
		t.Errorf("expected matching ring counts, got sync=%d async=%d", len(sync.Rings()), len(async.Rings()))
	}
	if async.State() != StateComplete {
		t.Errorf("expected async build to reach StateComplete, got %s", async.State())
	}
}

func TestUpdateAsyncCancellationClearsState(t *testing.T) {
	m := mustNew(physics.NewFlatPlaneScene())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.UpdateAsync(ctx, Cell{X: -4, Z: -4}, Cell{X: 4, Z: 4}, -1, 1, 1)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if m.State() != StateCleared {
		t.Errorf("expected state Cleared after cancellation, got %s", m.State())
	}
	if len(m.Rings()) != 0 {
		t.Errorf("expected no rings after cancellation, got %d", len(m.Rings()))
	}
}

func TestQueriesFailBeforeComplete(t *testing.T) {
	// A freshly-created manifold starts in StateCleared; every query entry
	// point must reject with ErrNotReady rather than operate on whatever
	// (empty) state exists (§5, §7).
	m := mustNew(physics.NewFlatPlaneScene())

	if idx, err := m.FindClosestRingIndex(rl.Vector3{}); !errors.Is(err, ErrNotReady) || idx != -1 {
		t.Errorf("FindClosestRingIndex = (%d, %v), want (-1, ErrNotReady)", idx, err)
	}
	if _, _, err := m.FindClosestPoint(rl.Vector3{}, false); !errors.Is(err, ErrNotReady) {
		t.Errorf("FindClosestPoint err = %v, want ErrNotReady", err)
	}
	if err := m.MarkReachable(0); !errors.Is(err, ErrNotReady) {
		t.Errorf("MarkReachable err = %v, want ErrNotReady", err)
	}
	if _, err := m.IsSharedEdge(0, 1); !errors.Is(err, ErrNotReady) {
		t.Errorf("IsSharedEdge err = %v, want ErrNotReady", err)
	}
	if _, err := m.GetCell(rl.Vector3{}); !errors.Is(err, ErrNotReady) {
		t.Errorf("GetCell err = %v, want ErrNotReady", err)
	}
}
