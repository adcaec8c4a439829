package telemetry

import (
	"testing"

	"github.com/pthm-cable/walkmesh/manifold"
	"github.com/pthm-cable/walkmesh/physics"
)

func testSettings() manifold.Settings {
	return manifold.Settings{
		AgentRadius:              0.2,
		AgentHeight:              1.0,
		StepHeight:               0.35,
		MaxSurfaceAngle:          45,
		CellSize:                 1.0,
		EdgeReconstruction:       true,
		CornerReconstruction:     true,
		ReconstructionIterations: 5,
		WalkableLayers:           physics.LayerWalkable,
		BlockingLayers:           physics.LayerBlocking,
		RelevantLayers:           physics.LayerWalkable | physics.LayerBlocking,
		SurfaceNormalYThreshold:  0.7,
	}
}

func TestComputeBuildStatsEmptyManifold(t *testing.T) {
	port := physics.NewFlatPlaneScene()
	m, err := manifold.New(testSettings(), port)
	if err != nil {
		t.Fatalf("manifold.New: %v", err)
	}

	timer := NewPhaseTimer()
	timer.StartBuild()
	timer.StartPhase(manifold.PhaseCreatePoles)
	timer.EndBuild()

	stats := ComputeBuildStats(0, m, nil, timer)

	if stats.PoleCount != 0 {
		t.Errorf("expected zero poles on an empty manifold, got %d", stats.PoleCount)
	}
	if stats.TotalVertices != 0 {
		t.Errorf("expected zero vertices on an empty manifold, got %d", stats.TotalVertices)
	}
	if stats.TotalUS < 0 {
		t.Error("expected non-negative total duration")
	}
}

func TestComputeBuildStatsRingTypeCounts(t *testing.T) {
	port := physics.NewFlatPlaneScene()
	m, err := manifold.New(testSettings(), port)
	if err != nil {
		t.Fatalf("manifold.New: %v", err)
	}

	ringTypes := []manifold.RingType{
		manifold.RingComplete,
		manifold.RingComplete,
		manifold.RingCorner,
		manifold.RingEdge,
		manifold.RingDiagonal,
		manifold.RingInvertedCorner,
	}

	stats := ComputeBuildStats(1, m, ringTypes, nil)

	if stats.CompleteRings != 2 {
		t.Errorf("expected 2 complete rings, got %d", stats.CompleteRings)
	}
	if stats.CornerRings != 1 || stats.EdgeRings != 1 || stats.DiagonalRings != 1 || stats.InvertedCornerRings != 1 {
		t.Errorf("expected one of each partial ring type, got %+v", stats)
	}
	if stats.TotalUS != 0 {
		t.Error("expected zero timing fields with a nil PhaseTimer")
	}
}
