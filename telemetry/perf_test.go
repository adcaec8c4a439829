package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/walkmesh/manifold"
)

func TestPhaseTimer_BasicTiming(t *testing.T) {
	pt := NewPhaseTimer()

	pt.StartBuild()
	pt.StartPhase(manifold.PhaseCreatePoles)
	time.Sleep(100 * time.Microsecond)
	pt.StartPhase(manifold.PhaseCreatePartials)
	time.Sleep(200 * time.Microsecond)
	pt.EndBuild()

	if pt.Total() <= 0 {
		t.Error("expected positive total build duration")
	}
	if pt.Phase(manifold.PhaseCreatePoles) <= 0 {
		t.Error("expected create_poles phase to be tracked")
	}
	if pt.Phase(manifold.PhaseCreatePartials) <= 0 {
		t.Error("expected create_partial_rings phase to be tracked")
	}
	if pt.Phase(manifold.PhaseCreatePartials) < pt.Phase(manifold.PhaseCreatePoles) {
		t.Errorf("expected create_partials (%v) >= create_poles (%v)", pt.Phase(manifold.PhaseCreatePartials), pt.Phase(manifold.PhaseCreatePoles))
	}
}

func TestPhaseTimer_AccumulatesAcrossRepeatedCalls(t *testing.T) {
	pt := NewPhaseTimer()

	pt.StartBuild()
	pt.StartPhase(manifold.PhaseCreatePoles)
	time.Sleep(50 * time.Microsecond)
	pt.StartPhase(manifold.PhaseConnectEdges)
	time.Sleep(10 * time.Microsecond)
	// A chunked async build resumes create_poles before finishing.
	pt.StartPhase(manifold.PhaseCreatePoles)
	time.Sleep(50 * time.Microsecond)
	pt.EndBuild()

	if pt.Phase(manifold.PhaseCreatePoles) < 90*time.Microsecond {
		t.Errorf("expected accumulated create_poles duration across both spans, got %v", pt.Phase(manifold.PhaseCreatePoles))
	}
}

func TestPhaseTimer_NilSafe(t *testing.T) {
	var pt *PhaseTimer

	pt.StartBuild()
	pt.StartPhase(manifold.PhaseCreatePoles)
	pt.EndBuild()

	if pt.Total() != 0 {
		t.Error("expected zero total duration on a nil PhaseTimer")
	}
	if pt.Phase(manifold.PhaseCreatePoles) != 0 {
		t.Error("expected zero phase duration on a nil PhaseTimer")
	}

	pt.LogBuild(nil) // must not panic
}

func TestPhaseTimer_EmptyBuildIsZero(t *testing.T) {
	pt := NewPhaseTimer()
	pt.StartBuild()
	pt.EndBuild()

	if pt.Total() < 0 {
		t.Error("expected non-negative total duration for an empty build")
	}
	if pt.Phase(manifold.PhaseCreatePoles) != 0 {
		t.Error("expected zero duration for a phase that never started")
	}
}
