package manifold

import "github.com/pthm-cable/walkmesh/physics"

// testSettings mirrors config/defaults.yaml's values so tests exercise the
// same defaults the demo CLI does.
func testSettings() Settings {
	s := Settings{
		AgentRadius:              0.2,
		AgentHeight:              1.0,
		StepHeight:               0.35,
		MaxSurfaceAngle:          45,
		CellSize:                1.0,
		EdgeReconstruction:       true,
		CornerReconstruction:     true,
		ReconstructionIterations: 5,
		WalkableLayers:           physics.LayerWalkable,
		BlockingLayers:           physics.LayerBlocking,
		SyncPhysicsOnUpdate:      true,
	}
	s.RelevantLayers = s.WalkableLayers | s.BlockingLayers
	s.SurfaceNormalYThreshold = 0.70710678 // cos(45deg)
	return s
}

func mustNew(port physics.Port) *Manifold {
	m, err := New(testSettings(), port)
	if err != nil {
		panic(err)
	}
	return m
}
