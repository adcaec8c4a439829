package manifold

import "fmt"

// Settings is the immutable per-build configuration the manifold consumes
// (§4.1). Use config.Config.ToManifoldSettings to derive one from a loaded
// YAML document.
type Settings struct {
	AgentRadius              float32
	AgentHeight              float32
	StepHeight               float32
	MaxSurfaceAngle          float32 // degrees, 0-90
	CellSize                 float32
	EdgeReconstruction       bool
	CornerReconstruction     bool
	ReconstructionIterations int
	WalkableLayers           uint32
	BlockingLayers           uint32

	// Derived fields; populated by config.Config.ToManifoldSettings, or set
	// directly by a caller constructing a Settings literal by hand.
	RelevantLayers          uint32
	SurfaceNormalYThreshold float32

	SyncPhysicsOnUpdate bool
}

// Validate reports ErrInvalidConfig, wrapped with the offending field, if any
// value is out of the range §6 documents.
func (s Settings) Validate() error {
	switch {
	case s.AgentRadius <= 0:
		return fmt.Errorf("agentRadius must be > 0: %w", ErrInvalidConfig)
	case s.AgentHeight <= 0:
		return fmt.Errorf("agentHeight must be > 0: %w", ErrInvalidConfig)
	case s.StepHeight < 0:
		return fmt.Errorf("stepHeight must be >= 0: %w", ErrInvalidConfig)
	case s.MaxSurfaceAngle < 0 || s.MaxSurfaceAngle > 90:
		return fmt.Errorf("maxSurfaceAngle must be in [0,90]: %w", ErrInvalidConfig)
	case s.CellSize < 0.01:
		return fmt.Errorf("cellSize must be >= 0.01: %w", ErrInvalidConfig)
	case s.ReconstructionIterations < 0:
		return fmt.Errorf("reconstructionIterations must be >= 0: %w", ErrInvalidConfig)
	}
	return nil
}

// capsuleEndpoints returns the two endpoints (relative offsets above a
// ground point) of the headroom capsule described in §4.1.
func (s Settings) capsuleEndpoints() (lowOffset, highOffset float32) {
	return s.StepHeight + s.AgentRadius, s.AgentHeight - s.AgentRadius
}
