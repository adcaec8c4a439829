// Package config provides configuration loading and access for the walkable
// surface manifold pipeline.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/walkmesh/manifold"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// minCellSize is the floor applied to CellSize at ingest (§6 of the spec).
const minCellSize = 0.01

// Config holds all settings for one manifold build, in persisted (YAML) form.
type Config struct {
	Agent   AgentConfig   `yaml:"agent"`
	Grid    GridConfig    `yaml:"grid"`
	Physics PhysicsConfig `yaml:"physics"`
	Layers  LayersConfig  `yaml:"layers"`
}

// AgentConfig holds the cylindrical agent's dimensions and the step/slope
// policy used to decide where it can stand.
type AgentConfig struct {
	Radius          float64 `yaml:"radius"`
	Height          float64 `yaml:"height"`
	StepHeight      float64 `yaml:"step_height"`
	MaxSurfaceAngle float64 `yaml:"max_surface_angle"` // degrees, 0-90
}

// GridConfig holds the XZ sampling resolution and reconstruction policy.
type GridConfig struct {
	CellSize                 float64 `yaml:"cell_size"`
	EdgeReconstruction       bool    `yaml:"edge_reconstruction"`
	CornerReconstruction     bool    `yaml:"corner_reconstruction"`
	ReconstructionIterations int     `yaml:"reconstruction_iterations"`
}

// PhysicsConfig holds physics-backend coordination flags.
type PhysicsConfig struct {
	SyncPhysicsOnUpdate bool `yaml:"sync_physics_on_update"`
}

// LayersConfig holds the physics-layer bitmasks that gate pole acceptance.
type LayersConfig struct {
	Walkable uint32 `yaml:"walkable"`
	Blocking uint32 `yaml:"blocking"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.clamp()
	return cfg, nil
}

// clamp enforces the ingest-time clamps the schema documents (§6): cell size
// is floored, reconstruction iteration count cannot be negative.
func (c *Config) clamp() {
	if c.Grid.CellSize < minCellSize {
		c.Grid.CellSize = minCellSize
	}
	if c.Grid.ReconstructionIterations < 0 {
		c.Grid.ReconstructionIterations = 0
	}
}

// WriteYAML saves the configuration to the given path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ToManifoldSettings derives the immutable manifold.Settings value the
// construction pipeline consumes, computing the fields the persisted schema
// leaves implicit (relevantLayers, surfaceNormalYThreshold).
func (c *Config) ToManifoldSettings() manifold.Settings {
	maxAngleRad := c.Agent.MaxSurfaceAngle * math.Pi / 180
	return manifold.Settings{
		AgentRadius:              float32(c.Agent.Radius),
		AgentHeight:              float32(c.Agent.Height),
		StepHeight:               float32(c.Agent.StepHeight),
		MaxSurfaceAngle:          float32(c.Agent.MaxSurfaceAngle),
		CellSize:                 float32(c.Grid.CellSize),
		EdgeReconstruction:       c.Grid.EdgeReconstruction,
		CornerReconstruction:     c.Grid.CornerReconstruction,
		ReconstructionIterations: c.Grid.ReconstructionIterations,
		WalkableLayers:           c.Layers.Walkable,
		BlockingLayers:           c.Layers.Blocking,
		RelevantLayers:           c.Layers.Walkable | c.Layers.Blocking,
		SurfaceNormalYThreshold:  float32(math.Cos(maxAngleRad)),
		SyncPhysicsOnUpdate:      c.Physics.SyncPhysicsOnUpdate,
	}
}
