package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/walkmesh/config"
)

// OutputManager handles structured build-report output: one CSV row per
// completed manifold build, plus the config that produced it. A nil
// *OutputManager is valid and every method is a no-op on it, mirroring the
// teacher's nil-receiver-safe pattern for "output disabled" (DESIGN.md).
type OutputManager struct {
	dir        string
	statsFile  *os.File
	headerDone bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	statsPath := filepath.Join(dir, "build_stats.csv")
	f, err := os.Create(statsPath)
	if err != nil {
		return nil, fmt.Errorf("creating build_stats.csv: %w", err)
	}

	return &OutputManager{dir: dir, statsFile: f}, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteBuildStats writes a BuildStats record to build_stats.csv, writing the
// header only on the first call (gocsv's header-once/no-header-after
// pattern, unchanged from the teacher's WriteTelemetry).
func (om *OutputManager) WriteBuildStats(stats BuildStats) error {
	if om == nil {
		return nil
	}

	records := []BuildStats{stats}

	if !om.headerDone {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing build stats: %w", err)
		}
		om.headerDone = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
			return fmt.Errorf("writing build stats: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes the output file.
func (om *OutputManager) Close() error {
	if om == nil || om.statsFile == nil {
		return nil
	}
	return om.statsFile.Close()
}
