// Package main provides a demo CLI that builds a walkable surface manifold
// over one of the synthetic test scenes and reports the result (§4.11).
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/walkmesh/config"
	"github.com/pthm-cable/walkmesh/manifold"
	"github.com/pthm-cable/walkmesh/physics"
	"github.com/pthm-cable/walkmesh/telemetry"
)

// sceneBuilders maps a --scene flag value to the §8 fixture it builds, one
// per scene constructor in physics/scenes.go.
var sceneBuilders = map[string]func() *physics.Synthetic{
	"flat": physics.NewFlatPlaneScene,
	"staircase": func() *physics.Synthetic {
		return physics.NewStaircaseScene(0.3)
	},
	"steptoohigh": func() *physics.Synthetic {
		return physics.NewStepTooHighScene(1.5)
	},
	"lowceiling": func() *physics.Synthetic {
		return physics.NewLowCeilingScene(0.8)
	},
	"slopedramp": func() *physics.Synthetic {
		return physics.NewSlopedRampScene(50)
	},
	"movingplatform": func() *physics.Synthetic {
		s, _ := physics.NewMovingPlatformScene(rl.Vector3{X: 1, Y: 0, Z: 0})
		return s
	},
}

func main() {
	configPath := flag.String("config", "", "Settings YAML file (empty = use embedded defaults)")
	scene := flag.String("scene", "flat", "Scene to build over: flat, staircase, steptoohigh, lowceiling, slopedramp, movingplatform")
	cellMinX := flag.Int("cell-min-x", -10, "Minimum grid corner X")
	cellMinZ := flag.Int("cell-min-z", -10, "Minimum grid corner Z")
	cellMaxX := flag.Int("cell-max-x", 10, "Maximum grid corner X")
	cellMaxZ := flag.Int("cell-max-z", 10, "Maximum grid corner Z")
	yMin := flag.Float64("y-min", -5, "Bottom of the vertical sampling band")
	yMax := flag.Float64("y-max", 5, "Top of the vertical sampling band")
	outputDir := flag.String("output", "", "Output directory for build_stats.csv and config.yaml (empty = no file output)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	build, ok := sceneBuilders[*scene]
	if !ok {
		log.Fatalf("unknown scene %q", *scene)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg := config.Cfg()
	settings := cfg.ToManifoldSettings()

	port := build()

	m, err := manifold.New(settings, port)
	if err != nil {
		log.Fatalf("creating manifold: %v", err)
	}

	timer := telemetry.NewPhaseTimer()
	m.WithTelemetry(timer, logger)

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("creating output manager: %v", err)
	}
	defer out.Close()

	if err := out.WriteConfig(cfg); err != nil {
		log.Fatalf("writing config: %v", err)
	}

	cellMin := manifold.Cell{X: int32(*cellMinX), Z: int32(*cellMinZ)}
	cellMax := manifold.Cell{X: int32(*cellMaxX), Z: int32(*cellMaxZ)}

	if err := m.Update(cellMin, cellMax, float32(*yMin), float32(*yMax)); err != nil {
		log.Fatalf("building manifold: %v", err)
	}

	timer.LogBuild(logger)

	stats := telemetry.ComputeBuildStats(0, m, m.RingTypes(), timer)
	stats.LogStats()
	if err := out.WriteBuildStats(stats); err != nil {
		log.Fatalf("writing build stats: %v", err)
	}

	fmt.Printf("build complete: %d poles, %d rings (%d complete), %d total vertices\n",
		m.PoleVertexCount(), len(m.Rings()), stats.CompleteRings, len(m.Vertices()))
	if *outputDir != "" {
		fmt.Printf("wrote report to %s\n", out.Dir())
	}
}
