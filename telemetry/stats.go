package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/walkmesh/manifold"
)

// BuildStats holds aggregated statistics for one completed manifold build
// (§4.10), flat enough for direct CSV export via gocsv.
type BuildStats struct {
	BuildIndex int32 `csv:"build_index"`

	PoleCount               int `csv:"poles"`
	CornerRings             int `csv:"corner_rings"`
	EdgeRings               int `csv:"edge_rings"`
	DiagonalRings           int `csv:"diagonal_rings"`
	InvertedCornerRings     int `csv:"inverted_corner_rings"`
	CompleteRings           int `csv:"complete_rings"`
	ReconstructedVertices   int `csv:"reconstructed_vertices"`
	BoundaryEdges           int `csv:"boundary_edges"`
	TotalVertices           int `csv:"total_vertices"`

	TotalUS          int64 `csv:"total_us"`
	CreatePolesUS    int64 `csv:"create_poles_us"`
	CreatePartialsUS int64 `csv:"create_partials_us"`
	ReconstructUS    int64 `csv:"reconstruct_us"`
	ConnectEdgesUS   int64 `csv:"connect_edges_us"`
}

// ComputeBuildStats summarizes a completed manifold build and its timer.
// ringTypes gives the RingType each ring was built from (§4.4 step 6),
// Complete rings included, since a Manifold does not retain non-Complete
// partials once reconstructed.
func ComputeBuildStats(buildIndex int32, m *manifold.Manifold, ringTypes []manifold.RingType, timer *PhaseTimer) BuildStats {
	stats := BuildStats{
		BuildIndex:            buildIndex,
		PoleCount:             m.PoleVertexCount(),
		ReconstructedVertices: len(m.Vertices()) - m.PoleVertexCount(),
		TotalVertices:         len(m.Vertices()),
	}

	for _, t := range ringTypes {
		switch t {
		case manifold.RingCorner:
			stats.CornerRings++
		case manifold.RingEdge:
			stats.EdgeRings++
		case manifold.RingDiagonal:
			stats.DiagonalRings++
		case manifold.RingInvertedCorner:
			stats.InvertedCornerRings++
		case manifold.RingComplete:
			stats.CompleteRings++
		}
	}

	for _, r := range m.Rings() {
		for i := 0; i < r.Count; i++ {
			u, v := r.Edge(i)
			if shared, err := m.IsSharedEdge(u, v); err == nil && !shared {
				stats.BoundaryEdges++
			}
		}
	}

	if timer != nil {
		stats.TotalUS = timer.Total().Microseconds()
		stats.CreatePolesUS = timer.Phase(manifold.PhaseCreatePoles).Microseconds()
		stats.CreatePartialsUS = timer.Phase(manifold.PhaseCreatePartials).Microseconds()
		stats.ReconstructUS = timer.Phase(manifold.PhaseReconstructRings).Microseconds()
		stats.ConnectEdgesUS = timer.Phase(manifold.PhaseConnectEdges).Microseconds()
	}

	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s BuildStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("build_index", int(s.BuildIndex)),
		slog.Int("poles", s.PoleCount),
		slog.Int("corner_rings", s.CornerRings),
		slog.Int("edge_rings", s.EdgeRings),
		slog.Int("diagonal_rings", s.DiagonalRings),
		slog.Int("inverted_corner_rings", s.InvertedCornerRings),
		slog.Int("complete_rings", s.CompleteRings),
		slog.Int("reconstructed_vertices", s.ReconstructedVertices),
		slog.Int("boundary_edges", s.BoundaryEdges),
		slog.Int64("total_us", s.TotalUS),
	)
}

// LogStats logs the build stats using slog.
func (s BuildStats) LogStats() {
	slog.Info("manifold_build_stats", "stats", s)
}
