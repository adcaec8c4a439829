// Package manifold computes a walkable surface manifold — a 2D polygonal
// mesh embedded in 3D — for a cylindrical agent over an arbitrary physics
// scene, and serves closest-point and reachability queries against it.
package manifold

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/walkmesh/physics"
)

// PhaseTimer is the minimal interface the Orchestrator uses for optional
// phase-timing instrumentation (§4.10). telemetry.PhaseTimer satisfies it
// structurally; manifold never imports the telemetry package so the
// dependency stays one-directional (telemetry -> manifold, not back).
type PhaseTimer interface {
	StartBuild()
	StartPhase(phase string)
	EndBuild()
}

// Phase names for the C9 state machine's four build phases, shared with
// telemetry's PhaseTimer/BuildStats so the two packages key timings
// identically without telemetry having to duplicate them.
const (
	PhaseCreatePoles      = "create_poles"
	PhaseCreatePartials   = "create_partial_rings"
	PhaseReconstructRings = "reconstruct_rings"
	PhaseConnectEdges     = "connect_edges"
)

// Manifold holds one build's worth of vertices, poles, rings, and
// connectivity, plus the long-lived containers that are cleared (not freed)
// between builds (§3, §5 "Allocation discipline").
type Manifold struct {
	settings Settings
	port     physics.Port

	state State

	vertices        []vertexRecord
	poleVertexCount int

	poles       map[Cell]Pole
	rings       []Ring
	ringTypes   []RingType
	cellToRings map[Cell][]int32

	partials      []PartialRing
	trueEdgeCache map[trueEdgeKey]int32

	edgeToRing map[EdgeKey]int32

	// Observability hooks; both nil-safe, matching the teacher's
	// nil-receiver-safe OutputManager pattern (DESIGN.md).
	timer  PhaseTimer
	logger *slog.Logger
}

// New creates a Manifold bound to a physics Port, validating settings.
func New(settings Settings, port physics.Port) (*Manifold, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	m := &Manifold{
		settings:      settings,
		port:          port,
		poles:         make(map[Cell]Pole),
		cellToRings:   make(map[Cell][]int32),
		trueEdgeCache: make(map[trueEdgeKey]int32),
		edgeToRing:    make(map[EdgeKey]int32),
	}
	return m, nil
}

// WithTelemetry attaches optional phase-timing and logging hooks (§4.10),
// returning the same Manifold for chaining. timer may be nil (or a nil
// *telemetry.PhaseTimer boxed in the interface, which is itself nil-safe).
func (m *Manifold) WithTelemetry(timer PhaseTimer, logger *slog.Logger) *Manifold {
	m.timer = timer
	m.logger = logger
	return m
}

func (m *Manifold) startBuild() {
	if m.timer != nil {
		m.timer.StartBuild()
	}
}

func (m *Manifold) startPhase(phase string) {
	if m.timer != nil {
		m.timer.StartPhase(phase)
	}
}

func (m *Manifold) endBuild() {
	if m.timer != nil {
		m.timer.EndBuild()
	}
}

// State returns the current lifecycle stage (§3, §5).
func (m *Manifold) State() State { return m.state }

// requireComplete gates the query surface (C7/C6's public methods): queries
// are only legal once the manifold has reached StateComplete (§5, §7).
func (m *Manifold) requireComplete() error {
	if m.state != StateComplete {
		return ErrNotReady
	}
	return nil
}

// Settings returns the settings this manifold was constructed with.
func (m *Manifold) Settings() Settings { return m.settings }

// Clear destroys all in-progress and completed build state, returning to
// StateCleared. It is destructive (§3 "Clearing is destructive"); bulk
// containers are emptied but not freed, so steady-state rebuilds allocate
// nothing (§5).
func (m *Manifold) Clear() {
	m.vertices = m.vertices[:0]
	m.poleVertexCount = 0
	for k := range m.poles {
		delete(m.poles, k)
	}
	m.rings = m.rings[:0]
	m.ringTypes = m.ringTypes[:0]
	for k := range m.cellToRings {
		delete(m.cellToRings, k)
	}
	m.partials = m.partials[:0]
	for k := range m.trueEdgeCache {
		delete(m.trueEdgeCache, k)
	}
	for k := range m.edgeToRing {
		delete(m.edgeToRing, k)
	}
	m.state = StateCleared
}

// Vertices returns the full vertex list (pole segment followed by the
// reconstructed-boundary segment, §3). Each call returns a freshly allocated
// copy of the points; it does not alias internal storage.
func (m *Manifold) Vertices() []rl.Vector3 {
	out := make([]rl.Vector3, len(m.vertices))
	for i, v := range m.vertices {
		out[i] = v.Point
	}
	return out
}

// PoleVertexCount returns the number of vertices in the pole segment.
func (m *Manifold) PoleVertexCount() int { return m.poleVertexCount }

// VertexColliders returns the parallel collider-handle array, sized
// PoleVertexCount (§6 "Read access").
func (m *Manifold) VertexColliders() []uint64 {
	out := make([]uint64, m.poleVertexCount)
	for i := 0; i < m.poleVertexCount; i++ {
		out[i] = m.vertices[i].ColliderID
	}
	return out
}

// Rings returns the completed rings of the current build.
func (m *Manifold) Rings() []Ring { return m.rings }

// RingTypes returns the RingType each entry of Rings() was completed from
// (including RingComplete for cells C4 emitted directly), parallel to
// Rings(). Used by telemetry.ComputeBuildStats to report ring counts by
// type, since partials are discarded once reconstructed (§4.10).
func (m *Manifold) RingTypes() []RingType { return m.ringTypes }

// ColliderForVertex resolves a pole-segment vertex index to the collider
// handle that produced it, or ok=false if idx is not a pole vertex.
func (m *Manifold) ColliderForVertex(idx int32) (colliderID uint64, ok bool) {
	if idx < 0 || int(idx) >= m.poleVertexCount {
		return 0, false
	}
	return m.vertices[idx].ColliderID, true
}

// vertexPoint returns the 3D point for a vertex index.
func (m *Manifold) vertexPoint(i int32) rl.Vector3 { return m.vertices[i].Point }

// appendPoleVertex appends a pole-segment vertex; must only be called
// between poles in contiguous runs (§3 "pole segment ... followed by the
// reconstructed-boundary segment").
func (m *Manifold) appendPoleVertex(p rl.Vector3, colliderID uint64) int32 {
	idx := int32(len(m.vertices))
	m.vertices = append(m.vertices, vertexRecord{Point: p, ColliderID: colliderID})
	m.poleVertexCount++
	return idx
}

// appendBoundaryVertex appends a reconstructed-boundary vertex (no collider).
func (m *Manifold) appendBoundaryVertex(p rl.Vector3) int32 {
	idx := int32(len(m.vertices))
	m.vertices = append(m.vertices, vertexRecord{Point: p})
	return idx
}

// appendRing appends a completed ring, registers it in cellToRings, and
// records its RingType alongside it for RingTypes(). Returns its index.
func (m *Manifold) appendRing(ring Ring, ringType RingType) int32 {
	idx := int32(len(m.rings))
	m.rings = append(m.rings, ring)
	m.ringTypes = append(m.ringTypes, ringType)
	m.cellToRings[ring.Cell] = append(m.cellToRings[ring.Cell], idx)
	return idx
}

func (m *Manifold) logf(msg string, args ...any) {
	if m.logger == nil {
		return
	}
	m.logger.Info(msg, args...)
}
