package manifold

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Cell is an integer coordinate on the XZ grid — either a cell corner
// (used by poles) or a cell itself (used by rings), depending on context.
type Cell struct {
	X, Z int32
}

// cornerOffsets are the four corner offsets of a cell, in the CCW order the
// spec fixes throughout §4.4-§4.5: (0,0), (1,0), (1,1), (0,1).
var cornerOffsets = [4]Cell{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

func (c Cell) add(o Cell) Cell { return Cell{X: c.X + o.X, Z: c.Z + o.Z} }

// Pole is a slice (start, count) into the vertex list for one cell corner;
// vertices within it are strictly descending in Y (§3, §4.3).
type Pole struct {
	Start, Count int32
}

// RingType classifies a (partial) ring by which of its four corner poles
// contributed a vertex (§4.4 step 6).
type RingType uint8

const (
	RingInvalid RingType = iota
	RingCorner
	RingEdge
	RingDiagonal
	RingInvertedCorner
	RingComplete
)

func (t RingType) String() string {
	switch t {
	case RingInvalid:
		return "Invalid"
	case RingCorner:
		return "Corner"
	case RingEdge:
		return "Edge"
	case RingDiagonal:
		return "Diagonal"
	case RingInvertedCorner:
		return "InvertedCorner"
	case RingComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// maxRingVertices bounds a completed ring's vertex count (§3). The largest
// ring is a Diagonal one: two pole corners plus four reconstructed boundary
// vertices.
const maxRingVertices = 6

// Ring is a convex polygon occupying one grid cell (§3).
type Ring struct {
	Cell    Cell
	Count   int
	Indices [maxRingVertices]int32
	Marked  bool
}

// Edge returns the directed edge (u,v) for edge i of the ring.
func (r *Ring) Edge(i int) (u, v int32) {
	u = r.Indices[i]
	v = r.Indices[(i+1)%r.Count]
	return
}

// PartialRing is the intermediate record C4 emits for cells that did not
// produce a Complete ring (§3, §4.4).
type PartialRing struct {
	Cell Cell
	V    [4]int32 // vertex index, or -1 if this corner did not contribute
	P    [4]Cell  // corner offsets, aligned 1:1 with V
	Type RingType
}

// EdgeKey is a directed edge (u,v) used as a map key in the connectivity
// index (§3, §4.6).
type EdgeKey struct {
	U, V int32
}

func (e EdgeKey) reverse() EdgeKey { return EdgeKey{U: e.V, V: e.U} }

// trueEdgeKey is the true-edge cache key (§3): a source pole vertex plus the
// integer cell-corner direction offset being probed.
type trueEdgeKey struct {
	Src int32
	Dir Cell
}

// State is the Orchestrator's lifecycle stage (§3, §5).
type State uint8

const (
	StateCleared State = iota
	StateCreatingPoles
	StateCreatingPartials
	StateReconstructing
	StateConnectingEdges
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateCleared:
		return "Cleared"
	case StateCreatingPoles:
		return "CreatingPoles"
	case StateCreatingPartials:
		return "CreatingPartials"
	case StateReconstructing:
		return "Reconstructing"
	case StateConnectingEdges:
		return "ConnectingEdges"
	case StateComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// vertexRecord is one entry of the vertex list (§3): a 3D point plus, for
// pole vertices only, the collider handle that produced it.
type vertexRecord struct {
	Point      rl.Vector3
	ColliderID uint64
}
