package manifold

import (
	"context"
	"fmt"
	"runtime"
)

// Update is the atomic build of §4.9: Clear -> CreatePoles -> CreatePartialRings
// -> ReconstructRings -> ConnectEdges -> Complete, run synchronously over the
// full range. A degenerate range (cellMax <= cellMin on either axis, or
// yMax <= yMin) is a no-op, not a fatal error (§7 BadInput).
func (m *Manifold) Update(cellMin, cellMax Cell, yMin, yMax float32) error {
	if cellMax.X <= cellMin.X || cellMax.Z <= cellMin.Z || yMax <= yMin {
		return ErrBadInput
	}

	m.Clear()
	if m.settings.SyncPhysicsOnUpdate {
		m.port.SyncTransforms()
	}

	m.startBuild()

	m.startPhase(PhaseCreatePoles)
	m.createPoles(cellMin, cellMax, yMin, yMax)
	m.state = StateCreatingPoles

	m.startPhase(PhaseCreatePartials)
	m.createPartialRings(cellMin, cellMax)
	m.state = StateCreatingPartials

	m.startPhase(PhaseReconstructRings)
	m.reconstructRings()
	m.state = StateReconstructing

	m.startPhase(PhaseConnectEdges)
	m.connectEdges()
	m.state = StateComplete

	m.endBuild()
	return nil
}

// PartialUpdateCreatePoles is the C3 primitive of §4.9: legal from Cleared
// (first call) or CreatingPoles (accumulating further disjoint rectangles
// before advancing to the next phase); any other state is InvalidOrder.
func (m *Manifold) PartialUpdateCreatePoles(cellMin, cellMax Cell, yMin, yMax float32) error {
	if cellMax.X <= cellMin.X || cellMax.Z <= cellMin.Z || yMax <= yMin {
		return ErrBadInput
	}
	if m.state != StateCleared && m.state != StateCreatingPoles {
		return fmt.Errorf("manifold: create poles requires Cleared or CreatingPoles, got %s: %w", m.state, ErrInvalidOrder)
	}
	m.createPoles(cellMin, cellMax, yMin, yMax)
	m.state = StateCreatingPoles
	return nil
}

// PartialUpdateCreatePartialRings is the C4 primitive of §4.9.
func (m *Manifold) PartialUpdateCreatePartialRings(cellMin, cellMax Cell) error {
	if cellMax.X <= cellMin.X || cellMax.Z <= cellMin.Z {
		return ErrBadInput
	}
	if m.state != StateCreatingPoles && m.state != StateCreatingPartials {
		return fmt.Errorf("manifold: create partial rings requires CreatingPoles or CreatingPartials, got %s: %w", m.state, ErrInvalidOrder)
	}
	m.createPartialRings(cellMin, cellMax)
	m.state = StateCreatingPartials
	return nil
}

// PartialUpdateReconstructRings is the C5 primitive of §4.9: drains whatever
// partial rings are currently pending (accumulated by any prior
// PartialUpdateCreatePartialRings calls since the last drain).
func (m *Manifold) PartialUpdateReconstructRings() error {
	if m.state != StateCreatingPartials && m.state != StateReconstructing {
		return fmt.Errorf("manifold: reconstruct rings requires CreatingPartials or Reconstructing, got %s: %w", m.state, ErrInvalidOrder)
	}
	m.reconstructRings()
	m.state = StateReconstructing
	return nil
}

// PartialUpdateConnectEdges is the C6 primitive of §4.9. It is the terminal
// step of the ordered build: a successful call reaches Complete directly,
// since nothing observes the transient ConnectingEdges state in a
// single-threaded, non-yielding step.
func (m *Manifold) PartialUpdateConnectEdges() error {
	if m.state != StateReconstructing && m.state != StateConnectingEdges && m.state != StateComplete {
		return fmt.Errorf("manifold: connect edges requires Reconstructing, got %s: %w", m.state, ErrInvalidOrder)
	}
	m.connectEdges()
	m.state = StateComplete
	return nil
}

// UpdateAsync is §4.9's batched build: pole sampling yields cooperatively
// between chunkSize x chunkSize cell tiles, ring reconstruction yields
// between slices of max(1, chunkSize^2/(1+reconstructionIterations)) partial
// rings. Every yield observes ctx for cancellation; on cancel the manifold is
// cleared and ErrCancelled is returned, never leaving an intermediate state
// visible to the caller (§5).
func (m *Manifold) UpdateAsync(ctx context.Context, cellMin, cellMax Cell, yMin, yMax float32, chunkSize int) error {
	if cellMax.X <= cellMin.X || cellMax.Z <= cellMin.Z || yMax <= yMin {
		return ErrBadInput
	}
	if chunkSize < 1 {
		chunkSize = 1
	}

	m.Clear()
	if m.settings.SyncPhysicsOnUpdate {
		m.port.SyncTransforms()
	}

	m.startBuild()

	m.startPhase(PhaseCreatePoles)
	for xBase := cellMin.X; xBase < cellMax.X; xBase += int32(chunkSize) {
		xEnd := minI32(xBase+int32(chunkSize), cellMax.X)
		for zBase := cellMin.Z; zBase < cellMax.Z; zBase += int32(chunkSize) {
			zEnd := minI32(zBase+int32(chunkSize), cellMax.Z)
			m.createPoles(Cell{X: xBase, Z: zBase}, Cell{X: xEnd, Z: zEnd}, yMin, yMax)
			if err := m.yield(ctx); err != nil {
				return err
			}
		}
	}
	m.state = StateCreatingPoles

	m.startPhase(PhaseCreatePartials)
	m.createPartialRings(cellMin, cellMax)
	m.state = StateCreatingPartials
	if err := m.yield(ctx); err != nil {
		return err
	}

	m.startPhase(PhaseReconstructRings)
	sliceSize := maxI(1, chunkSize*chunkSize/(1+m.settings.ReconstructionIterations))
	cursor := 0
	for cursor < len(m.partials) {
		end := minI(cursor+sliceSize, len(m.partials))
		m.reconstructRingSlice(m.partials[cursor:end])
		cursor = end
		if err := m.yield(ctx); err != nil {
			return err
		}
	}
	m.partials = m.partials[:0]
	m.state = StateReconstructing

	m.startPhase(PhaseConnectEdges)
	m.connectEdges()
	m.state = StateComplete

	m.endBuild()
	return nil
}

// yield hands control back to the scheduler and checks for cancellation,
// clearing all in-progress state if the caller cancelled (§5).
func (m *Manifold) yield(ctx context.Context) error {
	runtime.Gosched()
	select {
	case <-ctx.Done():
		m.Clear()
		return fmt.Errorf("manifold: build cancelled: %w", ErrCancelled)
	default:
		return nil
	}
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func minI(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}
