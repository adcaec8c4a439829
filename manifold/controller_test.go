package manifold

import (
	"errors"
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/walkmesh/physics"
)

func TestPositionHistoryResetFillsBuffer(t *testing.T) {
	h := NewPositionHistory(20, 1, rl.Vector3{X: 1})
	for i, p := range h.buffer {
		if p != (rl.Vector3{X: 1}) {
			t.Errorf("slot %d: expected (1,0,0), got %v", i, p)
		}
	}
}

func TestPositionHistoryPushPlacesNewestAtFront(t *testing.T) {
	h := NewPositionHistory(20, 1, rl.Vector3{})
	h.Push(rl.Vector3{X: 5})
	if h.buffer[0] != (rl.Vector3{X: 5}) {
		t.Errorf("expected newest push at index 0, got %v", h.buffer[0])
	}
}

func TestPositionHistoryZeroCarryThresholdAlwaysFullyShifts(t *testing.T) {
	h := NewPositionHistory(2, 0, rl.Vector3{})
	first := rl.Vector3{X: 1}
	second := rl.Vector3{X: 2}
	h.Push(first)
	h.Push(second)
	if h.buffer[0] != second {
		t.Errorf("expected index 0 == second push, got %v", h.buffer[0])
	}
	if h.buffer[1] != first {
		t.Errorf("expected index 1 == first push (shifted back), got %v", h.buffer[1])
	}
}

func TestControllerMoveOnFlatPlaneSucceeds(t *testing.T) {
	port := physics.NewFlatPlaneScene()
	m := mustNew(port)
	c := NewController(m, port, DefaultControllerConfig(), rl.Vector3{X: 0, Y: 0, Z: 0})

	if err := c.Move(rl.Vector3{X: 0.5, Y: 0, Z: 0}); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if math.Abs(float64(c.Position().X-0.5)) > 0.15 {
		t.Errorf("expected position.X ~ 0.5, got %f", c.Position().X)
	}
}

func TestControllerSimpleMoveScalesByDt(t *testing.T) {
	port := physics.NewFlatPlaneScene()
	m := mustNew(port)
	c := NewController(m, port, DefaultControllerConfig(), rl.Vector3{})

	if err := c.SimpleMove(rl.Vector3{X: 1, Z: 0}, 0.5); err != nil {
		t.Fatalf("SimpleMove: %v", err)
	}
	if math.Abs(float64(c.Position().X-0.5)) > 0.15 {
		t.Errorf("expected position.X ~ 0.5, got %f", c.Position().X)
	}
}

func TestControllerMoveFailsWithNoSurface(t *testing.T) {
	port := physics.NewSynthetic() // no colliders anywhere
	m := mustNew(port)
	c := NewController(m, port, DefaultControllerConfig(), rl.Vector3{})

	err := c.Move(rl.Vector3{X: 1})
	if !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
}

func TestControllerResetPositionHistoryReseedsToCurrentPosition(t *testing.T) {
	port := physics.NewFlatPlaneScene()
	m := mustNew(port)
	c := NewController(m, port, DefaultControllerConfig(), rl.Vector3{X: 3})

	c.position = rl.Vector3{X: 7}
	c.ResetPositionHistory()

	last := c.history.buffer[len(c.history.buffer)-1]
	if last != (rl.Vector3{X: 7}) {
		t.Errorf("expected history reseeded to (7,0,0), got %v", last)
	}
}
