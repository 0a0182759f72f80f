package canvas

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDoublePressBackgroundOpensNewEditor(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	if actions := r.Press("", 120, 80, 0, 0, false, t0); len(actions) != 0 {
		t.Fatalf("first press should emit nothing, got %v", actions)
	}
	actions := r.Press("", 120, 80, 0, 0, false, t0.Add(200*time.Millisecond))
	if len(actions) != 1 {
		t.Fatalf("expected one action, got %v", actions)
	}
	open, ok := actions[0].(OpenEditor)
	if !ok {
		t.Fatalf("expected OpenEditor, got %T", actions[0])
	}
	if open.NoteID != "" || open.X != 120 || open.Y != 80 {
		t.Fatalf("unexpected OpenEditor %+v", open)
	}
}

func TestDistantBackgroundPressesDoNotOpenEditor(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("", 20, 20, 0, 0, false, t0)
	if actions := r.Press("", 600, 400, 0, 0, false, t0.Add(100*time.Millisecond)); len(actions) != 0 {
		t.Fatalf("far-apart presses are separate clicks, got %v", actions)
	}
	actions := r.Press("", 604, 403, 0, 0, false, t0.Add(200*time.Millisecond))
	if len(actions) != 1 {
		t.Fatalf("a near second press should still double-activate, got %v", actions)
	}
	if open, ok := actions[0].(OpenEditor); !ok || open.X != 604 || open.Y != 403 {
		t.Fatalf("expected OpenEditor at the second point, got %v", actions[0])
	}
}

func TestDoublePressNoteOpensExistingEditor(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("n1", 55, 57, 50, 50, false, t0)
	actions := r.Press("n1", 55, 57, 50, 50, false, t0.Add(150*time.Millisecond))
	if len(actions) != 1 {
		t.Fatalf("expected one action, got %v", actions)
	}
	open, ok := actions[0].(OpenEditor)
	if !ok {
		t.Fatalf("expected OpenEditor, got %T", actions[0])
	}
	if open.NoteID != "n1" {
		t.Fatalf("expected editor bound to n1, got %+v", open)
	}
	if open.X != 50 || open.Y != 50 {
		t.Fatalf("editor position should be the note origin, got %+v", open)
	}
	if r.Dragging() {
		t.Fatalf("double press must not leave a drag running")
	}
}

func TestSlowSecondPressDoesNotOpenEditor(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("n1", 55, 57, 50, 50, false, t0)
	r.Release(55, 57, t0.Add(50*time.Millisecond))
	if actions := r.Press("n1", 55, 57, 50, 50, false, t0.Add(400*time.Millisecond)); len(actions) != 0 {
		t.Fatalf("press outside the window should arm silently, got %v", actions)
	}
}

func TestDoublePressDifferentTargetsDoesNotOpen(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("n1", 55, 57, 50, 50, false, t0)
	if actions := r.Press("n2", 90, 90, 85, 85, false, t0.Add(100*time.Millisecond)); len(actions) != 0 {
		t.Fatalf("presses on different notes are not a double activation, got %v", actions)
	}
}

func TestMousePressAndMoveBeginsDragImmediately(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("n1", 55, 57, 50, 50, false, t0)
	actions := r.Move(60, 62, t0.Add(20*time.Millisecond))
	if len(actions) != 2 {
		t.Fatalf("expected BeginDrag+DragMove, got %v", actions)
	}
	begin, ok := actions[0].(BeginDrag)
	if !ok {
		t.Fatalf("expected BeginDrag first, got %T", actions[0])
	}
	if begin.NoteID != "n1" || begin.OffsetX != 5 || begin.OffsetY != 7 {
		t.Fatalf("unexpected BeginDrag %+v", begin)
	}
	move, ok := actions[1].(DragMove)
	if !ok {
		t.Fatalf("expected DragMove second, got %T", actions[1])
	}
	if move.X != 60 || move.Y != 62 {
		t.Fatalf("unexpected DragMove %+v", move)
	}

	end := r.Release(70, 70, t0.Add(time.Second))
	if len(end) != 1 {
		t.Fatalf("expected DragEnd, got %v", end)
	}
	if _, ok := end[0].(DragEnd); !ok {
		t.Fatalf("expected DragEnd, got %T", end[0])
	}
	if r.Dragging() {
		t.Fatalf("release must end the drag")
	}
}

func TestNoDragWhileEditing(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	r.SetEditing(true)

	r.Press("n1", 55, 57, 50, 50, false, t0)
	if actions := r.Move(80, 80, t0.Add(20*time.Millisecond)); len(actions) != 0 {
		t.Fatalf("editing suppresses drags, got %v", actions)
	}
}

func TestBackgroundPressNeverDrags(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("", 10, 10, 0, 0, false, t0)
	if actions := r.Move(50, 50, t0.Add(20*time.Millisecond)); len(actions) != 0 {
		t.Fatalf("background press must not drag, got %v", actions)
	}
}

func TestTouchLongPressPromotesToDrag(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("n3", 30, 30, 25, 25, true, t0)
	if actions := r.Tick(t0.Add(200 * time.Millisecond)); len(actions) != 0 {
		t.Fatalf("timer has not elapsed yet, got %v", actions)
	}
	actions := r.Tick(t0.Add(301 * time.Millisecond))
	if len(actions) != 1 {
		t.Fatalf("expected BeginDrag after long press, got %v", actions)
	}
	begin, ok := actions[0].(BeginDrag)
	if !ok {
		t.Fatalf("expected BeginDrag, got %T", actions[0])
	}
	if begin.NoteID != "n3" || begin.OffsetX != 5 || begin.OffsetY != 5 {
		t.Fatalf("unexpected BeginDrag %+v", begin)
	}
}

func TestTouchMovementCancelsLongPress(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("n3", 30, 30, 25, 25, true, t0)
	if actions := r.Move(30, 45, t0.Add(100*time.Millisecond)); len(actions) != 0 {
		t.Fatalf("slop-beating motion emits nothing, got %v", actions)
	}
	if actions := r.Tick(t0.Add(400 * time.Millisecond)); len(actions) != 0 {
		t.Fatalf("cancelled press must not promote, got %v", actions)
	}
}

func TestTouchSmallMovementKeepsLongPressArmed(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("n3", 30, 30, 25, 25, true, t0)
	r.Move(35, 33, t0.Add(100*time.Millisecond))
	actions := r.Tick(t0.Add(301 * time.Millisecond))
	if len(actions) != 1 {
		t.Fatalf("within-slop motion must not cancel, got %v", actions)
	}
}

func TestTouchDoubleTapOpensEditorNoDrag(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	r.Press("n3", 30, 30, 25, 25, true, t0)
	actions := r.Press("n3", 30, 30, 25, 25, true, t0.Add(150*time.Millisecond))
	if len(actions) != 1 {
		t.Fatalf("expected OpenEditor, got %v", actions)
	}
	open, ok := actions[0].(OpenEditor)
	if !ok || open.NoteID != "n3" {
		t.Fatalf("expected editor for n3, got %v", actions[0])
	}
	if actions := r.Tick(t0.Add(time.Second)); len(actions) != 0 {
		t.Fatalf("double tap must cancel the long-press timer, got %v", actions)
	}
	if r.Dragging() {
		t.Fatalf("no drag may start from a double tap")
	}
}

func TestNativeDoubleActivate(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	actions := r.DoubleActivate("", 200, 100, 0, 0)
	if len(actions) != 1 {
		t.Fatalf("expected OpenEditor, got %v", actions)
	}
	if open := actions[0].(OpenEditor); open.NoteID != "" || open.X != 200 {
		t.Fatalf("unexpected OpenEditor %+v", open)
	}

	actions = r.DoubleActivate("n9", 200, 100, 190, 95)
	if open := actions[0].(OpenEditor); open.NoteID != "n9" || open.X != 190 || open.Y != 95 {
		t.Fatalf("unexpected OpenEditor %+v", open)
	}
}

func TestWheelResize(t *testing.T) {
	r := NewRecognizer(DefaultConfig())

	actions := r.Wheel("n1", 3)
	if len(actions) != 1 {
		t.Fatalf("expected ResizeDelta, got %v", actions)
	}
	if delta := actions[0].(ResizeDelta); delta.NoteID != "n1" || delta.Delta != 2 {
		t.Fatalf("unexpected ResizeDelta %+v", delta)
	}
	if delta := r.Wheel("n1", -1)[0].(ResizeDelta); delta.Delta != -2 {
		t.Fatalf("expected -2, got %+v", delta)
	}
	if actions := r.Wheel("", 3); len(actions) != 0 {
		t.Fatalf("wheel over background resizes nothing, got %v", actions)
	}
}

func TestContextMenuSuppressed(t *testing.T) {
	r := NewRecognizer(DefaultConfig())
	actions := r.ContextMenu()
	if len(actions) != 1 {
		t.Fatalf("expected SuppressMenu, got %v", actions)
	}
	if _, ok := actions[0].(SuppressMenu); !ok {
		t.Fatalf("expected SuppressMenu, got %T", actions[0])
	}
}
