package canvas

import "testing"

func TestDragMoveFollowsPointerWithOffset(t *testing.T) {
	var d DragSession
	d.Begin("n1", 5, 7, 40, 20, 800, 600)

	x, y, ok := d.Move(205, 107, nil)
	if !ok {
		t.Fatalf("move on an active drag must report a position")
	}
	if x != 200 || y != 100 {
		t.Fatalf("expected (200, 100), got (%v, %v)", x, y)
	}
}

func TestDragClampsToViewport(t *testing.T) {
	var d DragSession
	d.Begin("n1", 0, 0, 40, 20, 800, 600)

	if x, y, _ := d.Move(-50, -50, nil); x != 0 || y != 0 {
		t.Fatalf("expected clamp to origin, got (%v, %v)", x, y)
	}
	if x, y, _ := d.Move(9999, 9999, nil); x != 760 || y != 580 {
		t.Fatalf("expected clamp to (760, 580), got (%v, %v)", x, y)
	}
}

func TestDragClampWhenNoteLargerThanViewport(t *testing.T) {
	var d DragSession
	d.Begin("n1", 0, 0, 1000, 700, 800, 600)

	if x, y, _ := d.Move(400, 300, nil); x != 0 || y != 0 {
		t.Fatalf("oversized note pins to origin, got (%v, %v)", x, y)
	}
}

func TestDragEndPatchesPosition(t *testing.T) {
	var d DragSession
	d.Begin("n1", 5, 7, 40, 20, 800, 600)
	d.Move(100, 100, nil)

	m, ok := d.End(305, 207, nil)
	if !ok {
		t.Fatalf("expected a mutation")
	}
	patch, ok := m.(PatchPosition)
	if !ok {
		t.Fatalf("expected PatchPosition, got %T", m)
	}
	if patch.ID != "n1" || patch.X != 300 || patch.Y != 200 {
		t.Fatalf("unexpected PatchPosition %+v", patch)
	}
	if d.Active() {
		t.Fatalf("end must reset the session")
	}
}

func TestDragToTrashDeletes(t *testing.T) {
	trash := &TrashTarget{CX: 15, CY: 15, Radius: DefaultTrashRadius}
	var d DragSession
	d.Begin("n1", 0, 0, 0, 0, 800, 600)

	// Released at (10, 10): the point-size note's center is 7.07 from the
	// trash center, well inside the 60 radius.
	if _, _, ok := d.Move(10, 10, trash); !ok {
		t.Fatalf("move failed")
	}
	if !d.TrashHover() {
		t.Fatalf("expected trash hover inside the radius")
	}

	m, ok := d.End(10, 10, trash)
	if !ok {
		t.Fatalf("expected a mutation")
	}
	del, ok := m.(DeleteNote)
	if !ok {
		t.Fatalf("expected DeleteNote, got %T", m)
	}
	if del.ID != "n1" {
		t.Fatalf("unexpected DeleteNote %+v", del)
	}
}

func TestTrashProximityUsesNoteCenter(t *testing.T) {
	trash := &TrashTarget{CX: 100, CY: 100, Radius: 60}
	var d DragSession
	d.Begin("n1", 0, 0, 80, 40, 800, 600)

	// Origin at (55, 75) puts the center at (95, 95): inside.
	d.Move(55, 75, trash)
	if !d.TrashHover() {
		t.Fatalf("center (95, 95) is within 60 of (100, 100)")
	}

	// Origin at (200, 200) puts the center at (240, 220): outside.
	d.Move(200, 200, trash)
	if d.TrashHover() {
		t.Fatalf("center (240, 220) is far from the trash")
	}
}

func TestDragEndOutsideTrashMovesNote(t *testing.T) {
	trash := &TrashTarget{CX: 15, CY: 15, Radius: 60}
	var d DragSession
	d.Begin("n1", 0, 0, 0, 0, 800, 600)
	d.Move(10, 10, trash)

	m, ok := d.End(400, 400, trash)
	if !ok {
		t.Fatalf("expected a mutation")
	}
	if _, isDelete := m.(DeleteNote); isDelete {
		t.Fatalf("hover during the drag must not make the release delete")
	}
	if patch := m.(PatchPosition); patch.X != 400 || patch.Y != 400 {
		t.Fatalf("unexpected PatchPosition %+v", patch)
	}
}

func TestInactiveSessionEmitsNothing(t *testing.T) {
	var d DragSession
	if _, _, ok := d.Move(10, 10, nil); ok {
		t.Fatalf("inactive move must report nothing")
	}
	if m, ok := d.End(10, 10, nil); ok {
		t.Fatalf("inactive end must emit nothing, got %v", m)
	}
	if d.NoteID() != "" {
		t.Fatalf("inactive session has no note")
	}
}

func TestBeginReplacesStaleSession(t *testing.T) {
	var d DragSession
	d.Begin("n1", 5, 5, 40, 20, 800, 600)
	d.Move(700, 500, &TrashTarget{CX: 700, CY: 500, Radius: 60})
	d.Begin("n2", 0, 0, 40, 20, 800, 600)

	if d.NoteID() != "n2" {
		t.Fatalf("expected n2, got %q", d.NoteID())
	}
	if d.TrashHover() {
		t.Fatalf("hover state must not leak across sessions")
	}
}
