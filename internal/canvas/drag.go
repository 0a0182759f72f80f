package canvas

import "math"

// TrashTarget is the delete zone. A dragged note released while its center
// is within Radius of (CX, CY) is deleted instead of moved.
type TrashTarget struct {
	CX, CY float64
	Radius float64
}

// DefaultTrashRadius matches the pointer-surface hit zone.
const DefaultTrashRadius = 60.0

// DragSession owns one in-flight drag: the pointer offset captured at
// start, the note's measured bounds for clamping, and trash proximity.
// The note's position is updated locally on every move; the store sees a
// single patch (or delete) at release.
type DragSession struct {
	active           bool
	noteID           string
	offsetX, offsetY float64
	noteW, noteH     float64
	viewW, viewH     float64
	trashHover       bool
}

// Begin starts a drag. Starting while one is active replaces the prior
// session; the recognizer should never produce that, but a stale session
// must not leak into the new gesture.
func (d *DragSession) Begin(noteID string, offsetX, offsetY, noteW, noteH, viewW, viewH float64) {
	d.active = true
	d.noteID = noteID
	d.offsetX = offsetX
	d.offsetY = offsetY
	d.noteW = noteW
	d.noteH = noteH
	d.viewW = viewW
	d.viewH = viewH
	d.trashHover = false
}

func (d *DragSession) Active() bool {
	return d.active
}

func (d *DragSession) NoteID() string {
	if !d.active {
		return ""
	}
	return d.noteID
}

func (d *DragSession) TrashHover() bool {
	return d.active && d.trashHover
}

// Move computes the clamped candidate position for the current pointer and
// refreshes trash proximity. The caller applies the result to local state
// only; nothing is written remotely until End.
func (d *DragSession) Move(px, py float64, trash *TrashTarget) (x, y float64, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	x = clampAxis(px-d.offsetX, d.viewW-d.noteW)
	y = clampAxis(py-d.offsetY, d.viewH-d.noteH)
	d.trashHover = d.nearTrash(x, y, trash)
	return x, y, true
}

// End finishes the drag and returns the single resulting mutation: a
// delete when released over the trash, otherwise a position patch with the
// same clamp applied as during moves.
func (d *DragSession) End(px, py float64, trash *TrashTarget) (Mutation, bool) {
	if !d.active {
		return nil, false
	}
	noteID := d.noteID
	x := clampAxis(px-d.offsetX, d.viewW-d.noteW)
	y := clampAxis(py-d.offsetY, d.viewH-d.noteH)
	hover := d.nearTrash(x, y, trash)
	d.Reset()
	if hover {
		return DeleteNote{ID: noteID}, true
	}
	return PatchPosition{ID: noteID, X: x, Y: y}, true
}

// Reset clears the session without emitting anything.
func (d *DragSession) Reset() {
	*d = DragSession{}
}

func (d *DragSession) nearTrash(x, y float64, trash *TrashTarget) bool {
	if trash == nil {
		return false
	}
	cx := x + d.noteW/2
	cy := y + d.noteH/2
	return math.Hypot(cx-trash.CX, cy-trash.CY) < trash.Radius
}

func clampAxis(v, max float64) float64 {
	if max < 0 {
		max = 0
	}
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
