package canvas

import "strings"

// EditorSession owns the ephemeral text-entry overlay. At most one exists;
// opening while visible rebinds it.
type EditorSession struct {
	visible bool
	x, y    float64
	value   string
	editID  string
}

// OpenNew shows the editor for a fresh note at the activation point.
func (e *EditorSession) OpenNew(x, y float64) {
	e.visible = true
	e.x = x
	e.y = y
	e.value = ""
	e.editID = ""
}

// OpenExisting shows the editor bound to an existing note, pre-filled with
// its current text. While bound, the note must be hidden from the rendered
// collection so the overlay does not duplicate it.
func (e *EditorSession) OpenExisting(id, text string, x, y float64) {
	e.visible = true
	e.x = x
	e.y = y
	e.value = text
	e.editID = id
}

func (e *EditorSession) Visible() bool {
	return e.visible
}

// EditID returns the bound note's id, or "" when composing a new note.
func (e *EditorSession) EditID() string {
	if !e.visible {
		return ""
	}
	return e.editID
}

func (e *EditorSession) Position() (x, y float64) {
	return e.x, e.y
}

func (e *EditorSession) Value() string {
	return e.value
}

func (e *EditorSession) SetValue(value string) {
	if e.visible {
		e.value = value
	}
}

// Commit applies the commit policy and hides the editor. The returned
// mutation is the single store write for the session, if any:
//
//	non-empty text, bound   -> patch text
//	non-empty text, unbound -> create at the captured position
//	empty text, bound       -> delete the bound note
//	empty text, unbound     -> nothing
func (e *EditorSession) Commit(nowMillis int64) (Mutation, bool) {
	if !e.visible {
		return nil, false
	}
	trimmed := strings.TrimSpace(e.value)
	editID := e.editID
	x, y := e.x, e.y
	e.reset()

	if trimmed != "" {
		if editID != "" {
			return PatchText{ID: editID, Text: trimmed}, true
		}
		return CreateNote{Text: trimmed, X: x, Y: y, CreatedAt: nowMillis}, true
	}
	if editID != "" {
		return DeleteNote{ID: editID}, true
	}
	return nil, false
}

// Cancel hides the editor and discards the draft.
func (e *EditorSession) Cancel() {
	e.reset()
}

func (e *EditorSession) reset() {
	*e = EditorSession{}
}
