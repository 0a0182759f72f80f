// Package canvas holds the shared-canvas state machine: the gesture
// recognizer, the editor/drag/resize sessions, and the local mirror of the
// remote notes collection. Nothing in this package knows about terminals,
// HTTP, or bbolt; sessions emit Mutations and the embedding surface carries
// them to the store adapter.
package canvas

// Mutation is a single store write requested by a session. Each committed
// gesture produces at most one mutation.
type Mutation interface {
	isMutation()
}

// CreateNote persists a brand new note at a fixed position.
type CreateNote struct {
	Text      string
	X, Y      float64
	CreatedAt int64
}

// PatchText replaces an existing note's text.
type PatchText struct {
	ID   string
	Text string
}

// PatchPosition commits a drag's final clamped position.
type PatchPosition struct {
	ID   string
	X, Y float64
}

// PatchFontSize flushes a debounced resize.
type PatchFontSize struct {
	ID       string
	FontSize float64
}

// DeleteNote removes a note, either by drag-to-trash or by committing an
// empty edit.
type DeleteNote struct {
	ID string
}

func (CreateNote) isMutation()    {}
func (PatchText) isMutation()     {}
func (PatchPosition) isMutation() {}
func (PatchFontSize) isMutation() {}
func (DeleteNote) isMutation()    {}
