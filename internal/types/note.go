package types

import "strings"

const (
	// DefaultFontSize is applied at the read boundary whenever a stored
	// note carries no explicit size.
	DefaultFontSize = 20.0
	MinFontSize     = 10.0
	MaxFontSize     = 200.0
)

// Note is a point of persisted content on the canvas. X and Y anchor the
// top-left corner. CreatedAt is a millisecond epoch timestamp, advisory
// only; ordering logic never depends on it.
type Note struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	FontSize  float64 `json:"fontSize,omitempty"`
	CreatedAt int64   `json:"createdAt"`
	UserID    string  `json:"userId,omitempty"`
}

// EffectiveFontSize resolves the stored size against the default and the
// permitted range.
func (n *Note) EffectiveFontSize() float64 {
	if n == nil || n.FontSize == 0 {
		return DefaultFontSize
	}
	return ClampFontSize(n.FontSize)
}

func ClampFontSize(size float64) float64 {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

// HasText reports whether the note carries persistable content. A note
// with empty or whitespace-only text must never exist in the store.
func (n *Note) HasText() bool {
	return n != nil && strings.TrimSpace(n.Text) != ""
}

func CloneNote(n *Note) *Note {
	if n == nil {
		return nil
	}
	clone := *n
	return &clone
}

// Snapshot is a full view of the notes collection keyed by note ID, as
// delivered by the watch stream.
type Snapshot map[string]*Note

func CloneSnapshot(s Snapshot) Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for id, note := range s {
		out[id] = CloneNote(note)
	}
	return out
}
