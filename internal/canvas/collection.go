package canvas

import (
	"sort"

	"corkboard/internal/types"
)

// PinnedFields marks note fields currently owned by an active local
// gesture. A pinned field keeps its local value when a snapshot arrives
// mid-gesture; everything else is replaced.
type PinnedFields struct {
	Position bool
	FontSize bool
	Text     bool
}

// Pins maps note id to the fields an active session owns.
type Pins map[string]PinnedFields

// Collection is the local mirror of the remote notes collection. The watch
// stream replaces it wholesale on every snapshot; optimistic gesture
// updates are applied on top and survive only until the next snapshot
// (Replace) or survive per-field while pinned (ReplaceMerging).
type Collection struct {
	notes types.Snapshot
}

func NewCollection() *Collection {
	return &Collection{notes: types.Snapshot{}}
}

// Replace swaps the entire mirror for the incoming snapshot. This is the
// default contract: a snapshot arriving mid-gesture overwrites optimistic
// local positions and sizes with whatever was last persisted.
func (c *Collection) Replace(snapshot types.Snapshot) {
	c.notes = types.CloneSnapshot(snapshot)
	if c.notes == nil {
		c.notes = types.Snapshot{}
	}
}

// ReplaceMerging swaps the mirror but keeps pinned fields from the local
// copy, so an in-flight drag or resize is not yanked back by a stale
// snapshot. A note deleted remotely disappears regardless of pins; the
// gesture on it simply fizzles.
func (c *Collection) ReplaceMerging(snapshot types.Snapshot, pins Pins) {
	if len(pins) == 0 {
		c.Replace(snapshot)
		return
	}
	next := types.CloneSnapshot(snapshot)
	if next == nil {
		next = types.Snapshot{}
	}
	for id, pinned := range pins {
		local, ok := c.notes[id]
		if !ok {
			continue
		}
		incoming, ok := next[id]
		if !ok {
			continue
		}
		if pinned.Position {
			incoming.X = local.X
			incoming.Y = local.Y
		}
		if pinned.FontSize {
			incoming.FontSize = local.FontSize
		}
		if pinned.Text {
			incoming.Text = local.Text
		}
	}
	c.notes = next
}

func (c *Collection) Get(id string) (*types.Note, bool) {
	note, ok := c.notes[id]
	return note, ok
}

func (c *Collection) Len() int {
	return len(c.notes)
}

// SetPosition applies an optimistic local move.
func (c *Collection) SetPosition(id string, x, y float64) bool {
	note, ok := c.notes[id]
	if !ok {
		return false
	}
	note.X = x
	note.Y = y
	return true
}

// SetFontSize applies an optimistic local resize.
func (c *Collection) SetFontSize(id string, size float64) bool {
	note, ok := c.notes[id]
	if !ok {
		return false
	}
	note.FontSize = types.ClampFontSize(size)
	return true
}

// Ordered returns the notes in a stable render order: creation time, then
// id. The advisory timestamp only breaks render ties; core logic never
// depends on it.
func (c *Collection) Ordered() []*types.Note {
	out := make([]*types.Note, 0, len(c.notes))
	for _, note := range c.notes {
		out = append(out, note)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}
