package canvas

import (
	"time"

	"corkboard/internal/types"
)

// DefaultResizeQuiet is how long the wheel must sit idle before the
// accumulated size change flushes as one store patch.
const DefaultResizeQuiet = 500 * time.Millisecond

// ResizeDebouncer coalesces wheel-driven font-size changes. Every tick
// adjusts the local size immediately; the remote patch happens once, after
// a quiet period. The flush deadline is owned here and fired by Tick.
type ResizeDebouncer struct {
	quiet    time.Duration
	pending  bool
	noteID   string
	size     float64
	deadline time.Time
}

func NewResizeDebouncer(quiet time.Duration) *ResizeDebouncer {
	if quiet <= 0 {
		quiet = DefaultResizeQuiet
	}
	return &ResizeDebouncer{quiet: quiet}
}

// Bump applies one wheel tick. current is the note's size before this
// gesture (EffectiveFontSize from the mirror); once a resize is pending
// for the note, the pending value is the base instead. Switching to a
// different note flushes the previous note's pending patch first so a
// target change never drops an update.
func (r *ResizeDebouncer) Bump(noteID string, current, delta float64, now time.Time) (size float64, flushed Mutation) {
	if r.pending && r.noteID != noteID {
		flushed = PatchFontSize{ID: r.noteID, FontSize: r.size}
		r.pending = false
	}
	base := current
	if r.pending {
		base = r.size
	}
	size = types.ClampFontSize(base + delta)
	r.pending = true
	r.noteID = noteID
	r.size = size
	r.deadline = now.Add(r.quiet)
	return size, flushed
}

// Tick flushes the pending patch once the quiet period has elapsed.
func (r *ResizeDebouncer) Tick(now time.Time) (Mutation, bool) {
	if !r.pending || now.Before(r.deadline) {
		return nil, false
	}
	r.pending = false
	return PatchFontSize{ID: r.noteID, FontSize: r.size}, true
}

// Flush forces the pending patch out regardless of the deadline, for
// surface teardown.
func (r *ResizeDebouncer) Flush() (Mutation, bool) {
	if !r.pending {
		return nil, false
	}
	r.pending = false
	return PatchFontSize{ID: r.noteID, FontSize: r.size}, true
}

// Pending reports whether a flush is outstanding and for which note.
func (r *ResizeDebouncer) Pending() (string, bool) {
	if !r.pending {
		return "", false
	}
	return r.noteID, true
}

// Reset drops any pending patch without flushing.
func (r *ResizeDebouncer) Reset() {
	r.pending = false
	r.noteID = ""
	r.size = 0
}
