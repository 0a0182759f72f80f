package canvas

import (
	"math"
	"time"
)

// Config tunes the recognizer. Distances are in canvas units (pixels on a
// pointer surface, cells on a terminal).
type Config struct {
	// DoubleTapWindow is the maximum gap between two presses on the same
	// target for them to count as a double activation.
	DoubleTapWindow time.Duration
	// LongPress is how long a touch press must hold still before it
	// promotes to a drag.
	LongPress time.Duration
	// DragSlop is the movement threshold that cancels a pending touch
	// long-press.
	DragSlop float64
	// WheelStep is the font-size change per wheel tick.
	WheelStep float64
}

func DefaultConfig() Config {
	return Config{
		DoubleTapWindow: 300 * time.Millisecond,
		LongPress:       300 * time.Millisecond,
		DragSlop:        10,
		WheelStep:       2,
	}
}

// Action is one recognized high-level gesture.
type Action interface {
	isAction()
}

// OpenEditor requests the text editor overlay. NoteID is empty when
// creating a new note at (X, Y); otherwise it binds the existing note and
// (X, Y) is that note's position.
type OpenEditor struct {
	NoteID string
	X, Y   float64
}

// BeginDrag starts moving a note. Offset is pointer minus note origin,
// captured at gesture start.
type BeginDrag struct {
	NoteID           string
	OffsetX, OffsetY float64
}

// DragMove reports the current pointer position of an active drag.
type DragMove struct {
	X, Y float64
}

// DragEnd reports the pointer position at release.
type DragEnd struct {
	X, Y float64
}

// ResizeDelta requests a font-size change for the note under the wheel.
type ResizeDelta struct {
	NoteID string
	Delta  float64
}

// SuppressMenu tells the surface to swallow a context-menu request.
type SuppressMenu struct{}

func (OpenEditor) isAction()   {}
func (BeginDrag) isAction()    {}
func (DragMove) isAction()     {}
func (DragEnd) isAction()      {}
func (ResizeDelta) isAction()  {}
func (SuppressMenu) isAction() {}

// pendingPress is an armed press that has not yet resolved into a drag,
// a double activation, or nothing.
type pendingPress struct {
	noteID           string
	x, y             float64
	offsetX, offsetY float64
	touch            bool
	deadline         time.Time
}

// Recognizer classifies primitive pointer events into Actions. It is pure
// state: feed it events with timestamps (tests use synthetic clocks) and
// call Tick to fire the touch long-press deadline.
type Recognizer struct {
	cfg      Config
	editing  bool
	dragging bool

	pending *pendingPress

	lastPressAt     time.Time
	lastPressNoteID string
	lastPressOnBg   bool
	lastPressX      float64
	lastPressY      float64
}

func NewRecognizer(cfg Config) *Recognizer {
	if cfg.DoubleTapWindow <= 0 {
		cfg.DoubleTapWindow = DefaultConfig().DoubleTapWindow
	}
	if cfg.LongPress <= 0 {
		cfg.LongPress = DefaultConfig().LongPress
	}
	if cfg.DragSlop <= 0 {
		cfg.DragSlop = DefaultConfig().DragSlop
	}
	if cfg.WheelStep <= 0 {
		cfg.WheelStep = DefaultConfig().WheelStep
	}
	return &Recognizer{cfg: cfg}
}

// SetEditing informs the recognizer whether an editor session is visible.
// While editing, presses never start drags.
func (r *Recognizer) SetEditing(editing bool) {
	r.editing = editing
	if editing {
		r.pending = nil
		r.dragging = false
	}
}

// Press handles a pointer-down. noteID is empty for the background;
// noteX/noteY is the pressed note's current origin (ignored for
// background presses). touch selects the long-press path.
func (r *Recognizer) Press(noteID string, px, py, noteX, noteY float64, touch bool, now time.Time) []Action {
	defer func() {
		r.lastPressAt = now
		r.lastPressNoteID = noteID
		r.lastPressOnBg = noteID == ""
		r.lastPressX = px
		r.lastPressY = py
	}()

	// Second press on the same target inside the window is a double
	// activation: open the editor instead of starting anything else.
	// Background presses carry no target identity, so the pair must
	// also land within the slop distance of each other.
	if now.Sub(r.lastPressAt) <= r.cfg.DoubleTapWindow {
		if noteID != "" && noteID == r.lastPressNoteID {
			r.pending = nil
			r.dragging = false
			return []Action{OpenEditor{NoteID: noteID, X: noteX, Y: noteY}}
		}
		if noteID == "" && r.lastPressOnBg && !r.editing &&
			math.Hypot(px-r.lastPressX, py-r.lastPressY) <= r.cfg.DragSlop {
			r.pending = nil
			return []Action{OpenEditor{X: px, Y: py}}
		}
	}

	if noteID == "" || r.editing {
		return nil
	}

	press := &pendingPress{
		noteID:  noteID,
		x:       px,
		y:       py,
		offsetX: px - noteX,
		offsetY: py - noteY,
		touch:   touch,
	}
	if touch {
		press.deadline = now.Add(r.cfg.LongPress)
	}
	r.pending = press
	return nil
}

// DoubleActivate handles a platform-native double-click. Surfaces that
// synthesize double activation from consecutive presses never call this.
func (r *Recognizer) DoubleActivate(noteID string, px, py, noteX, noteY float64) []Action {
	r.pending = nil
	r.dragging = false
	if noteID != "" {
		return []Action{OpenEditor{NoteID: noteID, X: noteX, Y: noteY}}
	}
	if r.editing {
		return nil
	}
	return []Action{OpenEditor{X: px, Y: py}}
}

// Move handles pointer motion.
func (r *Recognizer) Move(px, py float64, now time.Time) []Action {
	if r.dragging {
		return []Action{DragMove{X: px, Y: py}}
	}
	press := r.pending
	if press == nil {
		return nil
	}
	if press.touch {
		// Motion past the slop before the long-press fires means this
		// was an unintended tap, not a drag.
		if math.Abs(px-press.x) > r.cfg.DragSlop || math.Abs(py-press.y) > r.cfg.DragSlop {
			r.pending = nil
		}
		return nil
	}
	// Mouse: press-and-move starts the drag immediately.
	r.pending = nil
	r.dragging = true
	return []Action{
		BeginDrag{NoteID: press.noteID, OffsetX: press.offsetX, OffsetY: press.offsetY},
		DragMove{X: px, Y: py},
	}
}

// Release handles pointer-up.
func (r *Recognizer) Release(px, py float64, now time.Time) []Action {
	r.pending = nil
	if !r.dragging {
		return nil
	}
	r.dragging = false
	return []Action{DragEnd{X: px, Y: py}}
}

// Tick fires deadline-based transitions; the surface calls it from its
// timer loop. A touch press that held still for the long-press duration
// promotes to a drag.
func (r *Recognizer) Tick(now time.Time) []Action {
	press := r.pending
	if press == nil || !press.touch || now.Before(press.deadline) {
		return nil
	}
	r.pending = nil
	r.dragging = true
	return []Action{BeginDrag{NoteID: press.noteID, OffsetX: press.offsetX, OffsetY: press.offsetY}}
}

// Wheel handles a scroll tick over a note. deltaY keeps only its sign;
// each tick is one WheelStep. Pinch-modifier ticks resize the same way,
// the surface is expected to consume the event so the platform zoom never
// fires.
func (r *Recognizer) Wheel(noteID string, deltaY float64) []Action {
	if noteID == "" || deltaY == 0 {
		return nil
	}
	delta := r.cfg.WheelStep
	if deltaY < 0 {
		delta = -delta
	}
	return []Action{ResizeDelta{NoteID: noteID, Delta: delta}}
}

// ContextMenu handles a right-click over the canvas.
func (r *Recognizer) ContextMenu() []Action {
	return []Action{SuppressMenu{}}
}

// Dragging reports whether a drag gesture is in flight.
func (r *Recognizer) Dragging() bool {
	return r.dragging
}
