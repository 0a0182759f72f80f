package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"corkboard/internal/canvas"
	"corkboard/internal/types"
)

// The board lives in a fixed logical coordinate space shared by every
// surface; the terminal maps it onto however many cells it has. Webhook
// drops land in [100, 600) on both axes, comfortably inside.
const (
	boardWidth  = 1280.0
	boardHeight = 800.0

	// chromeRows is the status and hint lines below the canvas.
	chromeRows = 2

	maxNoteTextCells = 24
	maxNoteTextLines = 6
)

// layout converts between logical board coordinates and terminal cells
// for the current window size.
type layout struct {
	cols int
	rows int
}

func newLayout(width, height int) layout {
	cols := width
	rows := height - chromeRows
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return layout{cols: cols, rows: rows}
}

func (l layout) scaleX() float64 { return boardWidth / float64(l.cols) }
func (l layout) scaleY() float64 { return boardHeight / float64(l.rows) }

// toBoard maps a cell to the logical point at its center.
func (l layout) toBoard(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * l.scaleX(), (float64(cy) + 0.5) * l.scaleY()
}

func (l layout) toCellX(x float64) int {
	cx := int(x / l.scaleX())
	if cx < 0 {
		cx = 0
	}
	if cx > l.cols-1 {
		cx = l.cols - 1
	}
	return cx
}

func (l layout) toCellY(y float64) int {
	cy := int(y / l.scaleY())
	if cy < 0 {
		cy = 0
	}
	if cy > l.rows-1 {
		cy = l.rows - 1
	}
	return cy
}

// trashTarget places the delete zone in the bottom-left corner, matching
// the pointer surface. radius <= 0 falls back to the default.
func (l layout) trashTarget(radius float64) *canvas.TrashTarget {
	if radius <= 0 {
		radius = canvas.DefaultTrashRadius
	}
	return &canvas.TrashTarget{
		CX:     60,
		CY:     boardHeight - 60,
		Radius: radius,
	}
}

// noteBox is a note's rendered footprint: wrapped text lines plus a border
// cell on each side.
type noteBox struct {
	note  *types.Note
	lines []string
	cellX int
	cellY int
	cellW int
	cellH int
}

// boardW and boardH are the box dimensions in logical units, used for
// drag clamping so a note cannot leave the board.
func (b noteBox) boardW(l layout) float64 { return float64(b.cellW) * l.scaleX() }
func (b noteBox) boardH(l layout) float64 { return float64(b.cellH) * l.scaleY() }

func (b noteBox) contains(cx, cy int) bool {
	return cx >= b.cellX && cx < b.cellX+b.cellW && cy >= b.cellY && cy < b.cellY+b.cellH
}

func makeNoteBox(l layout, note *types.Note) noteBox {
	lines := wrapNoteText(note.Text, maxNoteTextCells)
	width := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > width {
			width = w
		}
	}
	box := noteBox{
		note:  note,
		lines: lines,
		cellX: l.toCellX(note.X),
		cellY: l.toCellY(note.Y),
		cellW: width + 2,
		cellH: len(lines) + 2,
	}
	return box
}

// wrapNoteText breaks text into display lines, wide runes counted at
// their terminal width.
func wrapNoteText(text string, limit int) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		for raw != "" {
			lines = append(lines, runewidth.Truncate(raw, limit, ""))
			cut := len(runewidth.Truncate(raw, limit, ""))
			raw = raw[cut:]
		}
	}
	if len(lines) > maxNoteTextLines {
		lines = lines[:maxNoteTextLines]
		lines[maxNoteTextLines-1] = runewidth.Truncate(lines[maxNoteTextLines-1], limit-1, "…")
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
