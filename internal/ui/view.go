package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

var (
	noteBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	noteTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	trashStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	trashHotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	feedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	editorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	dimStyle        = lipgloss.NewStyle().Faint(true)
)

// cell is one terminal cell. Empty ch means a continuation of a wide rune
// to its left.
type cell struct {
	ch    string
	style lipgloss.Style
	wide  bool
	skip  bool
}

type cellGrid struct {
	cols  int
	rows  int
	cells [][]cell
}

func newCellGrid(cols, rows int) *cellGrid {
	cells := make([][]cell, rows)
	for i := range cells {
		cells[i] = make([]cell, cols)
	}
	return &cellGrid{cols: cols, rows: rows, cells: cells}
}

func (g *cellGrid) set(x, y int, ch string, style lipgloss.Style) {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	w := runewidth.StringWidth(ch)
	g.cells[y][x] = cell{ch: ch, style: style, wide: w > 1}
	if w > 1 && x+1 < g.cols {
		g.cells[y][x+1] = cell{skip: true}
	}
}

func (g *cellGrid) blitString(x, y int, s string, style lipgloss.Style) {
	cx := x
	for _, r := range s {
		ch := string(r)
		g.set(cx, y, ch, style)
		cx += runewidth.RuneWidth(r)
	}
}

func (g *cellGrid) String() string {
	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			c := g.cells[y][x]
			if c.skip {
				continue
			}
			if c.ch == "" {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(c.ch))
		}
		if y < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) View() string {
	grid := newCellGrid(m.layout.cols, m.layout.rows)
	dim := m.idle()

	m.paintTrash(grid, dim)
	for _, box := range m.boxes {
		m.paintNote(grid, box, dim)
	}
	if m.showFeed {
		m.paintFeed(grid, dim)
	}
	if m.editor.Visible() {
		m.paintEditor(grid)
	}

	return grid.String() + "\n" + m.statusLine() + "\n" + m.hintLine()
}

// fontTier maps a note's font size onto the three visual weights a
// terminal can actually show.
func fontTier(size float64) (border, text lipgloss.Style) {
	border = noteBorderStyle
	text = noteTextStyle
	switch {
	case size < 16:
		text = text.Faint(true)
		border = border.Faint(true)
	case size >= 40:
		text = text.Bold(true)
		border = border.Bold(true)
	}
	return border, text
}

func (m Model) paintNote(grid *cellGrid, box noteBox, dim bool) {
	border, text := fontTier(box.note.EffectiveFontSize())
	if dim {
		border = border.Faint(true)
		text = text.Faint(true)
	}
	if m.drag.Active() && m.drag.NoteID() == box.note.ID {
		border = border.Foreground(lipgloss.Color("212"))
	}

	x, y, w, h := box.cellX, box.cellY, box.cellW, box.cellH
	grid.set(x, y, "╭", border)
	grid.set(x+w-1, y, "╮", border)
	grid.set(x, y+h-1, "╰", border)
	grid.set(x+w-1, y+h-1, "╯", border)
	for cx := x + 1; cx < x+w-1; cx++ {
		grid.set(cx, y, "─", border)
		grid.set(cx, y+h-1, "─", border)
	}
	for cy := y + 1; cy < y+h-1; cy++ {
		grid.set(x, cy, "│", border)
		grid.set(x+w-1, cy, "│", border)
		for cx := x + 1; cx < x+w-1; cx++ {
			grid.set(cx, cy, " ", text)
		}
	}
	for i, line := range box.lines {
		grid.blitString(x+1, y+1+i, line, text)
	}
}

func (m Model) paintTrash(grid *cellGrid, dim bool) {
	style := trashStyle
	label := " 🗑 trash "
	if m.drag.Active() && m.drag.TrashHover() {
		style = trashHotStyle
		label = "[🗑 drop!]"
	}
	if dim {
		style = style.Faint(true)
	}
	trash := m.trash()
	cx := m.layout.toCellX(trash.CX) - runewidth.StringWidth(label)/2
	if cx < 0 {
		cx = 0
	}
	grid.blitString(cx, m.layout.toCellY(trash.CY), label, style)
}

func (m Model) paintFeed(grid *cellGrid, dim bool) {
	if len(m.feed) == 0 {
		return
	}
	style := feedStyle
	if dim {
		style = style.Faint(true)
	}
	width := m.layout.cols / 3
	if width < 20 {
		width = 20
	}
	start := m.layout.rows - len(m.feed)
	if start < 0 {
		start = 0
	}
	for i, msg := range m.feed {
		line := runewidth.Truncate(fmt.Sprintf("%s: %s", msg.UserID, msg.Text), width, "…")
		grid.blitString(m.layout.cols-width, start+i, line, style)
	}
}

func (m Model) paintEditor(grid *cellGrid) {
	x, y := m.editor.Position()
	ex := m.layout.toCellX(x)
	ey := m.layout.toCellY(y)
	lines := overlayLines(m.input.View())
	w := 0
	for _, line := range lines {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	if ex+w+2 > m.layout.cols {
		ex = m.layout.cols - w - 2
	}
	if ey+len(lines)+2 > m.layout.rows {
		ey = m.layout.rows - len(lines) - 2
	}
	if ex < 0 {
		ex = 0
	}
	if ey < 0 {
		ey = 0
	}

	border := noteBorderStyle.Foreground(lipgloss.Color("212"))
	grid.set(ex, ey, "╭", border)
	grid.set(ex+w+1, ey, "╮", border)
	grid.set(ex, ey+len(lines)+1, "╰", border)
	grid.set(ex+w+1, ey+len(lines)+1, "╯", border)
	for cx := ex + 1; cx <= ex+w; cx++ {
		grid.set(cx, ey, "─", border)
		grid.set(cx, ey+len(lines)+1, "─", border)
	}
	for i, line := range lines {
		grid.set(ex, ey+1+i, "│", border)
		grid.set(ex+w+1, ey+1+i, "│", border)
		grid.blitString(ex+1, ey+1+i, line, editorStyle)
	}
}

// overlayLines splits the textarea's rendered view and flattens its own
// styling so the overlay renders with one consistent style inside the
// cell grid.
func overlayLines(view string) []string {
	lines := strings.Split(view, "\n")
	for i, line := range lines {
		lines[i] = xansi.Strip(line)
	}
	return lines
}

func (m Model) statusLine() string {
	if m.status != "" {
		return statusStyle.Render(runewidth.Truncate(m.status, m.width, "…"))
	}
	if !m.synced {
		return statusStyle.Render("connecting…")
	}
	line := fmt.Sprintf("%d notes", m.collection.Len())
	if m.drag.Active() {
		line += " · dragging"
	}
	if m.editor.Visible() {
		line += " · editing"
	}
	return hintStyle.Render(runewidth.Truncate(line, m.width, "…"))
}

func (m Model) hintLine() string {
	var hint string
	if m.editor.Visible() {
		hint = "enter commit · alt+enter newline · esc cancel"
	} else {
		hint = "double-click board: new note · double-click note: edit · drag to move · wheel: size · drag to trash: delete · m feed · q quit"
	}
	style := hintStyle
	if m.idle() {
		style = dimStyle
	}
	return style.Render(runewidth.Truncate(hint, m.width, "…"))
}
