package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/canvas"
)

// handleMouse translates terminal mouse events into recognizer primitives
// and dispatches whatever gestures come back. Terminals report no native
// double-click, so consecutive presses are fed to Press and the
// recognizer synthesizes the double activation.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.lastActivity = time.Now()
	now := time.Now()

	// While the editor is open a click outside it commits, like blur on
	// a pointer surface.
	if m.editor.Visible() {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && !m.insideEditor(msg.X, msg.Y) {
			return *m, m.closeEditor(true)
		}
		return *m, nil
	}

	bx, by := m.layout.toBoard(msg.X, msg.Y)

	var actions []canvas.Action
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if box, ok := m.noteAt(msg.X, msg.Y); ok {
				actions = m.recognizer.Press(box.note.ID, bx, by, box.note.X, box.note.Y, false, now)
			} else {
				actions = m.recognizer.Press("", bx, by, 0, 0, false, now)
			}
		case tea.MouseButtonRight:
			actions = m.recognizer.ContextMenu()
		case tea.MouseButtonWheelUp:
			if box, ok := m.noteAt(msg.X, msg.Y); ok {
				actions = m.recognizer.Wheel(box.note.ID, 1)
			}
		case tea.MouseButtonWheelDown:
			if box, ok := m.noteAt(msg.X, msg.Y); ok {
				actions = m.recognizer.Wheel(box.note.ID, -1)
			}
		}
	case tea.MouseActionMotion:
		actions = m.recognizer.Move(bx, by, now)
	case tea.MouseActionRelease:
		actions = m.recognizer.Release(bx, by, now)
	}

	var cmds []tea.Cmd
	for _, action := range actions {
		if cmd := m.dispatch(action, now); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return *m, nil
	}
	return *m, tea.Batch(cmds...)
}

// insideEditor tests whether a cell lands on the editor overlay.
func (m *Model) insideEditor(cx, cy int) bool {
	if !m.editor.Visible() {
		return false
	}
	x, y := m.editor.Position()
	ex := m.layout.toCellX(x)
	ey := m.layout.toCellY(y)
	w := m.input.Width() + 2
	h := m.input.Height() + 2
	if ex+w > m.layout.cols {
		ex = m.layout.cols - w
	}
	if ey+h > m.layout.rows {
		ey = m.layout.rows - h
	}
	if ex < 0 {
		ex = 0
	}
	if ey < 0 {
		ey = 0
	}
	return cx >= ex && cx < ex+w && cy >= ey && cy < ey+h
}
