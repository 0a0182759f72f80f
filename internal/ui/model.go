// Package ui renders the shared corkboard in the terminal with bubbletea:
// mouse gestures drive the canvas sessions, mutations go to the daemon,
// and watch streams keep the local mirror in sync with every other
// surface.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/canvas"
	"corkboard/internal/client"
	"corkboard/internal/config"
	"corkboard/internal/types"
)

type Model struct {
	api BoardAPI

	collection *canvas.Collection
	recognizer *canvas.Recognizer
	drag       canvas.DragSession
	editor     canvas.EditorSession
	resize     *canvas.ResizeDebouncer

	input textarea.Model

	layout      layout
	width       int
	height      int
	trashRadius float64
	boxes       []noteBox
	synced      bool
	feed        []*types.Message
	showFeed    bool

	status       string
	lastActivity time.Time
	idleAfter    time.Duration

	notesCh        <-chan client.NotesSnapshot
	notesCancel    func()
	messagesCh     <-chan client.MessagesWindow
	messagesCancel func()

	quitting bool
}

func NewModel(api BoardAPI, cfg config.CanvasConfig) Model {
	input := textarea.New()
	input.Placeholder = "Type a note…"
	input.CharLimit = 0
	input.SetWidth(maxNoteTextCells + 2)
	input.SetHeight(3)

	return Model{
		api:        api,
		collection: canvas.NewCollection(),
		recognizer: canvas.NewRecognizer(canvas.Config{
			DoubleTapWindow: cfg.DoubleTapWindow(),
			LongPress:       cfg.LongPress(),
			DragSlop:        cfg.DragSlop,
			WheelStep:       canvas.DefaultConfig().WheelStep,
		}),
		resize:       canvas.NewResizeDebouncer(cfg.ResizeQuiet()),
		input:        input,
		layout:       newLayout(80, 24),
		width:        80,
		height:       24,
		trashRadius:  cfg.TrashRadius,
		status:       "connecting…",
		lastActivity: time.Now(),
		idleAfter:    cfg.IdleTimeout(),
		showFeed:     true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		openNotesWatchCmd(m.api),
		openMessagesWatchCmd(m.api),
		tickCmd(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout = newLayout(msg.Width, msg.Height)
		m.rebuildBoxes()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case notesStreamMsg:
		if msg.err != nil {
			m.status = "watch error: " + msg.err.Error()
			return m, retryNotesWatchCmd(m.api)
		}
		m.notesCh = msg.ch
		m.notesCancel = msg.cancel
		return m, awaitNotesCmd(msg.ch)

	case notesEventMsg:
		if msg.closed {
			m.notesCh = nil
			if m.quitting {
				return m, nil
			}
			m.status = "stream closed, reconnecting…"
			return m, retryNotesWatchCmd(m.api)
		}
		m.collection.Replace(msg.snapshot)
		m.synced = true
		m.status = ""
		m.rebuildBoxes()
		return m, awaitNotesCmd(m.notesCh)

	case messagesStreamMsg:
		if msg.err != nil {
			return m, retryMessagesWatchCmd(m.api)
		}
		m.messagesCh = msg.ch
		m.messagesCancel = msg.cancel
		return m, awaitMessagesCmd(msg.ch)

	case messagesEventMsg:
		if msg.closed {
			m.messagesCh = nil
			if m.quitting {
				return m, nil
			}
			return m, retryMessagesWatchCmd(m.api)
		}
		m.feed = msg.messages
		return m, awaitMessagesCmd(m.messagesCh)

	case mutationDoneMsg:
		if msg.err != nil {
			m.status = "sync error: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m *Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, action := range m.recognizer.Tick(now) {
		if cmd := m.dispatch(action, now); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if mutation, ok := m.resize.Tick(now); ok {
		cmds = append(cmds, applyMutationCmd(m.api, mutation))
	}
	cmds = append(cmds, tickCmd())
	return *m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastActivity = time.Now()

	if m.editor.Visible() {
		switch msg.String() {
		case "esc":
			m.closeEditor(false)
			return *m, nil
		case "enter":
			return *m, m.closeEditor(true)
		case "alt+enter":
			m.input.InsertString("\n")
			m.editor.SetValue(m.input.Value())
			return *m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.editor.SetValue(m.input.Value())
		return *m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m.teardown()
	case "m":
		m.showFeed = !m.showFeed
		return *m, nil
	}
	return *m, nil
}

// closeEditor commits or cancels the editor session and restores normal
// gesture handling. Commit may produce one mutation.
func (m *Model) closeEditor(commit bool) tea.Cmd {
	var cmd tea.Cmd
	if commit {
		m.editor.SetValue(m.input.Value())
		if mutation, ok := m.editor.Commit(time.Now().UTC().UnixMilli()); ok {
			m.applyOptimistic(mutation)
			cmd = applyMutationCmd(m.api, mutation)
		}
	} else {
		m.editor.Cancel()
	}
	m.input.Reset()
	m.input.Blur()
	m.recognizer.SetEditing(false)
	m.rebuildBoxes()
	return cmd
}

// teardown flushes the pending resize, cancels the watch streams, and
// quits. A visible editor commits first, matching blur-commit semantics.
func (m *Model) teardown() (tea.Model, tea.Cmd) {
	m.quitting = true
	var cmds []tea.Cmd
	if m.editor.Visible() {
		if cmd := m.closeEditor(true); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if mutation, ok := m.resize.Flush(); ok {
		cmds = append(cmds, applyMutationCmd(m.api, mutation))
	}
	if m.notesCancel != nil {
		m.notesCancel()
	}
	if m.messagesCancel != nil {
		m.messagesCancel()
	}
	cmds = append(cmds, tea.Quit)
	return *m, tea.Sequence(cmds...)
}

// dispatch turns one recognized gesture action into model changes and, at
// most, one mutation command.
func (m *Model) dispatch(action canvas.Action, now time.Time) tea.Cmd {
	switch action := action.(type) {
	case canvas.OpenEditor:
		m.openEditor(action)
	case canvas.BeginDrag:
		box, ok := m.boxByID(action.NoteID)
		if !ok {
			return nil
		}
		m.drag.Begin(action.NoteID, action.OffsetX, action.OffsetY,
			box.boardW(m.layout), box.boardH(m.layout), boardWidth, boardHeight)
	case canvas.DragMove:
		if x, y, ok := m.drag.Move(action.X, action.Y, m.trash()); ok {
			m.collection.SetPosition(m.drag.NoteID(), x, y)
			m.rebuildBoxes()
		}
	case canvas.DragEnd:
		if mutation, ok := m.drag.End(action.X, action.Y, m.trash()); ok {
			m.applyOptimistic(mutation)
			m.rebuildBoxes()
			return applyMutationCmd(m.api, mutation)
		}
	case canvas.ResizeDelta:
		note, ok := m.collection.Get(action.NoteID)
		if !ok {
			return nil
		}
		size, flushed := m.resize.Bump(action.NoteID, note.EffectiveFontSize(), action.Delta, now)
		m.collection.SetFontSize(action.NoteID, size)
		m.rebuildBoxes()
		if flushed != nil {
			return applyMutationCmd(m.api, flushed)
		}
	case canvas.SuppressMenu:
		// Right-click is swallowed so nothing else interprets it.
	}
	return nil
}

func (m *Model) openEditor(action canvas.OpenEditor) {
	if action.NoteID == "" {
		m.editor.OpenNew(action.X, action.Y)
		m.input.Reset()
	} else {
		note, ok := m.collection.Get(action.NoteID)
		if !ok {
			return
		}
		m.editor.OpenExisting(note.ID, note.Text, note.X, note.Y)
		m.input.Reset()
		m.input.SetValue(note.Text)
		m.editor.SetValue(note.Text)
	}
	m.input.Focus()
	m.recognizer.SetEditing(true)
	m.rebuildBoxes()
}

// applyOptimistic reflects a committed mutation locally so the board does
// not visibly lag the daemon round trip. The next snapshot reconciles.
func (m *Model) applyOptimistic(mutation canvas.Mutation) {
	switch mutation := mutation.(type) {
	case canvas.PatchPosition:
		m.collection.SetPosition(mutation.ID, mutation.X, mutation.Y)
	case canvas.PatchFontSize:
		m.collection.SetFontSize(mutation.ID, mutation.FontSize)
	}
}

// rebuildBoxes recomputes the rendered footprint of every note. A note
// bound to the visible editor is hidden so the overlay does not double it.
func (m *Model) rebuildBoxes() {
	ordered := m.collection.Ordered()
	boxes := make([]noteBox, 0, len(ordered))
	editID := m.editor.EditID()
	for _, note := range ordered {
		if editID != "" && note.ID == editID {
			continue
		}
		boxes = append(boxes, makeNoteBox(m.layout, note))
	}
	m.boxes = boxes
}

// noteAt hit-tests the rendered boxes, topmost first.
func (m *Model) noteAt(cx, cy int) (noteBox, bool) {
	for i := len(m.boxes) - 1; i >= 0; i-- {
		if m.boxes[i].contains(cx, cy) {
			return m.boxes[i], true
		}
	}
	return noteBox{}, false
}

func (m *Model) boxByID(id string) (noteBox, bool) {
	for _, box := range m.boxes {
		if box.note.ID == id {
			return box, true
		}
	}
	return noteBox{}, false
}

func (m *Model) trash() *canvas.TrashTarget {
	return m.layout.trashTarget(m.trashRadius)
}

func (m *Model) idle() bool {
	if m.editor.Visible() || m.idleAfter <= 0 {
		return false
	}
	return time.Since(m.lastActivity) >= m.idleAfter
}

// Run starts the program with mouse reporting and the alternate screen.
func Run(api BoardAPI, cfg config.CanvasConfig) error {
	model := NewModel(api, cfg)
	program := tea.NewProgram(&model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := program.Run()
	return err
}

func retryNotesWatchCmd(api BoardAPI) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return openNotesWatchCmd(api)()
	})
}

func retryMessagesWatchCmd(api BoardAPI) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return openMessagesWatchCmd(api)()
	})
}
