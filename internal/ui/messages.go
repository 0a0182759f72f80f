package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/canvas"
	"corkboard/internal/client"
	"corkboard/internal/store"
	"corkboard/internal/types"
)

const (
	tickInterval   = 100 * time.Millisecond
	requestTimeout = 4 * time.Second
)

// BoardAPI is the slice of the daemon client the board needs.
type BoardAPI interface {
	CreateNote(ctx context.Context, note *types.Note) (*types.Note, error)
	PatchNote(ctx context.Context, id string, patch store.NotePatch) (*types.Note, error)
	DeleteNote(ctx context.Context, id string) error
	WatchNotes(ctx context.Context) (<-chan client.NotesSnapshot, func(), error)
	WatchMessages(ctx context.Context) (<-chan client.MessagesWindow, func(), error)
}

type tickMsg time.Time

type notesStreamMsg struct {
	ch     <-chan client.NotesSnapshot
	cancel func()
	err    error
}

type notesEventMsg struct {
	snapshot types.Snapshot
	closed   bool
}

type messagesStreamMsg struct {
	ch     <-chan client.MessagesWindow
	cancel func()
	err    error
}

type messagesEventMsg struct {
	messages []*types.Message
	closed   bool
}

type mutationDoneMsg struct {
	err error
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func openNotesWatchCmd(api BoardAPI) tea.Cmd {
	return func() tea.Msg {
		ch, cancel, err := api.WatchNotes(context.Background())
		return notesStreamMsg{ch: ch, cancel: cancel, err: err}
	}
}

func awaitNotesCmd(ch <-chan client.NotesSnapshot) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return notesEventMsg{closed: true}
		}
		return notesEventMsg{snapshot: event.Notes}
	}
}

func openMessagesWatchCmd(api BoardAPI) tea.Cmd {
	return func() tea.Msg {
		ch, cancel, err := api.WatchMessages(context.Background())
		return messagesStreamMsg{ch: ch, cancel: cancel, err: err}
	}
}

func awaitMessagesCmd(ch <-chan client.MessagesWindow) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return messagesEventMsg{closed: true}
		}
		return messagesEventMsg{messages: event.Messages}
	}
}

// applyMutationCmd carries one session mutation to the daemon. The UI is
// fire-and-forget here: errors land in the status line and the next
// snapshot restores whatever the store actually holds.
func applyMutationCmd(api BoardAPI, m canvas.Mutation) tea.Cmd {
	if m == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		switch m := m.(type) {
		case canvas.CreateNote:
			_, err = api.CreateNote(ctx, &types.Note{
				Text:      m.Text,
				X:         m.X,
				Y:         m.Y,
				CreatedAt: m.CreatedAt,
			})
		case canvas.PatchText:
			text := m.Text
			_, err = api.PatchNote(ctx, m.ID, store.NotePatch{Text: &text})
		case canvas.PatchPosition:
			x, y := m.X, m.Y
			_, err = api.PatchNote(ctx, m.ID, store.NotePatch{X: &x, Y: &y})
		case canvas.PatchFontSize:
			size := m.FontSize
			_, err = api.PatchNote(ctx, m.ID, store.NotePatch{FontSize: &size})
		case canvas.DeleteNote:
			err = api.DeleteNote(ctx, m.ID)
		}
		return mutationDoneMsg{err: err}
	}
}
