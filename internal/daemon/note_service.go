package daemon

import (
	"context"
	"errors"
	"strings"

	"corkboard/internal/store"
	"corkboard/internal/types"
)

// NoteService wraps the note store with validation and fan-out: every
// successful mutation broadcasts the full post-write snapshot so watchers
// converge without tracking deltas.
type NoteService struct {
	notes store.NoteStore
	hub   *noteHub
}

func NewNoteService(stores *Stores, hub *noteHub) *NoteService {
	service := &NoteService{hub: hub}
	if stores != nil {
		service.notes = stores.Notes
	}
	return service
}

func (s *NoteService) List(ctx context.Context) ([]*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	return notes, nil
}

func (s *NoteService) Snapshot(ctx context.Context) (types.Snapshot, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	snapshot, err := s.notes.Snapshot(ctx)
	if err != nil {
		return nil, unavailableError(err.Error(), err)
	}
	return snapshot, nil
}

func (s *NoteService) Create(ctx context.Context, note *types.Note) (*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	if note == nil {
		return nil, invalidError("note payload is required", nil)
	}
	created, err := s.notes.Create(ctx, note)
	if err != nil {
		if errors.Is(err, store.ErrEmptyText) {
			return nil, invalidError("note text is required", err)
		}
		return nil, unavailableError(err.Error(), err)
	}
	s.broadcast(ctx)
	return created, nil
}

func (s *NoteService) Patch(ctx context.Context, id string, patch store.NotePatch) (*types.Note, error) {
	if s.notes == nil {
		return nil, unavailableError("note store not available", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalidError("note id is required", nil)
	}
	if patch.IsZero() {
		return nil, invalidError("patch has no fields", nil)
	}
	updated, err := s.notes.Patch(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNoteNotFound):
			return nil, notFoundError("note not found", err)
		case errors.Is(err, store.ErrEmptyText):
			return nil, invalidError("note text is required", err)
		default:
			return nil, unavailableError(err.Error(), err)
		}
	}
	s.broadcast(ctx)
	return updated, nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	if s.notes == nil {
		return unavailableError("note store not available", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return invalidError("note id is required", nil)
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return notFoundError("note not found", err)
		}
		return unavailableError(err.Error(), err)
	}
	s.broadcast(ctx)
	return nil
}

// Subscribe registers a watcher and returns the current snapshot so a new
// client starts from a complete view instead of waiting for a write.
func (s *NoteService) Subscribe(ctx context.Context) (types.Snapshot, <-chan types.Snapshot, func(), error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if s.hub == nil {
		return nil, nil, nil, unavailableError("watch not available", nil)
	}
	ch, cancel := s.hub.Add()
	return snapshot, ch, cancel, nil
}

func (s *NoteService) broadcast(ctx context.Context) {
	if s.hub == nil {
		return
	}
	snapshot, err := s.notes.Snapshot(ctx)
	if err != nil {
		return
	}
	s.hub.Broadcast(snapshot)
}
