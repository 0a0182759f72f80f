package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"corkboard/internal/types"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrEmptyText    = errors.New("note text is empty")
)

// NoteStore is the persistent side of the notes collection. Create assigns
// the opaque ID; Patch applies only the fields the patch carries (last
// writer wins per field).
type NoteStore interface {
	List(ctx context.Context) ([]*types.Note, error)
	Get(ctx context.Context, id string) (*types.Note, bool, error)
	Create(ctx context.Context, note *types.Note) (*types.Note, error)
	Patch(ctx context.Context, id string, patch NotePatch) (*types.Note, error)
	Delete(ctx context.Context, id string) error
	Snapshot(ctx context.Context) (types.Snapshot, error)
}

// MessageStore holds the append-only chat feed.
type MessageStore interface {
	Append(ctx context.Context, msg *types.Message) (*types.Message, error)
	ListRecent(ctx context.Context, limit int) ([]*types.Message, error)
}

// NotePatch is a partial update. Nil fields are left untouched.
type NotePatch struct {
	Text     *string  `json:"text,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	FontSize *float64 `json:"fontSize,omitempty"`
}

func (p NotePatch) IsZero() bool {
	return p.Text == nil && p.X == nil && p.Y == nil && p.FontSize == nil
}

func newID() string {
	return strings.ToLower(ulid.Make().String())
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

// normalizeNewNote validates and fills defaults before the first write.
func normalizeNewNote(note *types.Note) (*types.Note, error) {
	if note == nil {
		return nil, errors.New("note is required")
	}
	normalized := *note
	normalized.Text = strings.TrimSpace(normalized.Text)
	if normalized.Text == "" {
		return nil, ErrEmptyText
	}
	if strings.TrimSpace(normalized.ID) == "" {
		normalized.ID = newID()
	}
	if normalized.CreatedAt == 0 {
		normalized.CreatedAt = nowMillis()
	}
	if normalized.FontSize != 0 {
		normalized.FontSize = types.ClampFontSize(normalized.FontSize)
	}
	return &normalized, nil
}

// applyPatch merges a partial update into an existing note.
func applyPatch(existing *types.Note, patch NotePatch) (*types.Note, error) {
	updated := *existing
	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return nil, ErrEmptyText
		}
		updated.Text = text
	}
	if patch.X != nil {
		updated.X = *patch.X
	}
	if patch.Y != nil {
		updated.Y = *patch.Y
	}
	if patch.FontSize != nil {
		updated.FontSize = types.ClampFontSize(*patch.FontSize)
	}
	return &updated, nil
}

func normalizeMessage(msg *types.Message) (*types.Message, error) {
	if msg == nil {
		return nil, errors.New("message is required")
	}
	normalized := *msg
	normalized.Text = strings.TrimSpace(normalized.Text)
	if normalized.Text == "" {
		return nil, ErrEmptyText
	}
	if strings.TrimSpace(normalized.ID) == "" {
		normalized.ID = newID()
	}
	if normalized.CreatedAt == 0 {
		normalized.CreatedAt = nowMillis()
	}
	return &normalized, nil
}
