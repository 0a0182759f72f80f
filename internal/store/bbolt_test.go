package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"corkboard/internal/types"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "corkboard.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestNoteStoreCreateAssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	notes := newTestRepository(t).Notes()

	created, err := notes.Create(ctx, &types.Note{Text: "  Hello  ", X: 120, Y: 80})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id")
	}
	if created.CreatedAt == 0 {
		t.Fatalf("expected timestamp")
	}
	if created.Text != "Hello" {
		t.Fatalf("expected trimmed text, got %q", created.Text)
	}

	got, ok, err := notes.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected note to exist")
	}
	if got.X != 120 || got.Y != 80 {
		t.Fatalf("unexpected position (%v,%v)", got.X, got.Y)
	}
}

func TestNoteStoreRejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	notes := newTestRepository(t).Notes()

	if _, err := notes.Create(ctx, &types.Note{Text: "   "}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}

	created, err := notes.Create(ctx, &types.Note{Text: "keep"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	empty := ""
	if _, err := notes.Patch(ctx, created.ID, NotePatch{Text: &empty}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText on empty patch, got %v", err)
	}
}

func TestNoteStorePatchIsPartial(t *testing.T) {
	ctx := context.Background()
	notes := newTestRepository(t).Notes()

	created, err := notes.Create(ctx, &types.Note{Text: "hello", X: 50, Y: 60, FontSize: 24})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	x := 10.5
	updated, err := notes.Patch(ctx, created.ID, NotePatch{X: &x})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated.X != 10.5 {
		t.Fatalf("expected x=10.5, got %v", updated.X)
	}
	if updated.Y != 60 || updated.Text != "hello" || updated.FontSize != 24 {
		t.Fatalf("patch touched unrelated fields: %+v", updated)
	}

	size := 500.0
	updated, err = notes.Patch(ctx, created.ID, NotePatch{FontSize: &size})
	if err != nil {
		t.Fatalf("patch size: %v", err)
	}
	if updated.FontSize != types.MaxFontSize {
		t.Fatalf("expected clamped size %v, got %v", types.MaxFontSize, updated.FontSize)
	}
}

func TestNoteStorePatchMissingNote(t *testing.T) {
	ctx := context.Background()
	notes := newTestRepository(t).Notes()

	x := 1.0
	if _, err := notes.Patch(ctx, "nope", NotePatch{X: &x}); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
	if err := notes.Delete(ctx, "nope"); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound on delete, got %v", err)
	}
}

func TestNoteStoreSnapshotAndClone(t *testing.T) {
	ctx := context.Background()
	notes := newTestRepository(t).Notes()

	created, err := notes.Create(ctx, &types.Note{Text: "snap"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	snapshot, err := notes.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 note, got %d", len(snapshot))
	}
	snapshot[created.ID].Text = "mutated"

	got, ok, err := notes.Get(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Text != "snap" {
		t.Fatalf("expected clone semantics, got %q", got.Text)
	}
}

func TestNoteStoreDeleteRemovesFromSnapshot(t *testing.T) {
	ctx := context.Background()
	notes := newTestRepository(t).Notes()

	created, err := notes.Create(ctx, &types.Note{Text: "gone soon"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := notes.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	snapshot, err := notes.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snapshot) != 0 {
		t.Fatalf("expected empty snapshot, got %d", len(snapshot))
	}
}

func TestNoteStoreListOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	notes := newTestRepository(t).Notes()

	for i := 0; i < 3; i++ {
		_, err := notes.Create(ctx, &types.Note{Text: fmt.Sprintf("note %d", i), CreatedAt: int64(100 + i)})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	listed, err := notes.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i-1].CreatedAt > listed[i].CreatedAt {
			t.Fatalf("list not ordered by createdAt: %v", listed)
		}
	}
}

func TestMessageStoreRecentWindow(t *testing.T) {
	ctx := context.Background()
	messages := newTestRepository(t).Messages()

	for i := 0; i < 15; i++ {
		_, err := messages.Append(ctx, &types.Message{Text: fmt.Sprintf("msg %d", i), UserID: "bot"})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recent, err := messages.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(recent))
	}
	if recent[0].Text != "msg 5" {
		t.Fatalf("expected window to start at msg 5, got %q", recent[0].Text)
	}
	if recent[9].Text != "msg 14" {
		t.Fatalf("expected newest last, got %q", recent[9].Text)
	}
}

func TestMessageStoreRejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	messages := newTestRepository(t).Messages()

	if _, err := messages.Append(ctx, &types.Message{Text: " \t "}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}
