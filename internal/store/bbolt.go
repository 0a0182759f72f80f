package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"corkboard/internal/types"
)

var (
	bucketNotes    = []byte("notes")
	bucketMessages = []byte("messages")
)

// Repository bundles the bbolt-backed stores sharing one database file.
type Repository struct {
	db       *bolt.DB
	notes    NoteStore
	messages MessageStore
}

func NewRepository(path string) (*Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{
		db:       db,
		notes:    &bboltNoteStore{db: db},
		messages: &bboltMessageStore{db: db},
	}, nil
}

func (r *Repository) Notes() NoteStore {
	return r.notes
}

func (r *Repository) Messages() MessageStore {
	return r.messages
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func initSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketNotes); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMessages)
		return err
	})
}

type bboltNoteStore struct {
	db *bolt.DB
	mu sync.Mutex
}

func (s *bboltNoteStore) List(ctx context.Context) ([]*types.Note, error) {
	out := make([]*types.Note, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var note types.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			out = append(out, types.CloneNote(&note))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

func (s *bboltNoteStore) Get(ctx context.Context, id string) (*types.Note, bool, error) {
	var (
		note *types.Note
		ok   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(id))
		if len(raw) == 0 {
			return nil
		}
		var item types.Note
		if err := json.Unmarshal(raw, &item); err != nil {
			return err
		}
		note = types.CloneNote(&item)
		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return note, ok, nil
}

func (s *bboltNoteStore) Create(ctx context.Context, note *types.Note) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized, err := normalizeNewNote(note)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return errors.New("notes bucket missing")
		}
		return b.Put([]byte(normalized.ID), raw)
	}); err != nil {
		return nil, err
	}
	return types.CloneNote(normalized), nil
}

func (s *bboltNoteStore) Patch(ctx context.Context, id string, patch NotePatch) (*types.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoteNotFound
	}
	updated, err := applyPatch(existing, patch)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(updated)
	if err != nil {
		return nil, err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return errors.New("notes bucket missing")
		}
		return b.Put([]byte(updated.ID), raw)
	}); err != nil {
		return nil, err
	}
	return types.CloneNote(updated), nil
}

func (s *bboltNoteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		if len(b.Get([]byte(id))) > 0 {
			found = true
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNoteNotFound
	}
	return nil
}

func (s *bboltNoteStore) Snapshot(ctx context.Context) (types.Snapshot, error) {
	snapshot := types.Snapshot{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotes)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var note types.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			snapshot[note.ID] = types.CloneNote(&note)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

type bboltMessageStore struct {
	db *bolt.DB
	mu sync.Mutex
}

func (s *bboltMessageStore) Append(ctx context.Context, msg *types.Message) (*types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized, err := normalizeMessage(msg)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages)
		if b == nil {
			return errors.New("messages bucket missing")
		}
		return b.Put([]byte(normalized.ID), raw)
	}); err != nil {
		return nil, err
	}
	return types.CloneMessage(normalized), nil
}

// ListRecent returns the newest messages, oldest first. ULID keys sort by
// creation time, so the bucket tail is the recent window.
func (s *bboltMessageStore) ListRecent(ctx context.Context, limit int) ([]*types.Message, error) {
	if limit <= 0 {
		limit = 10
	}
	out := make([]*types.Message, 0, limit)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages)
		if b == nil {
			return nil
		}
		cursor := b.Cursor()
		for k, v := cursor.Last(); k != nil && len(out) < limit; k, v = cursor.Prev() {
			var msg types.Message
			if err := json.Unmarshal(v, &msg); err != nil {
				return err
			}
			out = append(out, types.CloneMessage(&msg))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
