package canvas

import (
	"testing"

	"corkboard/internal/types"
)

func snap(notes ...*types.Note) types.Snapshot {
	s := types.Snapshot{}
	for _, n := range notes {
		s[n.ID] = n
	}
	return s
}

func TestReplaceOverwritesOptimisticState(t *testing.T) {
	c := NewCollection()
	c.Replace(snap(&types.Note{ID: "n1", Text: "hi", X: 100, Y: 100}))

	if !c.SetPosition("n1", 300, 300) {
		t.Fatalf("expected the note to exist")
	}

	// A snapshot written before the local move lands mid-gesture. Last
	// snapshot wins: the optimistic position is discarded.
	c.Replace(snap(&types.Note{ID: "n1", Text: "hi", X: 100, Y: 100}))
	note, ok := c.Get("n1")
	if !ok {
		t.Fatalf("note missing after replace")
	}
	if note.X != 100 || note.Y != 100 {
		t.Fatalf("expected snapshot position, got (%v, %v)", note.X, note.Y)
	}
}

func TestReplaceMergingKeepsPinnedFields(t *testing.T) {
	c := NewCollection()
	c.Replace(snap(&types.Note{ID: "n1", Text: "hi", X: 100, Y: 100, FontSize: 20}))
	c.SetPosition("n1", 300, 300)
	c.SetFontSize("n1", 24)

	incoming := snap(&types.Note{ID: "n1", Text: "edited", X: 100, Y: 100, FontSize: 20})
	c.ReplaceMerging(incoming, Pins{"n1": {Position: true, FontSize: true}})

	note, _ := c.Get("n1")
	if note.X != 300 || note.Y != 300 {
		t.Fatalf("pinned position must survive, got (%v, %v)", note.X, note.Y)
	}
	if note.FontSize != 24 {
		t.Fatalf("pinned size must survive, got %v", note.FontSize)
	}
	if note.Text != "edited" {
		t.Fatalf("unpinned fields take the snapshot value, got %q", note.Text)
	}
}

func TestReplaceMergingRemoteDeleteWins(t *testing.T) {
	c := NewCollection()
	c.Replace(snap(&types.Note{ID: "n1", Text: "hi", X: 100, Y: 100}))
	c.SetPosition("n1", 300, 300)

	c.ReplaceMerging(types.Snapshot{}, Pins{"n1": {Position: true}})
	if _, ok := c.Get("n1"); ok {
		t.Fatalf("a note deleted remotely disappears even while pinned")
	}
	if c.Len() != 0 {
		t.Fatalf("expected an empty mirror, got %d", c.Len())
	}
}

func TestReplaceMergingWithoutPinsIsReplace(t *testing.T) {
	c := NewCollection()
	c.Replace(snap(&types.Note{ID: "n1", X: 1, Y: 1}))
	c.SetPosition("n1", 50, 50)

	c.ReplaceMerging(snap(&types.Note{ID: "n1", X: 1, Y: 1}), nil)
	note, _ := c.Get("n1")
	if note.X != 1 {
		t.Fatalf("no pins means wholesale replace, got x=%v", note.X)
	}
}

func TestReplaceClonesInput(t *testing.T) {
	original := &types.Note{ID: "n1", X: 10}
	c := NewCollection()
	c.Replace(snap(original))

	c.SetPosition("n1", 99, 99)
	if original.X != 10 {
		t.Fatalf("mirror mutation leaked into the caller's snapshot")
	}
}

func TestSetOnMissingNote(t *testing.T) {
	c := NewCollection()
	if c.SetPosition("ghost", 1, 1) {
		t.Fatalf("moving a missing note must report false")
	}
	if c.SetFontSize("ghost", 30) {
		t.Fatalf("resizing a missing note must report false")
	}
}

func TestOrderedSortsByCreationThenID(t *testing.T) {
	c := NewCollection()
	c.Replace(snap(
		&types.Note{ID: "b", CreatedAt: 200},
		&types.Note{ID: "c", CreatedAt: 100},
		&types.Note{ID: "a", CreatedAt: 200},
	))

	ordered := c.Ordered()
	got := []string{ordered[0].ID, ordered[1].ID, ordered[2].ID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}
