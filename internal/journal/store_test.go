package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestRecordAndSession(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	lines := []Entry{
		{SessionID: "a", Seq: 1, Line: "ADD POINT 1 2", Command: "ADD"},
		{SessionID: "b", Seq: 1, Line: "LIST", Command: "LIST"},
		{SessionID: "a", Seq: 2, Line: "DELETE 9", Command: "DELETE", Outcome: "not_found", Error: "shape 9 not found"},
	}
	for _, e := range lines {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := store.Session(ctx, "a")
	if err != nil {
		t.Fatalf("Session failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Outcome != OutcomeOK || got[0].Error != "" {
		t.Errorf("expected ok entry, got %+v", got[0])
	}
	if got[1].Outcome != "not_found" || got[1].Error != "shape 9 not found" {
		t.Errorf("unexpected failed entry: %+v", got[1])
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	for i, line := range []string{"LIST", "CLEAR", "HELP"} {
		store.Record(ctx, Entry{SessionID: "s", Seq: i + 1, Line: line, Command: line})
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 || got[0].Line != "HELP" || got[1].Line != "CLEAR" {
		t.Errorf("unexpected entries: %+v", got)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Record(ctx, Entry{SessionID: "s", Seq: 1, Line: "LIST", Command: "LIST"})
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	got, _ := store.Recent(ctx, 10)
	if len(got) != 1 {
		t.Errorf("expected 1 entry after reopen, got %d", len(got))
	}
}

func TestClosed(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Close()

	if err := store.Record(context.Background(), Entry{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}
