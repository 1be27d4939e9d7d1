package watcher

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string

	d := NewDebouncer(20*time.Millisecond, 100, func(paths []string) {
		mu.Lock()
		batches = append(batches, paths)
		mu.Unlock()
	})

	d.Touch("b.pt")
	time.Sleep(time.Millisecond)
	d.Touch("a.pt")
	d.Touch("b.pt")

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if want := []string{"b.pt", "a.pt"}; !slices.Equal(batches[0], want) {
		t.Errorf("expected %v in first-change order, got %v", want, batches[0])
	}
}

func TestDebouncerWaitsForQuiet(t *testing.T) {
	flushed := make(chan time.Time, 1)
	d := NewDebouncer(60*time.Millisecond, 100, func([]string) { flushed <- time.Now() })

	start := time.Now()
	for i := 0; i < 4; i++ {
		d.Touch("a.pt")
		time.Sleep(30 * time.Millisecond)
	}
	lastTouch := start.Add(90 * time.Millisecond)

	select {
	case at := <-flushed:
		if at.Before(lastTouch.Add(60 * time.Millisecond)) {
			t.Errorf("flushed %v after start, before the quiet window ended", at.Sub(start))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("never flushed")
	}
}

func TestDebouncerMaxBatch(t *testing.T) {
	flushed := make(chan []string, 1)
	d := NewDebouncer(time.Hour, 2, func(paths []string) { flushed <- paths })

	d.Touch("a.pt")
	d.Touch("b.pt")

	select {
	case paths := <-flushed:
		if len(paths) != 2 {
			t.Errorf("expected 2 paths, got %v", paths)
		}
	case <-time.After(time.Second):
		t.Fatal("max batch did not flush")
	}
	if d.Pending() != 0 {
		t.Errorf("expected nothing pending after flush, got %d", d.Pending())
	}
}

func TestDebouncerForget(t *testing.T) {
	var got []string
	d := NewDebouncer(time.Hour, 100, func(paths []string) { got = paths })

	d.Touch("a.pt")
	d.Touch("gone.pt")
	d.Forget("gone.pt")
	d.Close()

	if !slices.Equal(got, []string{"a.pt"}) {
		t.Errorf("expected [a.pt], got %v", got)
	}
}

func TestDebouncerCloseFlushesPending(t *testing.T) {
	calls := 0
	var got []string
	d := NewDebouncer(time.Hour, 100, func(paths []string) {
		calls++
		got = paths
	})

	d.Touch("a.pt")
	d.Close()

	if calls != 1 || len(got) != 1 {
		t.Fatalf("expected pending path to flush on Close, got %v", got)
	}

	d.Touch("b.pt")
	d.Close()
	if calls != 1 {
		t.Error("touches after Close must be dropped")
	}
}

func TestShouldIgnore(t *testing.T) {
	w := &Watcher{config: DefaultWatcherConfig()}

	tests := map[string]bool{
		"/tmp/scripts/demo.pt":     false,
		"/tmp/scripts/demo.pt.swp": true,
		"/tmp/scripts/demo.pt~":    true,
		"/tmp/scripts/.hidden.pt":  true,
		"/tmp/scripts/.#demo.pt":   true,
		"/tmp/scripts/nested/x.pt": false,
	}
	for path, want := range tests {
		if got := w.shouldIgnore(path); got != want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcherReportsTargetChanges(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "demo.pt")
	other := filepath.Join(dir, "other.pt")
	for _, p := range []string{target, other} {
		if err := os.WriteFile(p, []byte("LIST\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	changed := make(chan []string, 4)
	cfg := DefaultWatcherConfig()
	cfg.DebounceWindow = 20 * time.Millisecond

	w, err := New(cfg, func(paths []string) { changed <- paths })
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.AddFile(target); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(other, []byte("CLEAR\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("ADD POINT 1 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	abs, _ := filepath.Abs(target)
	select {
	case paths := <-changed:
		if !slices.Equal(paths, []string{abs}) {
			t.Errorf("expected only %s, got %v", abs, paths)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
