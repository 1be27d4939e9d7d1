package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Valentinhdn/Pixel-Tracer/internal/dispatch"
	"github.com/Valentinhdn/Pixel-Tracer/internal/ident"
	"github.com/Valentinhdn/Pixel-Tracer/internal/journal"
	"github.com/Valentinhdn/Pixel-Tracer/internal/registry"
)

type memRecorder struct {
	entries []journal.Entry
	err     error
}

func (r *memRecorder) Record(ctx context.Context, e journal.Entry) error {
	r.entries = append(r.entries, e)
	return r.err
}

func newDispatcher() *dispatch.Dispatcher {
	return dispatch.New(registry.New(registry.DefaultCapacity), ident.New())
}

func TestRunStopsAtQuit(t *testing.T) {
	in := strings.NewReader("ADD POINT 3 4\n\nLIST\nQUIT\nADD POINT 1 1\n")
	var out bytes.Buffer

	d := newDispatcher()
	sum, err := New(d, Options{}).Run(context.Background(), in, &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !sum.Quit || sum.Lines != 3 || sum.Failed != 0 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if d.Registry().Len() != 1 {
		t.Errorf("lines after QUIT must not run, registry has %d shapes", d.Registry().Len())
	}

	want := "shape 1 created\nShape ID: 1, Type: POINT\nPOINT [3, 4]\n" +
		"Shape ID: 1, Type: POINT\nPOINT [3, 4]\n" +
		"bye\n"
	if out.String() != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRunEndOfInputActsAsQuit(t *testing.T) {
	var out bytes.Buffer
	sum, err := New(newDispatcher(), Options{Prompt: "Enter command: "}).
		Run(context.Background(), strings.NewReader("LIST"), &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sum.Quit {
		t.Error("end of input is not an explicit QUIT")
	}
	if out.String() != "Enter command: list is empty\nEnter command: " {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRunContinuesAfterErrors(t *testing.T) {
	in := strings.NewReader("BOGUS\nADD POINT x\nDELETE 3\nADD POINT 1 1\n")
	var out bytes.Buffer

	sum, err := New(newDispatcher(), Options{Echo: true}).Run(context.Background(), in, &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sum.Lines != 4 || sum.Failed != 3 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if strings.Count(out.String(), "error: ") != 3 {
		t.Errorf("expected 3 error lines, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "> ADD POINT 1 1\nshape 1 created") {
		t.Errorf("expected echoed line, got:\n%s", out.String())
	}
}

func TestRunRecordsEntries(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	s := New(newDispatcher(), Options{Recorder: rec})

	_, err := s.Run(context.Background(), strings.NewReader("ADD POINT 1 2\nDELETE 7\n"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("recorder failures must not end the session: %v", err)
	}

	if len(rec.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(rec.entries))
	}
	first, second := rec.entries[0], rec.entries[1]
	if first.SessionID != s.ID() || first.Seq != 1 || first.Command != "ADD" || first.Outcome != journal.OutcomeOK {
		t.Errorf("unexpected first entry: %+v", first)
	}
	if second.Seq != 2 || second.Outcome != "not_found" || second.Error == "" {
		t.Errorf("unexpected second entry: %+v", second)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(newDispatcher(), Options{}).Run(ctx, strings.NewReader("LIST\n"), &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
