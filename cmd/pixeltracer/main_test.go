package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestREPL(t *testing.T) {
	t.Setenv("PIXELTRACER_HOME", t.TempDir())

	code, out, errOut := runCLI(t, "ADD POINT 1 2\n\nLIST\nQUIT\nADD POINT 3 4\n", "-log-level", "error")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}

	for _, want := range []string{banner, prompt, "shape 1 created", "POINT [1, 2]", "bye"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "shape 2 created") {
		t.Error("commands after QUIT were executed")
	}
}

func TestREPLEndOfInput(t *testing.T) {
	t.Setenv("PIXELTRACER_HOME", t.TempDir())

	code, out, _ := runCLI(t, "LIST\n", "repl", "-journal=false")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if strings.Count(out, "list is empty") != 1 {
		t.Errorf("output = %q", out)
	}
}

func TestREPLCapacityFlag(t *testing.T) {
	t.Setenv("PIXELTRACER_HOME", t.TempDir())

	_, out, _ := runCLI(t, "ADD POINT 1 1\nADD POINT 2 2\n", "repl", "-capacity", "1", "-journal=false")
	if !strings.Contains(out, "registry is full") {
		t.Errorf("output = %q, want capacity error", out)
	}
}

func TestRunScriptsAndHistory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PIXELTRACER_HOME", home)

	dir := t.TempDir()
	script := filepath.Join(dir, "shapes.pt")
	content := "# demo\nADD LINE 0 0 3 4\nDELETE 7\nLIST\n"
	if err := os.WriteFile(script, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	code, out, errOut := runCLI(t, "", "run", "-log-level", "error", filepath.Join(dir, "*.pt"))
	if code != 0 {
		t.Fatalf("run exit code = %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "LINE [0, 0], [3, 4]") || !strings.Contains(out, "shape 7 not found") {
		t.Errorf("run output = %q", out)
	}

	code, out, errOut = runCLI(t, "", "history", "-n", "2", "-log-level", "error")
	if code != 0 {
		t.Fatalf("history exit code = %d, stderr: %s", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("history printed %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "DELETE 7") || !strings.Contains(lines[0], "not_found") {
		t.Errorf("first history line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "LIST") {
		t.Errorf("second history line = %q", lines[1])
	}
}

func TestUsageErrors(t *testing.T) {
	t.Setenv("PIXELTRACER_HOME", t.TempDir())

	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"draw"}},
		{"run without scripts", []string{"run"}},
		{"bad capacity", []string{"repl", "-capacity", "0"}},
		{"bad flag", []string{"repl", "-nope"}},
		{"send without line", []string{"send"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "", tt.args...)
			if code != 2 {
				t.Errorf("exit code = %d, want 2", code)
			}
			if !strings.Contains(errOut, "usage: pixeltracer") {
				t.Errorf("stderr missing usage: %q", errOut)
			}
		})
	}
}

func TestHistoryWithoutJournal(t *testing.T) {
	home := filepath.Join(t.TempDir(), "fresh")
	t.Setenv("PIXELTRACER_HOME", home)

	code, out, errOut := runCLI(t, "", "history", "-log-level", "error")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	if out != "" {
		t.Errorf("expected no history, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(home, "journal.db")); !os.IsNotExist(err) {
		t.Errorf("history should not create the journal: %v", err)
	}
}
