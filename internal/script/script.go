// Package script runs files of catalog commands, one command per line.
package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Valentinhdn/Pixel-Tracer/internal/dispatch"
	"github.com/Valentinhdn/Pixel-Tracer/internal/ident"
	"github.com/Valentinhdn/Pixel-Tracer/internal/logger"
	"github.com/Valentinhdn/Pixel-Tracer/internal/registry"
	"github.com/Valentinhdn/Pixel-Tracer/internal/session"
)

// Expand resolves doublestar patterns to a sorted list of distinct files.
// A pattern without glob syntax must name an existing file.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		pattern = filepath.Clean(pattern)

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 && !hasMeta(pattern) {
			if _, err := os.Stat(pattern); err != nil {
				return nil, err
			}
			matches = []string{pattern}
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	slices.Sort(files)
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Load reads a script and returns its command lines. Blank lines and lines
// starting with # are dropped.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text, enc, err := DecodeToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s as %s: %w", path, enc.Encoding, err)
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return lines, nil
}

type Options struct {
	Capacity int
	Echo     bool
	Recorder session.Recorder
}

// Run executes the script at path in a fresh catalog and writes the output
// of every command to out.
func Run(ctx context.Context, path string, out io.Writer, opts Options) (session.Summary, error) {
	log := logger.ForComponent("script")

	lines, err := Load(path)
	if err != nil {
		return session.Summary{}, err
	}

	d := dispatch.New(registry.New(opts.Capacity), ident.New())
	s := session.New(d, session.Options{Echo: opts.Echo, Recorder: opts.Recorder})

	log.Debug("running script", "path", path, "lines", len(lines), "session", s.ID())

	in := strings.NewReader(strings.Join(lines, "\n"))
	sum, err := s.Run(ctx, in, out)
	if err != nil {
		return sum, fmt.Errorf("run %s: %w", path, err)
	}

	log.Info("script finished", "path", path, "commands", sum.Lines, "failed", sum.Failed)
	return sum, nil
}
