// Package session runs the line-oriented read loop around a dispatcher.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Valentinhdn/Pixel-Tracer/internal/command"
	"github.com/Valentinhdn/Pixel-Tracer/internal/dispatch"
	"github.com/Valentinhdn/Pixel-Tracer/internal/journal"
	"github.com/Valentinhdn/Pixel-Tracer/internal/logger"
)

const maxLineSize = 1024 * 1024

// Recorder receives every executed line. The journal store implements it.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

type Options struct {
	// Prompt is written before each line is read. Empty disables it.
	Prompt string
	// Echo writes each non-empty line back before its output, for scripts.
	Echo     bool
	Recorder Recorder
}

// Summary describes how a session ended.
type Summary struct {
	Lines  int
	Failed int
	// Quit is set when the session ended on QUIT rather than end of input.
	Quit bool
}

type Session struct {
	id         string
	dispatcher *dispatch.Dispatcher
	opts       Options
	log        *slog.Logger
}

func New(d *dispatch.Dispatcher, opts Options) *Session {
	id := uuid.NewString()
	return &Session{
		id:         id,
		dispatcher: d,
		opts:       opts,
		log:        logger.ForComponent("session").With("session", id),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Run reads commands from in until QUIT, end of input or ctx is done.
// End of input ends the session the same way QUIT does. Only I/O failures
// are returned; command failures are written to out and the loop goes on.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) (Summary, error) {
	var sum Summary

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	s.log.Debug("session started")
	defer func() {
		s.log.Debug("session ended", "lines", sum.Lines, "failed", sum.Failed, "quit", sum.Quit)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		if s.opts.Prompt != "" {
			if _, err := io.WriteString(out, s.opts.Prompt); err != nil {
				return sum, err
			}
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return sum, fmt.Errorf("read command: %w", err)
			}
			return sum, nil
		}

		line := scanner.Text()
		res := s.dispatcher.Exec(line)
		if errors.Is(res.Err, command.ErrEmptyCommand) {
			continue
		}

		sum.Lines++
		if res.Err != nil {
			sum.Failed++
		}

		if s.opts.Echo {
			if _, err := fmt.Fprintf(out, "> %s\n", line); err != nil {
				return sum, err
			}
		}
		if _, err := fmt.Fprintln(out, res.Output); err != nil {
			return sum, err
		}

		s.record(ctx, sum.Lines, line, res)

		if res.Quit {
			sum.Quit = true
			return sum, nil
		}
	}
}

func (s *Session) record(ctx context.Context, seq int, line string, res dispatch.Result) {
	if s.opts.Recorder == nil {
		return
	}

	e := journal.Entry{
		SessionID: s.id,
		Seq:       seq,
		Line:      line,
		Command:   res.Command.String(),
		Outcome:   journal.OutcomeOK,
	}
	if res.Err != nil {
		e.Outcome = dispatch.Outcome(res.Err)
		e.Error = res.Err.Error()
	}

	if err := s.opts.Recorder.Record(ctx, e); err != nil {
		s.log.Warn("failed to journal command", "seq", seq, "error", err)
	}
}
