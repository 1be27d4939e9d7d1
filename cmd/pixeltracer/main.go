package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Valentinhdn/Pixel-Tracer/internal/config"
	"github.com/Valentinhdn/Pixel-Tracer/internal/journal"
	"github.com/Valentinhdn/Pixel-Tracer/internal/logger"
	"github.com/Valentinhdn/Pixel-Tracer/internal/session"
)

const usage = `usage: pixeltracer [command] [flags]

commands:
  repl                 interactive session (default)
  run [-watch] glob... run command scripts
  serve                share one catalog over a unix socket
  send line...         run one command on a running server
  history [-n N]       print journaled commands
`

// errUsage marks failures that should print usage and exit 2.
var errUsage = errors.New("usage")

type commonFlags struct {
	capacity int
	logLevel string
	journal  bool
}

func (c *commonFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.IntVar(&c.capacity, "capacity", cfg.Capacity, "maximum number of shapes in the catalog")
	fs.StringVar(&c.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.journal, "journal", cfg.JournalEnabled, "record executed commands in the journal")
}

func (c *commonFlags) apply(cfg *config.Config) error {
	if c.capacity <= 0 {
		return fmt.Errorf("%w: -capacity must be positive", errUsage)
	}
	cfg.Capacity = c.capacity
	cfg.LogLevel = c.logLevel
	cfg.JournalEnabled = c.journal
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	name := "repl"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		name, args = args[0], args[1:]
	}

	var cmdErr error
	switch name {
	case "repl":
		cmdErr = runREPL(cfg, args, stdin, stdout, stderr)
	case "run":
		cmdErr = runScripts(cfg, args, stdout, stderr)
	case "serve":
		cmdErr = runServe(cfg, args, stderr)
	case "send":
		cmdErr = runSend(cfg, args, stdout, stderr)
	case "history":
		cmdErr = runHistory(cfg, args, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		cmdErr = fmt.Errorf("%w: unknown command %q", errUsage, name)
	}

	switch {
	case cmdErr == nil:
		return 0
	case errors.Is(cmdErr, flag.ErrHelp):
		return 0
	case errors.Is(cmdErr, errUsage):
		fmt.Fprintf(stderr, "%v\n%s", cmdErr, usage)
		return 2
	default:
		fmt.Fprintf(stderr, "pixeltracer %s: %v\n", name, cmdErr)
		return 1
	}
}

// parseFlags parses args for subcommand name and initialises logging.
func parseFlags(name string, cfg *config.Config, args []string, stderr io.Writer, extra func(*flag.FlagSet)) (*flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs, cfg)
	if extra != nil {
		extra(fs)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := common.apply(cfg); err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	logger.Init(logger.Config{Level: level, Format: cfg.LogFormat, Output: stderr})

	return fs, nil
}

// openJournal returns a nil recorder when journaling is disabled or the
// journal cannot be opened; neither stops the catalog from working.
func openJournal(cfg *config.Config) (session.Recorder, func()) {
	if !cfg.JournalEnabled {
		return nil, func() {}
	}

	log := logger.ForComponent("cli")
	if err := cfg.EnsureDirectories(); err != nil {
		log.Warn("journal disabled", "error", err)
		return nil, func() {}
	}

	store, err := journal.Open(cfg.JournalPath)
	if err != nil {
		log.Warn("journal disabled", "path", cfg.JournalPath, "error", err)
		return nil, func() {}
	}

	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close journal", "error", err)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		waitForShutdownSignal(ctx)
		cancel()
	}()
	return ctx, cancel
}
