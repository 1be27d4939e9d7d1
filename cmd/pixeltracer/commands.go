package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Valentinhdn/Pixel-Tracer/internal/config"
	"github.com/Valentinhdn/Pixel-Tracer/internal/daemon"
	"github.com/Valentinhdn/Pixel-Tracer/internal/dispatch"
	"github.com/Valentinhdn/Pixel-Tracer/internal/ident"
	"github.com/Valentinhdn/Pixel-Tracer/internal/journal"
	"github.com/Valentinhdn/Pixel-Tracer/internal/logger"
	"github.com/Valentinhdn/Pixel-Tracer/internal/registry"
	"github.com/Valentinhdn/Pixel-Tracer/internal/script"
	"github.com/Valentinhdn/Pixel-Tracer/internal/session"
	"github.com/Valentinhdn/Pixel-Tracer/internal/watcher"
)

const (
	banner = "Type HELP for help."
	prompt = "Enter command: "
)

func runREPL(cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs, err := parseFlags("repl", cfg, args, stderr, nil)
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: repl takes no arguments", errUsage)
	}

	rec, closeJournal := openJournal(cfg)
	defer closeJournal()

	d := dispatch.New(registry.New(cfg.Capacity), ident.New())
	s := session.New(d, session.Options{Prompt: prompt, Recorder: rec})

	fmt.Fprintln(stdout, banner)
	_, err = s.Run(context.Background(), stdin, stdout)
	return err
}

func runScripts(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	var watch bool
	fs, err := parseFlags("run", cfg, args, stderr, func(fs *flag.FlagSet) {
		fs.BoolVar(&watch, "watch", false, "re-run scripts whenever they change")
	})
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: run needs at least one script", errUsage)
	}

	files, err := script.Expand(fs.Args())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no scripts match %s", strings.Join(fs.Args(), " "))
	}

	rec, closeJournal := openJournal(cfg)
	defer closeJournal()

	opts := script.Options{Capacity: cfg.Capacity, Echo: true, Recorder: rec}

	ctx, cancel := signalContext()
	defer cancel()

	failed := runAll(ctx, files, stdout, opts)
	if !watch {
		if failed > 0 {
			return fmt.Errorf("%d of %d scripts failed", failed, len(files))
		}
		return nil
	}

	return watchScripts(ctx, cfg.Watcher, files, stdout, opts)
}

func runAll(ctx context.Context, files []string, out io.Writer, opts script.Options) int {
	failed := 0
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		if len(files) > 1 {
			fmt.Fprintf(out, "== %s\n", path)
		}
		if _, err := script.Run(ctx, path, out, opts); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			failed++
		}
	}
	return failed
}

func watchScripts(ctx context.Context, wcfg watcher.WatcherConfig, files []string, out io.Writer, opts script.Options) error {
	log := logger.ForComponent("cli")
	changed := make(chan []string, 1)

	w, err := watcher.New(wcfg, func(paths []string) {
		select {
		case changed <- paths:
		default:
		}
	})
	if err != nil {
		return err
	}

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	for _, path := range files {
		if err := w.AddFile(path); err != nil {
			return err
		}
	}

	log.Info("watching scripts", "count", len(files))

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changed:
			runAll(ctx, paths, out, opts)
		}
	}
}

func runServe(cfg *config.Config, args []string, stderr io.Writer) error {
	fs, err := parseFlags("serve", cfg, args, stderr, func(fs *flag.FlagSet) {
		fs.StringVar(&cfg.SocketPath, "socket", cfg.SocketPath, "unix socket path")
	})
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: serve takes no arguments", errUsage)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	guard := daemon.NewGuard(cfg.LockPath(), cfg.PIDPath(), cfg.SocketPath)
	if err := guard.Acquire(); err != nil {
		return err
	}
	defer guard.Release()

	rec, closeJournal := openJournal(cfg)
	defer closeJournal()

	d := dispatch.New(registry.New(cfg.Capacity), ident.New())
	srv := daemon.NewServer(cfg.SocketPath, d, rec)
	if err := srv.Start(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	<-ctx.Done()

	srv.Shutdown()
	return nil
}

func runSend(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs, err := parseFlags("send", cfg, args, stderr, func(fs *flag.FlagSet) {
		fs.StringVar(&cfg.SocketPath, "socket", cfg.SocketPath, "unix socket path")
	})
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: send needs a command line", errUsage)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := daemon.Dial(ctx, cfg.SocketPath)
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := c.Exec(ctx, strings.Join(fs.Args(), " "))
	if res != nil {
		fmt.Fprintln(stdout, res.Output)
	}

	return err
}

func runHistory(cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	var limit int
	fs, err := parseFlags("history", cfg, args, stderr, func(fs *flag.FlagSet) {
		fs.IntVar(&limit, "n", 20, "number of entries to print")
	})
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: history takes no arguments", errUsage)
	}

	// Nothing has been journaled yet; reading must not create the journal.
	if _, err := os.Stat(cfg.JournalPath); os.IsNotExist(err) {
		return nil
	}

	store, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Fprintln(stdout, formatEntry(entries[i]))
	}
	return nil
}

func formatEntry(e journal.Entry) string {
	sid := e.SessionID
	if len(sid) > 8 {
		sid = sid[:8]
	}

	line := fmt.Sprintf("%s  %s #%-3d %-8s %s", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), sid, e.Seq, e.Outcome, e.Line)
	if e.Error != "" {
		line += "  (" + e.Error + ")"
	}
	return line
}
