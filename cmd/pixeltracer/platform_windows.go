//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

func waitForShutdownSignal(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	// Windows only delivers os.Interrupt (Ctrl+C)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}
}
