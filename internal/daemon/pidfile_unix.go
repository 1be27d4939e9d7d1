//go:build unix

package daemon

import "golang.org/x/sys/unix"

// processExists probes pid with signal 0.
func processExists(pid int) bool {
	return unix.Kill(pid, 0) == nil
}
