package daemon

import (
	"fmt"
	"net"
	"time"
)

// Guard keeps one server per socket: it owns the lock file for the lifetime
// of the server and advertises the pid while running.
type Guard struct {
	lockFile   *LockFile
	pidFile    *PIDFile
	socketPath string
}

func NewGuard(lockPath, pidPath, socketPath string) *Guard {
	return &Guard{
		lockFile:   NewLockFile(lockPath),
		pidFile:    NewPIDFile(pidPath),
		socketPath: socketPath,
	}
}

// Acquire fails with ErrLockHeld when another server holds the lock.
func (g *Guard) Acquire() error {
	if err := g.lockFile.Acquire(); err != nil {
		if pid, rerr := g.pidFile.Read(); rerr == nil && pid != 0 && processExists(pid) {
			return fmt.Errorf("pid %d on %s: %w", pid, g.socketPath, err)
		}
		return err
	}

	if err := g.pidFile.Write(); err != nil {
		g.lockFile.Release()
		return fmt.Errorf("failed to record pid: %w", err)
	}

	return nil
}

func (g *Guard) Release() {
	g.pidFile.Remove()
	g.lockFile.Release()
}

// SocketResponsive reports whether something accepts connections on the socket.
func (g *Guard) SocketResponsive() bool {
	conn, err := net.DialTimeout("unix", g.socketPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (g *Guard) PIDFile() *PIDFile {
	return g.pidFile
}
