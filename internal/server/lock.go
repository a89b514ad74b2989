package server

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// acquireSingleInstance guards against a second daemon binding the same
// config's listener. The teacher probed a Unix socket path by dialing
// it; that approach doesn't carry over to a TCP listener (nothing to
// dial before bind), so this uses a plain lock file instead (see
// DESIGN.md). The lock is held for the life of the process and is not
// released across a reload (SIGHUP) — only on shutdown.
func acquireSingleInstance(stateDir string) (*flock.Flock, error) {
	path := filepath.Join(stateDir, "displayd.lock")
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("another displayd instance is already running (lock held: %s)", path)
	}
	return fl, nil
}
