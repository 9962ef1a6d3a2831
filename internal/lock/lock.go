// Package lock keeps two vagasbot processes from working on the same data
// directory at once.
package lock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created inside the data directory.
const FileName = "vagasbot.lock"

// ErrLocked is returned when another process holds the data directory.
var ErrLocked = errors.New("data directory is locked by another vagasbot process")

// DirLock is an exclusive advisory lock on a data directory.
type DirLock struct {
	fl *flock.Flock
}

// Acquire takes the lock without waiting. The directory must exist.
func Acquire(dataDir string) (*DirLock, error) {
	fl := flock.New(filepath.Join(dataDir, FileName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", dataDir, err)
	}
	if !ok {
		return nil, fmt.Errorf("locking %s: %w", dataDir, ErrLocked)
	}
	return &DirLock{fl: fl}, nil
}

// Release drops the lock.
func (l *DirLock) Release() error {
	return l.fl.Unlock()
}
