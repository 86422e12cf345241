package store

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/r-che/log"
)

// Suffix of the lock file created next to the store file
const lockSuffix = `.lock`

// Lock takes an advisory inter-process lock guarding the whole
// load-mutate-save session. Without it two concurrent mutating invocations
// degrade to last-writer-wins - the later Save silently discards the
// other's updates. The lock is taken on a separate file because the store
// file itself is replaced by rename on every Save.
//
// Lock blocks until the lock is acquired.
func (s *Store) Lock() error {
	if s.lockFile != nil {
		return fmt.Errorf("store %q is already locked", s.path)
	}

	// The store directory may not exist yet
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return fmt.Errorf("cannot create store directory %q: %w", dir, err)
	}

	f, err := os.OpenFile(s.path + lockSuffix, os.O_CREATE|os.O_RDWR, storeFileMode)
	if err != nil {
		return fmt.Errorf("cannot open lock file %q: %w", s.path + lockSuffix, err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return fmt.Errorf("cannot lock %q: %w", f.Name(), err)
	}

	s.lockFile = f

	log.D("Locked store %q", s.path)

	// OK
	return nil
}

// Unlock releases the lock taken by Lock. Unlock of an unlocked store is a no-op.
func (s *Store) Unlock() {
	if s.lockFile == nil {
		return
	}

	if err := syscall.Flock(int(s.lockFile.Fd()), syscall.LOCK_UN); err != nil {
		log.W("Cannot unlock %q: %v", s.lockFile.Name(), err)
	}

	if err := s.lockFile.Close(); err != nil {
		log.W("Cannot close lock file %q: %v", s.lockFile.Name(), err)
	}

	s.lockFile = nil

	log.D("Unlocked store %q", s.path)
}
