package plan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const lockWriteGrace = 2 * time.Second

// ErrLocked is returned when another live orchestrator holds the run lock.
var ErrLocked = errors.New("another ralph run is active in this project")

// LockedError carries the PID of the process holding the lock.
type LockedError struct {
	PID  int
	Path string
}

func (e *LockedError) Error() string {
	if e.PID == 0 {
		return fmt.Sprintf("%v (lock file %s)", ErrLocked, e.Path)
	}
	return fmt.Sprintf("%v (PID %d, lock file %s)", ErrLocked, e.PID, e.Path)
}

func (e *LockedError) Unwrap() error { return ErrLocked }

// Lock is a PID file that keeps two runs from editing the same plan.
type Lock struct {
	path string
}

// NewLock creates a lock backed by the file at path.
func NewLock(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire takes the lock. A lock left behind by a dead process, or one with
// garbage contents, is removed and acquisition is retried once.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		err := l.create()
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return err
		}

		pid, ok := l.owner()
		if ok && processExists(pid) {
			return &LockedError{PID: pid, Path: l.path}
		}
		if !ok && l.beingWritten() {
			return &LockedError{Path: l.path}
		}
		if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale lock: %w", err)
		}
	}
	return fmt.Errorf("%w: lock taken during retry", ErrLocked)
}

func (l *Lock) create() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return err
		}
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	_, werr := fmt.Fprintf(f, "%d", os.Getpid())
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(l.path)
		return fmt.Errorf("failed to write lock file: %w", werr)
	}
	return nil
}

// owner returns the PID recorded in the lock file.
func (l *Lock) owner() (int, bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// beingWritten reports whether the lock file is empty and younger than
// lockWriteGrace, i.e. another process created it and has not yet written
// its PID.
func (l *Lock) beingWritten() bool {
	info, err := os.Stat(l.path)
	if err != nil {
		return false
	}
	return info.Size() == 0 && time.Since(info.ModTime()) < lockWriteGrace
}

// Held reports whether a live process currently holds the lock.
func (l *Lock) Held() bool {
	pid, ok := l.owner()
	return ok && processExists(pid)
}

// Release removes the lock file. Releasing twice is fine.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// processExists probes pid with signal 0.
func processExists(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
