// Package pidfile keeps a single persisted run per database.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrLocked is returned when another live run holds the PID file
var ErrLocked = errors.New("another run holds the lock")

// PIDFile is a process ID file used as a single-writer lock
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the lock file location
func (p *PIDFile) Path() string { return p.path }

// Acquire writes the current PID to the file. A file left by a dead process is replaced;
// a file held by a live process yields ErrLocked.
func (p *PIDFile) Acquire() error {
	if pid, err := p.Holder(); err == nil {
		if pid != os.Getpid() && isProcessRunning(pid) {
			return fmt.Errorf("%w (PID %d, %s)", ErrLocked, pid, p.path)
		}
		// Stale lock
		_ = os.Remove(p.path)
	} else if !os.IsNotExist(err) {
		// Unreadable or corrupt lock is treated as stale
		_ = os.Remove(p.path)
	}

	f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w (%s)", ErrLocked, p.path)
		}
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Holder returns the PID recorded in the file
func (p *PIDFile) Holder() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file %s: %w", p.path, err)
	}
	return pid, nil
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning checks if a process with the given PID is running
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix FindProcess always succeeds; signal 0 checks for existence
	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// Exists but owned by another user
		return true
	default:
		return false
	}
}
