package storage

import (
	"os"
	"path/filepath"
	"syscall"
)

// FileLock is an exclusive advisory lock (flock) on a file. It serializes
// writers of the registry and the report history across mgit processes.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a lock for path. The file is created on [FileLock.Lock].
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock acquires the lock, blocking until it is free. The parent directory
// is created when missing.
func (l *FileLock) Lock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return err
	}
	l.file = f
	return nil
}

// Unlock releases the lock. Unlocking an unheld lock is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WithLock runs fn while holding the lock at path.
func WithLock(path string, fn func() error) error {
	l := NewFileLock(path)
	if err := l.Lock(); err != nil {
		return err
	}
	defer l.Unlock()
	return fn()
}
