// Package storage provides atomic file operations for mgit's state directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// trashStamp names trashed entries so repeated cleanups never collide.
const trashStamp = "20060102-150405.000000000"

// SaveJSON atomically writes data as JSON to the specified path.
// It ensures the parent directory exists, writes to a temp file,
// then renames to the final path for atomic operation.
func SaveJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tempPath := path + ".tmp"

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, jsonData, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// LoadJSON reads JSON from the specified path into dest.
// Returns os.ErrNotExist if file doesn't exist (caller should handle).
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Recreate makes dir an empty directory. It reports whether something
// already existed at dir and had to be removed first.
func Recreate(dir string) (existed bool, err error) {
	if err := os.Mkdir(dir, 0o755); err == nil {
		return false, nil
	} else if !os.IsExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return true, fmt.Errorf("remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return true, err
	}
	return true, nil
}

// MoveToTrash moves path into trashDir under a timestamped name and returns
// the new location. The entry can be restored by moving it back.
func MoveToTrash(path, trashDir string, now time.Time) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		return "", err
	}
	if err := os.MkdirAll(trashDir, 0o755); err != nil {
		return "", fmt.Errorf("create trash directory: %w", err)
	}

	dest := filepath.Join(trashDir, filepath.Base(path)+"-"+now.Format(trashStamp))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move to trash: %w", err)
	}
	return dest, nil
}
