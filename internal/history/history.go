// Package history remembers the status reports mgit has written.
// This enables `mgit status --last` and `mgit history` without rescanning
// the report directory.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/raphi011/mgit/internal/storage"
)

// maxEntries caps the number of remembered reports.
const maxEntries = 50

// Entry is one written report.
type Entry struct {
	Path      string    `json:"path"`
	Time      time.Time `json:"time"`
	Total     int       `json:"total"`     // repositories in the report
	Attention int       `json:"attention"` // repositories needing attention
}

// History stores written reports, newest first.
type History struct {
	Entries []Entry `json:"entries"`
}

// Load reads the history file. A missing file yields an empty history.
func Load(historyFile string) (*History, error) {
	var h History
	if err := storage.LoadJSON(historyFile, &h); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("corrupt history file %s: %w", historyFile, err)
		}
		return nil, err
	}
	return &h, nil
}

// Save writes the history to disk atomically
func (h *History) Save(historyFile string) error {
	return storage.SaveJSON(historyFile, h)
}

// Add puts e first, replacing an entry with the same path and evicting the
// oldest entries beyond the cap.
func (h *History) Add(e Entry) {
	h.RemoveByPath(e.Path)
	h.Entries = slices.Insert(h.Entries, 0, e)
	slices.SortStableFunc(h.Entries, func(a, b Entry) int { return b.Time.Compare(a.Time) })
	if len(h.Entries) > maxEntries {
		h.Entries = h.Entries[:maxEntries]
	}
}

// RemoveByPath drops the entry for path. Returns true if one was removed.
func (h *History) RemoveByPath(path string) bool {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool { return e.Path == path })
	return len(h.Entries) != n
}

// RemoveStale drops entries whose report file no longer exists.
// Returns the number of removed entries.
func (h *History) RemoveStale() int {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool {
		_, err := os.Stat(e.Path)
		return err != nil
	})
	return n - len(h.Entries)
}

// RecordReport loads the history file, adds e and saves it.
func RecordReport(e Entry, historyFile string) error {
	return storage.WithLock(historyFile+".lock", func() error {
		h, err := Load(historyFile)
		if err != nil {
			// Start over rather than losing the new entry.
			h = &History{}
		}
		h.Add(e)
		return h.Save(historyFile)
	})
}

// MostRecent returns the newest report that still exists.
// Returns empty string if there is none.
func MostRecent(historyFile string) (string, error) {
	h, err := Load(historyFile)
	if err != nil {
		return "", err
	}
	h.RemoveStale()
	if len(h.Entries) == 0 {
		return "", nil
	}
	return h.Entries[0].Path, nil
}
