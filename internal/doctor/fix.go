package doctor

import (
	"fmt"
	"io"

	"github.com/raphi011/mgit/internal/history"
	"github.com/raphi011/mgit/internal/storage"
)

// fixAllIssues applies the fixes that need no registration pass. Returns
// how many issues were fixed.
func fixAllIssues(w io.Writer, issues []Issue, historyFile string) (int, error) {
	var prune, setup int
	for _, issue := range issues {
		switch issue.FixAction {
		case FixPrune:
			prune++
		case FixSetup:
			setup++
		}
	}

	fixed := 0
	if prune > 0 {
		err := storage.WithLock(historyFile+".lock", func() error {
			h, err := history.Load(historyFile)
			if err != nil {
				return err
			}
			fixed = h.RemoveStale()
			return h.Save(historyFile)
		})
		if err != nil {
			return fixed, fmt.Errorf("prune history: %w", err)
		}
		fmt.Fprintf(w, "  ✓ Removed %d stale history entries\n", fixed)
	}

	if setup > 0 {
		fmt.Fprintf(w, "  ✗ %d issues need a new registration: run 'mgit setup --force'\n", setup)
	}
	return fixed, nil
}
