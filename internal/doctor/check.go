package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/mgit/internal/git"
	"github.com/raphi011/mgit/internal/history"
	"github.com/raphi011/mgit/internal/registry"
)

// checkGit verifies the git executable recorded at setup still works.
func checkGit(ctx context.Context, reg *registry.Registry) []Issue {
	exe, err := git.Resolve(ctx, reg.GitPath)
	if err != nil {
		return []Issue{{
			Key:         "git",
			Description: err.Error(),
			FixAction:   FixSetup,
		}}
	}
	if reg.GitPath != "" && exe.Path != reg.GitPath {
		return []Issue{{
			Key:         reg.GitPath,
			Description: "recorded git executable is not usable, git from PATH is used instead",
			FixAction:   FixSetup,
		}}
	}
	return nil
}

// checkRecords finds registered repositories that moved, stopped being git
// repositories, or are registered twice.
func checkRecords(reg *registry.Registry, stats *IssueStats) []Issue {
	var issues []Issue
	seen := make(map[string]registry.Record)

	for _, rec := range reg.List() {
		key := fmt.Sprintf("%d: %s", rec.ID, rec.Name)

		if first, ok := seen[rec.Path]; ok {
			stats.Duplicates++
			issues = append(issues, Issue{
				Key:         key,
				Description: fmt.Sprintf("same path as id %d: %s", first.ID, rec.Path),
				FixAction:   FixSetup,
			})
			continue
		}
		seen[rec.Path] = rec

		info, err := os.Stat(rec.Path)
		switch {
		case err != nil || !info.IsDir():
			stats.Moved++
			issues = append(issues, Issue{
				Key:         key,
				Description: fmt.Sprintf("path no longer exists: %s", rec.Path),
				FixAction:   FixSetup,
			})
		case !git.IsRepo(rec.Path):
			stats.NotRepo++
			issues = append(issues, Issue{
				Key:         key,
				Description: fmt.Sprintf("not a git repository any more: %s", rec.Path),
				FixAction:   FixSetup,
			})
		default:
			stats.Healthy++
		}
	}
	return issues
}

// checkReportDir verifies the report directory can hold reports.
func checkReportDir(reg *registry.Registry) []Issue {
	if reg.ReportDir == "" {
		return nil
	}
	info, err := os.Stat(reg.ReportDir)
	if err != nil || info.IsDir() {
		// Missing directories are created with the first report
		return nil
	}
	return []Issue{{
		Key:         reg.ReportDir,
		Description: "report directory is a file",
		FixAction:   FixSetup,
	}}
}

// checkHistory finds history entries whose report file was deleted.
func checkHistory(historyFile string) ([]Issue, error) {
	h, err := history.Load(historyFile)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, e := range h.Entries {
		if _, err := os.Stat(e.Path); err != nil {
			issues = append(issues, Issue{
				Key:         filepath.Base(e.Path),
				Description: fmt.Sprintf("report no longer exists: %s", e.Path),
				FixAction:   FixPrune,
			})
		}
	}
	return issues, nil
}
