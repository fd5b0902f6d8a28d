package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/mgit/internal/history"
	"github.com/raphi011/mgit/internal/registry"
)

func makeRepo(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestCheckRecords(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	healthy := filepath.Join(base, "healthy")
	moved := filepath.Join(base, "moved")
	plain := filepath.Join(base, "plain")
	makeRepo(t, healthy)
	if err := os.MkdirAll(plain, 0o755); err != nil {
		t.Fatal(err)
	}

	reg := &registry.Registry{Records: []registry.Record{
		{ID: 1, Name: "healthy", Path: healthy},
		{ID: 2, Name: "moved", Path: moved},
		{ID: 3, Name: "plain", Path: plain},
		{ID: 4, Name: "healthy", Path: healthy},
	}}

	var stats IssueStats
	issues := checkRecords(reg, &stats)

	want := IssueStats{Healthy: 1, Moved: 1, NotRepo: 1, Duplicates: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3: %+v", len(issues), issues)
	}
	for _, issue := range issues {
		if issue.FixAction != FixSetup {
			t.Errorf("issue %q FixAction = %q, want %q", issue.Key, issue.FixAction, FixSetup)
		}
	}
	if issues[0].Key != "2: moved" {
		t.Errorf("first issue key = %q, want %q", issues[0].Key, "2: moved")
	}
}

func TestCheckReportDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "reports")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if issues := checkReportDir(&registry.Registry{ReportDir: filepath.Join(dir, "missing")}); len(issues) != 0 {
		t.Errorf("missing report dir should be fine, got %+v", issues)
	}
	if issues := checkReportDir(&registry.Registry{ReportDir: file}); len(issues) != 1 {
		t.Errorf("report dir that is a file: got %d issues, want 1", len(issues))
	}
}

func TestRun_FixPrunesHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	historyFile := filepath.Join(dir, "history.json")
	kept := filepath.Join(dir, "kept.md")
	if err := os.WriteFile(kept, []byte("# report\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := &history.History{}
	h.Add(history.Entry{Path: filepath.Join(dir, "gone.md"), Time: time.Now().Add(-time.Hour)})
	h.Add(history.Entry{Path: kept, Time: time.Now()})
	if err := h.Save(historyFile); err != nil {
		t.Fatal(err)
	}

	repo := filepath.Join(dir, "repo")
	makeRepo(t, repo)
	reg := &registry.Registry{Records: []registry.Record{{ID: 1, Name: "repo", Path: repo}}}

	var out strings.Builder
	res, err := Run(context.Background(), &out, reg, historyFile, true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Stats.StaleReports != 1 {
		t.Errorf("StaleReports = %d, want 1", res.Stats.StaleReports)
	}
	if res.Fixed != 1 {
		t.Errorf("Fixed = %d, want 1", res.Fixed)
	}
	if !strings.Contains(out.String(), "Removed 1 stale history entries") {
		t.Errorf("output missing fix line:\n%s", out.String())
	}

	after, err := history.Load(historyFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Entries) != 1 || after.Entries[0].Path != kept {
		t.Errorf("history after fix = %+v, want only %s", after.Entries, kept)
	}
}

func TestRun_NoIssues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := filepath.Join(dir, "repo")
	makeRepo(t, repo)
	reg := &registry.Registry{Records: []registry.Record{{ID: 1, Name: "repo", Path: repo}}}

	var out strings.Builder
	res, err := Run(context.Background(), &out, reg, filepath.Join(dir, "history.json"), false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// git may be missing on the test machine; only registry and history count here
	for _, issue := range res.Issues {
		if issue.Category != CategoryGit {
			t.Errorf("unexpected issue %+v", issue)
		}
	}
	if res.Stats.Healthy != 1 {
		t.Errorf("Healthy = %d, want 1", res.Stats.Healthy)
	}
}
