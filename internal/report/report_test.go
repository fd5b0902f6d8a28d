package report

import (
	"errors"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/mgit/internal/batch"
	"github.com/raphi011/mgit/internal/git"
	"github.com/raphi011/mgit/internal/registry"
)

const (
	cleanStatus = `On branch main
Your branch is up to date with 'origin/main'.

nothing to commit, working tree clean
`
	untrackedStatus = `On branch main
Untracked files:
  (use "git add <file>..." to include in what will be committed)
	new.txt

nothing added to commit but untracked files present (use "git add" to track)
`
	aheadStatus = `On branch main
Your branch is ahead of 'origin/main' by 2 commits.
  (use "git push" to publish your local commits)

Changes not staged for commit:
	modified:   README.md
`
)

func TestNeedsAttention(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status string
		want   []string
	}{
		{"clean", cleanStatus, nil},
		{"empty", "", nil},
		{"untracked", untrackedStatus, []string{"untracked"}},
		{"ahead and unstaged", aheadStatus, []string{"unstaged", "ahead"}},
		{"behind", "Your branch is behind 'origin/main' by 1 commit", []string{"behind"}},
		{"diverged", "Your branch and 'origin/main' have diverged,", []string{"diverged"}},
		{"staged", "Changes to be committed:\n\tnew file: a", []string{"staged"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got []string
			for _, m := range Reasons(tt.status) {
				got = append(got, m.Name)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Reasons() = %v, want %v", got, tt.want)
			}

			first := NeedsAttention(tt.status)
			if first != (len(tt.want) > 0) {
				t.Errorf("NeedsAttention() = %v", first)
			}
			for range 3 {
				if NeedsAttention(tt.status) != first {
					t.Fatal("NeedsAttention() is not deterministic")
				}
			}
		})
	}
}

func TestMarkersAreDistinct(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, m := range Markers {
		if m.Name == "" || m.Substring == "" {
			t.Errorf("incomplete marker %+v", m)
		}
		if seen[m.Name] {
			t.Errorf("duplicate marker %q", m.Name)
		}
		seen[m.Name] = true
	}
}

func seq(results ...batch.Result) iter.Seq[batch.Result] {
	return slices.Values(results)
}

func sampleReport() *Report {
	moved := &git.MovedError{Name: "gone", Dir: "/src/gone"}
	results := []batch.Result{
		{Record: registry.Record{ID: 1, Name: "api", Path: "/src/api"}, Output: cleanStatus},
		{Record: registry.Record{ID: 2, Name: "web", Path: "/src/web"}, Output: untrackedStatus},
		{Record: registry.Record{ID: 4, Name: "docs", Path: "/src/docs"}, Output: aheadStatus},
	}
	r := Collect(seq(results...), time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC))
	// A skipped result can only be produced by the executor; add it directly.
	r.Entries = append(r.Entries, Entry{ID: 3, Name: "gone", Err: moved, Skipped: true})
	return r
}

func TestCollect(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	if len(r.Entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(r.Entries))
	}

	var attention []string
	for _, e := range r.Attention() {
		attention = append(attention, e.Name)
	}
	if !slices.Equal(attention, []string{"web", "docs"}) {
		t.Errorf("Attention() = %v", attention)
	}

	skipped := r.SkippedEntries()
	if len(skipped) != 1 || !errors.Is(skipped[0].Err, git.ErrRepositoryMoved) {
		t.Errorf("SkippedEntries() = %+v", skipped)
	}
}

func TestWriteTo(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if _, err := sampleReport().WriteTo(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	wantInOrder := []string{
		"# Repository status as at Tue, 05 Mar 2024 14:07:09 UTC\n",
		"## api\n\n```text\nOn branch main\n",
		"nothing to commit, working tree clean\n```\n",
		"## web\n",
		"## docs\n",
		"## gone\n\n_skipped: gone repo may have been moved",
		"## Repositories needing attention\n\n1. web (untracked)\n2. docs (unstaged, ahead)\n",
		"## Skipped repositories\n\n1. gone\n",
	}
	pos := 0
	for _, want := range wantInOrder {
		i := strings.Index(out[pos:], want)
		if i < 0 {
			t.Fatalf("report missing %q after offset %d:\n%s", want, pos, out)
		}
		pos += i + len(want)
	}
}

func TestWriteTo_NothingNeedsAttention(t *testing.T) {
	t.Parallel()

	r := Collect(seq(batch.Result{Record: registry.Record{ID: 1, Name: "api"}, Output: cleanStatus}), time.Now())
	var b strings.Builder
	r.WriteTo(&b)
	if !strings.Contains(b.String(), "## Repositories needing attention\n\nNone.\n") {
		t.Errorf("report = %s", b.String())
	}
	if strings.Contains(b.String(), "Skipped repositories") {
		t.Error("report lists skipped repositories without any")
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	got := FileName(time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC))
	if want := "REPO_STATUS_@_Tue_05_Mar_2024_14_07_09_PM.md"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "reports")
	r := sampleReport()

	path, err := Write(dir, r)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Dir(path) != dir || filepath.Base(path) != FileName(r.Time) {
		t.Errorf("Write() path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Repository status as at") {
		t.Errorf("file content = %q", data)
	}
}

func TestWrite_SameSecondKeepsBoth(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := sampleReport()

	first, err := Write(dir, r)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	second, err := Write(dir, r)
	if err != nil {
		t.Fatalf("second Write() error = %v", err)
	}
	if first == second {
		t.Fatalf("both reports written to %s", first)
	}
	want := strings.TrimSuffix(FileName(r.Time), ".md") + "_2.md"
	if filepath.Base(second) != want {
		t.Errorf("second report = %q, want %q", filepath.Base(second), want)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("report dir has %d files, want 2", len(entries))
	}
}
