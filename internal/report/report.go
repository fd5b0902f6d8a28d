// Package report aggregates status results into a markdown document.
//
// Each repository gets a section with its verbatim "git status" text. A
// repository needs attention when its text contains one of the [Markers];
// those are listed in a numbered summary at the end of the document.
package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raphi011/mgit/internal/batch"
)

// fileTimeLayout is the timestamp embedded in report file names.
const fileTimeLayout = "Mon_02_Jan_2006_15_04_05_PM"

// headerTimeLayout is the timestamp in the report title.
const headerTimeLayout = "Mon, 02 Jan 2006 15:04:05 MST"

// Entry is one repository section.
type Entry struct {
	ID      int
	Name    string
	Path    string
	Status  string
	Reasons []Marker
	Err     error
	Skipped bool
}

// NeedsAttention reports whether the entry was classified as needing attention.
func (e Entry) NeedsAttention() bool {
	return len(e.Reasons) > 0
}

// Report is a status snapshot of all selected repositories.
type Report struct {
	Time    time.Time
	Entries []Entry
}

// Collect drains results into a report taken at now.
func Collect(results iter.Seq[batch.Result], now time.Time) *Report {
	r := &Report{Time: now}
	for res := range results {
		e := Entry{
			ID:      res.Record.ID,
			Name:    res.Name(),
			Path:    res.Record.Path,
			Status:  res.Output,
			Err:     res.Err,
			Skipped: res.Skipped(),
		}
		if !e.Skipped {
			e.Reasons = Reasons(res.Output)
		}
		r.Entries = append(r.Entries, e)
	}
	return r
}

// Attention returns the entries needing attention, in report order.
func (r *Report) Attention() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.NeedsAttention() {
			out = append(out, e)
		}
	}
	return out
}

// SkippedEntries returns the entries whose status could not be taken.
func (r *Report) SkippedEntries() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Skipped {
			out = append(out, e)
		}
	}
	return out
}

// WriteTo writes the report as markdown.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Repository status as at %s\n\n", r.Time.Format(headerTimeLayout))

	for _, e := range r.Entries {
		fmt.Fprintf(&b, "## %s\n\n", e.Name)
		if e.Skipped {
			fmt.Fprintf(&b, "_skipped: %v_\n\n", e.Err)
			continue
		}
		b.WriteString("```text\n")
		b.WriteString(strings.TrimRight(e.Status, "\n"))
		b.WriteString("\n```\n\n")
		if e.Err != nil {
			fmt.Fprintf(&b, "_error: %v_\n\n", e.Err)
		}
	}

	b.WriteString("## Repositories needing attention\n\n")
	attention := r.Attention()
	if len(attention) == 0 {
		b.WriteString("None.\n")
	}
	for i, e := range attention {
		names := make([]string, len(e.Reasons))
		for j, m := range e.Reasons {
			names[j] = m.Name
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, e.Name, strings.Join(names, ", "))
	}

	if skipped := r.SkippedEntries(); len(skipped) > 0 {
		b.WriteString("\n## Skipped repositories\n\n")
		for i, e := range skipped {
			fmt.Fprintf(&b, "%d. %s\n", i+1, e.Name)
		}
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// FileName returns the report file name for a report taken at t.
func FileName(t time.Time) string {
	return "REPO_STATUS_@_" + t.Format(fileTimeLayout) + ".md"
}

// maxSuffix bounds the numbered names tried for reports taken in the same
// second.
const maxSuffix = 100

// Write stores the report in dir, creating dir when missing. An existing
// report is never overwritten: when the name is taken a numeric suffix is
// added ("..._2.md"). Returns the path of the written file.
func Write(dir string, r *Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	f, path, err := createUnique(dir, FileName(r.Time))
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// createUnique creates name in dir, or the first free numbered variant.
func createUnique(dir, name string) (*os.File, string, error) {
	base := strings.TrimSuffix(name, ".md")
	for i := 1; i <= maxSuffix; i++ {
		candidate := name
		if i > 1 {
			candidate = fmt.Sprintf("%s_%d.md", base, i)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("%s: %d reports with this name already exist", name, maxSuffix)
}
