package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/raphi011/mgit/internal/registry"
)

// Run checks the registry and report history, printing findings to w.
// With fix, issues that do not need a new registration are repaired.
func Run(ctx context.Context, w io.Writer, reg *registry.Registry, historyFile string, fix bool) (*Result, error) {
	res := &Result{}

	// Category 1: git executable
	fmt.Fprintln(w, "Checking git...")
	gitIssues := checkGit(ctx, reg)
	for i := range gitIssues {
		gitIssues[i].Category = CategoryGit
	}
	res.Stats.GitIssues = len(gitIssues)
	res.Issues = append(res.Issues, gitIssues...)

	// Category 2: registered repositories
	fmt.Fprintln(w, "Checking registered repositories...")
	regIssues := checkRecords(reg, &res.Stats)
	regIssues = append(regIssues, checkReportDir(reg)...)
	for i := range regIssues {
		regIssues[i].Category = CategoryRegistry
	}
	res.Issues = append(res.Issues, regIssues...)

	// Category 3: report history
	fmt.Fprintln(w, "Checking report history...")
	histIssues, err := checkHistory(historyFile)
	if err != nil {
		return nil, err
	}
	for i := range histIssues {
		histIssues[i].Category = CategoryHistory
	}
	res.Stats.StaleReports = len(histIssues)
	res.Issues = append(res.Issues, histIssues...)

	printSummary(w, res.Stats)

	if len(res.Issues) == 0 {
		fmt.Fprintln(w, "\n✓ No issues found")
		return res, nil
	}

	fmt.Fprintf(w, "\nFound %d issues:\n", len(res.Issues))
	printIssuesByCategory(w, res.Issues)

	if fix {
		fmt.Fprintln(w)
		res.Fixed, err = fixAllIssues(w, res.Issues, historyFile)
		return res, err
	}

	fmt.Fprintln(w, "\nRun 'mgit doctor --fix' to repair.")
	return res, nil
}

// printSummary prints a categorized summary.
func printSummary(w io.Writer, stats IssueStats) {
	fmt.Fprintln(w)

	if stats.GitIssues == 0 {
		fmt.Fprintln(w, "  ✓ git executable usable")
	} else {
		fmt.Fprintln(w, "  ✗ git executable not usable")
	}

	fmt.Fprintf(w, "  ✓ %d repositories healthy\n", stats.Healthy)
	if stats.Moved > 0 {
		fmt.Fprintf(w, "  ⚠ %d repositories moved\n", stats.Moved)
	}
	if stats.NotRepo > 0 {
		fmt.Fprintf(w, "  ⚠ %d paths are no git repository\n", stats.NotRepo)
	}
	if stats.Duplicates > 0 {
		fmt.Fprintf(w, "  ⚠ %d duplicate registrations\n", stats.Duplicates)
	}
	if stats.StaleReports > 0 {
		fmt.Fprintf(w, "  ⚠ %d stale history entries\n", stats.StaleReports)
	}
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(w io.Writer, issues []Issue) {
	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[IssueCategory]string{
		CategoryGit:      "Git issues",
		CategoryRegistry: "Registry issues",
		CategoryHistory:  "History issues",
	}

	for _, cat := range []IssueCategory{CategoryGit, CategoryRegistry, CategoryHistory} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			fmt.Fprintf(w, "  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}
