package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryGit represents problems with the git executable.
	CategoryGit IssueCategory = "git"
	// CategoryRegistry represents registered repositories that moved or changed.
	CategoryRegistry IssueCategory = "registry"
	// CategoryHistory represents report history entries whose file is gone.
	CategoryHistory IssueCategory = "history"
)

// Fix actions
const (
	// FixSetup means only a new registration pass can repair the issue.
	FixSetup = "setup"
	// FixPrune drops the entry from the report history.
	FixPrune = "prune"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        // repository "id: name", git path or report path
	Description string        // human-readable description
	FixAction   string        // what --fix would do
	Category    IssueCategory // issue category
}

// IssueStats tracks counts by category.
type IssueStats struct {
	Healthy      int // registered repositories that are fine
	Moved        int // registered paths that no longer exist
	NotRepo      int // registered paths that are no git repository any more
	Duplicates   int // paths registered more than once
	StaleReports int // history entries whose report was deleted
	GitIssues    int // problems with the git executable
}

// Result is the outcome of a doctor run.
type Result struct {
	Issues []Issue
	Stats  IssueStats
	Fixed  int
}
