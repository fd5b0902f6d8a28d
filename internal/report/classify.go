package report

import "strings"

// Marker is a substring of git's status text that flags a repository.
type Marker struct {
	Name      string
	Substring string
}

// Markers is the complete table used by [NeedsAttention]. Matching is a
// plain substring search against git's English output, so it depends on
// the git locale.
var Markers = []Marker{
	{Name: "staged", Substring: "Changes to be committed"},
	{Name: "unstaged", Substring: "Changes not staged for commit"},
	{Name: "ahead", Substring: "Your branch is ahead"},
	{Name: "behind", Substring: "Your branch is behind"},
	{Name: "diverged", Substring: "have diverged"},
	{Name: "untracked", Substring: "Untracked files"},
}

// Reasons returns the markers found in status, in table order.
func Reasons(status string) []Marker {
	var found []Marker
	for _, m := range Markers {
		if strings.Contains(status, m.Substring) {
			found = append(found, m)
		}
	}
	return found
}

// NeedsAttention reports whether status contains any marker.
func NeedsAttention(status string) bool {
	return len(Reasons(status)) > 0
}
