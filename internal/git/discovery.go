package git

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ScanOptions controls which directories [Scan] considers.
type ScanOptions struct {
	// Recursive walks the whole tree below root (root included) instead of
	// only its direct children.
	Recursive bool
	// ExcludePrefixes skips directories whose base name starts with one of
	// these. Skipped directories are not descended into.
	ExcludePrefixes []string
	// Rules skips any path containing one of these substrings. Paths are
	// matched relative to the scan root, with forward slashes.
	Rules []string
}

func (o ScanOptions) excludedName(name string) bool {
	for _, p := range o.ExcludePrefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func (o ScanOptions) matchesRule(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, r := range o.Rules {
		if r != "" && strings.Contains(rel, r) {
			return true
		}
	}
	return false
}

// IsRepo checks if dir has a direct child named .git. Any entry counts:
// a directory, a gitdir file (worktree, submodule) or a symlink, even a
// dangling one.
func IsRepo(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, ".git"))
	return err == nil
}

// Scan returns the absolute paths of all git repositories under root,
// sorted lexicographically.
func Scan(ctx context.Context, root string, opts ScanOptions) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}

	var repos []string
	if opts.Recursive {
		repos, err = scanTree(ctx, abs, opts)
	} else {
		repos, err = scanChildren(ctx, abs, opts)
	}
	if err != nil {
		return nil, err
	}

	slices.Sort(repos)
	return repos, nil
}

// scanChildren checks the direct children of root only.
func scanChildren(ctx context.Context, root string, opts ScanOptions) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	var repos []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || opts.excludedName(entry.Name()) {
			continue
		}

		if opts.matchesRule(entry.Name()) {
			continue
		}
		repoPath := filepath.Join(root, entry.Name())
		if IsRepo(repoPath) {
			repos = append(repos, repoPath)
		}
	}
	return repos, nil
}

// scanTree walks everything below root. Unreadable directories are skipped.
func scanTree(ctx context.Context, root string, opts ScanOptions) ([]string, error) {
	var repos []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		if path != root {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			if opts.excludedName(d.Name()) || opts.matchesRule(rel) {
				return filepath.SkipDir
			}
		}
		if IsRepo(path) {
			repos = append(repos, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return repos, nil
}

// FilterRepos resolves explicit paths to absolute form and keeps only git
// repositories. warn is called for every rejected path.
func FilterRepos(paths []string, warn func(path, reason string)) []string {
	var repos []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			warn(p, err.Error())
			continue
		}
		info, err := os.Stat(abs)
		switch {
		case err != nil:
			warn(p, "does not exist")
		case !info.IsDir():
			warn(p, "not a directory")
		case !IsRepo(abs):
			warn(p, "not a git repository")
		default:
			repos = append(repos, abs)
		}
	}
	return repos
}
