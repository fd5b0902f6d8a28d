package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/mgit/internal/cmd"
	"github.com/raphi011/mgit/internal/log"
)

var (
	// ErrGitNotFound indicates git is not installed or not in PATH
	ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")
	// ErrInvalidExecutable indicates an explicit git location holds no git binary
	ErrInvalidExecutable = errors.New("not a git executable")
)

// binaryNames are the file names accepted as a git executable.
var binaryNames = []string{"git", "git.exe"}

// Executable is a resolved git binary.
type Executable struct {
	// Path is the absolute binary path. Empty means "git" from PATH.
	Path string
	// Version is the parsed version (e.g. "2.44.0"), empty when unknown.
	Version string
}

// Command returns the program name to run.
func (e Executable) Command() string {
	if e.Path == "" {
		return "git"
	}
	return e.Path
}

func (e Executable) String() string {
	s := e.Command()
	if e.Version != "" {
		s += " (" + e.Version + ")"
	}
	return s
}

// Resolve locates git. An explicit file or directory is tried first; if it
// holds no git binary the problem is logged and resolution falls back to the
// git on PATH. Returns ErrGitNotFound when nothing works.
func Resolve(ctx context.Context, explicit string) (Executable, error) {
	l := log.FromContext(ctx)

	if explicit != "" {
		path, err := findExplicit(explicit)
		if err == nil {
			exe := Executable{Path: path}
			if out, err := cmd.CombinedContext(ctx, "", path, "--version"); err == nil {
				exe.Version, _ = ParseVersion(string(out))
			}
			l.Debug("using explicit git", "path", path, "version", exe.Version)
			return exe, nil
		}
		l.Warnf("%v, falling back to git from PATH", err)
	}

	if out, err := cmd.CombinedContext(ctx, "", "git", "--version"); err == nil && strings.Contains(string(out), "git version") {
		version, _ := ParseVersion(string(out))
		l.Debug("using git from PATH", "version", version)
		return Executable{Version: version}, nil
	}
	if err := ctx.Err(); err != nil {
		return Executable{}, err
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		for _, name := range binaryNames {
			candidate := filepath.Join(dir, name)
			if isExecutableFile(candidate) {
				l.Debug("found git on PATH", "path", candidate)
				return Executable{Path: candidate}, nil
			}
		}
	}

	return Executable{}, ErrGitNotFound
}

// findExplicit accepts a git binary or a directory containing one.
func findExplicit(explicit string) (string, error) {
	abs, err := filepath.Abs(explicit)
	if err != nil {
		return "", fmt.Errorf("%s: %w", explicit, ErrInvalidExecutable)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%s: %w", explicit, ErrInvalidExecutable)
	}

	if !info.IsDir() {
		if slices.Contains(binaryNames, filepath.Base(abs)) {
			return abs, nil
		}
		return "", fmt.Errorf("%s: %w", explicit, ErrInvalidExecutable)
	}

	var found string
	_ = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && slices.Contains(binaryNames, d.Name()) && isExecutableFile(path) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if found == "" {
		return "", fmt.Errorf("%s: %w", explicit, ErrInvalidExecutable)
	}
	return found, nil
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if strings.HasSuffix(path, ".exe") {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// ParseVersion extracts the dotted version from "git --version" output.
// Handles vendor suffixes such as "2.39.3 (Apple Git-146)" and
// "2.39.3.windows.1".
func ParseVersion(out string) (string, bool) {
	s := strings.TrimSpace(out)
	if idx := strings.Index(s, "git version"); idx >= 0 {
		s = strings.TrimSpace(s[idx+len("git version"):])
	}

	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return "", false
	}
	s = s[start:]

	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	parts := strings.Split(strings.Trim(s[:end], "."), ".")
	if len(parts) < 2 {
		return "", false
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, "."), true
}
