package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/raphi011/mgit/internal/log"
)

// DefaultCommitMessage is used when a commit is made without a message.
const DefaultCommitMessage = "minor changes"

// ErrRepositoryMoved indicates a registered directory no longer exists.
var ErrRepositoryMoved = errors.New("repository moved")

// MovedError reports a repository whose directory is gone.
type MovedError struct {
	Name string
	Dir  string
}

func (e *MovedError) Error() string {
	return fmt.Sprintf("%s repo may have been moved (%s): run 'mgit setup' to update paths", e.Name, e.Dir)
}

func (e *MovedError) Unwrap() error { return ErrRepositoryMoved }

// InvocationError is returned when git exits with a non-zero status or
// cannot be started.
type InvocationError struct {
	Args     []string
	ExitCode int // -1 when git could not be started
	Output   string
	Err      error
}

func (e *InvocationError) Error() string {
	line := "git " + strings.Join(e.Args, " ")
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: %v", line, e.Err)
	}
	if first := firstLine(e.Output); first != "" {
		return fmt.Sprintf("%s: exit status %d: %s", line, e.ExitCode, first)
	}
	return fmt.Sprintf("%s: exit status %d", line, e.ExitCode)
}

func (e *InvocationError) Unwrap() error { return e.Err }

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Handle runs git commands against one repository. Every command runs with
// the repository as its working directory; the process cwd is never changed.
type Handle struct {
	Name    string
	Dir     string
	exe     Executable
	message string
}

// HandleOption configures a [Handle].
type HandleOption func(*Handle)

// WithMessage sets the commit message used when [Handle.Commit] gets none.
func WithMessage(msg string) HandleOption {
	return func(h *Handle) {
		if msg != "" {
			h.message = msg
		}
	}
}

// Open binds a handle to dir. Returns *MovedError when dir does not exist
// or is not a directory.
func Open(name, dir string, exe Executable, opts ...HandleOption) (*Handle, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &MovedError{Name: name, Dir: dir}
	}
	h := &Handle{Name: name, Dir: dir, exe: exe, message: DefaultCommitMessage}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s: %s", h.Name, h.Dir)
}

// Message returns the default commit message.
func (h *Handle) Message() string {
	return h.message
}

func (h *Handle) git(ctx context.Context, args ...string) (string, error) {
	return combinedGit(ctx, h.exe, h.Dir, args...)
}

// Fetch runs "git fetch". Its output is discarded.
func (h *Handle) Fetch(ctx context.Context) error {
	return runGit(ctx, h.exe, h.Dir, "fetch")
}

// Status fetches first, then returns the "git status" text. A failed fetch
// is logged and does not prevent the status.
func (h *Handle) Status(ctx context.Context) (string, error) {
	if err := h.Fetch(ctx); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.FromContext(ctx).Debug("fetch failed", "repo", h.Name, "error", err)
	}
	return h.git(ctx, "status")
}

// Add stages pathspec, "." when none is given.
func (h *Handle) Add(ctx context.Context, pathspec ...string) (string, error) {
	if len(pathspec) == 0 {
		pathspec = []string{"."}
	}
	return h.git(ctx, append([]string{"add", "--"}, pathspec...)...)
}

// Commit records staged changes. An empty message falls back to the
// handle's default message.
func (h *Handle) Commit(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		message = h.message
	}
	return h.git(ctx, "commit", "-m", message)
}

// Push runs "git push". The text is prefixed with "Push completed.".
func (h *Handle) Push(ctx context.Context) (string, error) {
	out, err := h.git(ctx, "push")
	return "Push completed.\n" + out, err
}

// Pull runs "git pull". The text is prefixed with "Pull completed.".
func (h *Handle) Pull(ctx context.Context) (string, error) {
	out, err := h.git(ctx, "pull")
	return "Pull completed.\n" + out, err
}

// Reset moves HEAD back n commits, keeping the working tree.
func (h *Handle) Reset(ctx context.Context, n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("reset: commit count must be at least 1, got %d", n)
	}
	return h.git(ctx, "reset", "HEAD~"+strconv.Itoa(n))
}
