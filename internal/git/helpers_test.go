package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/raphi011/mgit/internal/cmd"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
}

// resolveTempDir returns a temp directory with symlinks resolved (macOS /var).
func resolveTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// mustGit runs git from PATH in dir and fails the test on error.
func mustGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	if err := cmd.RunContext(context.Background(), dir, "git", args...); err != nil {
		t.Fatalf("git %v in %s: %v", args, dir, err)
	}
}

// commitFile writes name and commits it.
func commitFile(t *testing.T, repo, name, content string) {
	t.Helper()
	writeFile(t, filepath.Join(repo, name), content)
	mustGit(t, repo, "add", name)
	mustGit(t, repo, "commit", "-q", "-m", "add "+name)
}

// setupTestRepo creates a repository on branch main with one commit.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)
	repo := filepath.Join(resolveTempDir(t), "api")
	mustGit(t, "", "init", "-q", "-b", "main", repo)
	identify(t, repo)
	commitFile(t, repo, "README.md", "# api\n")
	return repo
}

// setupTestRepoWithOrigin is like setupTestRepo but the repository is a
// clone of a bare origin it has already pushed to.
func setupTestRepoWithOrigin(t *testing.T) (repo, origin string) {
	t.Helper()
	requireGit(t)
	base := resolveTempDir(t)
	origin = filepath.Join(base, "origin.git")
	repo = filepath.Join(base, "api")

	mustGit(t, "", "init", "-q", "--bare", "-b", "main", origin)
	mustGit(t, "", "clone", "-q", origin, repo)
	identify(t, repo)
	commitFile(t, repo, "README.md", "# api\n")
	mustGit(t, repo, "push", "-q", "-u", "origin", "HEAD")
	return repo, origin
}

func identify(t *testing.T, repo string) {
	t.Helper()
	mustGit(t, repo, "config", "user.email", "dev@example.com")
	mustGit(t, repo, "config", "user.name", "Dev")
	mustGit(t, repo, "config", "commit.gpgsign", "false")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// mkdirs creates each directory under base.
func mkdirs(t *testing.T, base string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(base, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}
