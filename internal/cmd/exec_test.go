package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/mgit/internal/log"
)

func logCtx() context.Context {
	l := log.New(&bytes.Buffer{}, false, false)
	return log.WithLogger(context.Background(), l)
}

func TestRunContext_Success(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "echo", "hello")
	if err != nil {
		t.Errorf("RunContext(echo hello) = %v, want nil", err)
	}
}

func TestRunContext_Failure(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "sh", "-c", "exit 1")
	if err == nil {
		t.Error("RunContext(exit 1) = nil, want error")
	}
}

func TestRunContext_StderrMessage(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "sh", "-c", "echo 'bad thing' >&2; exit 1")
	if err == nil {
		t.Fatal("RunContext = nil, want error")
	}
	if err.Error() != "bad thing" {
		t.Errorf("RunContext error = %q, want %q", err.Error(), "bad thing")
	}
}

func TestRunContext_KeepsExitCode(t *testing.T) {
	t.Parallel()
	err := RunContext(logCtx(), "", "sh", "-c", "echo 'fatal: gone' >&2; exit 128")

	var stderrErr *StderrError
	if !errors.As(err, &stderrErr) || stderrErr.Stderr != "fatal: gone" {
		t.Fatalf("RunContext error = %v, want StderrError with stderr text", err)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 128 {
		t.Errorf("RunContext error = %v, want exit status 128", err)
	}
}

func TestRunContext_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(logCtx())
	cancel()
	err := RunContext(ctx, "", "sleep", "10")
	if err == nil {
		t.Error("RunContext with cancelled context = nil, want error")
	}
	if err != context.Canceled {
		t.Errorf("RunContext error = %v, want context.Canceled", err)
	}
}

func TestRunContext_Dir(t *testing.T) {
	t.Parallel()
	// Verify command runs in specified directory
	err := RunContext(logCtx(), "/tmp", "pwd")
	if err != nil {
		t.Errorf("RunContext with dir = %v, want nil", err)
	}
}

func TestCombinedContext_InterleavesStreams(t *testing.T) {
	t.Parallel()
	out, err := CombinedContext(logCtx(), "", "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("CombinedContext = %v, want nil", err)
	}
	got := string(out)
	if !strings.Contains(got, "out\n") || !strings.Contains(got, "err\n") {
		t.Errorf("CombinedContext output = %q, want both streams", got)
	}
}

func TestCombinedContext_KeepsOutputOnFailure(t *testing.T) {
	t.Parallel()
	out, err := CombinedContext(logCtx(), "", "sh", "-c", "echo 'fatal: not a repo' >&2; exit 128")
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("CombinedContext error = %v, want *exec.ExitError", err)
	}
	if exitErr.ExitCode() != 128 {
		t.Errorf("exit code = %d, want 128", exitErr.ExitCode())
	}
	if got := string(out); got != "fatal: not a repo\n" {
		t.Errorf("CombinedContext output = %q", got)
	}
}

func TestCombinedContext_Dir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out, err := CombinedContext(logCtx(), dir, "pwd")
	if err != nil {
		t.Fatalf("CombinedContext = %v", err)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	got := strings.TrimSpace(string(out))
	if got != dir && got != resolved {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}

func TestShellContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	err := ShellContext(logCtx(), dir, "cat; echo warn >&2; pwd", Stdio{
		In:  strings.NewReader("from stdin\n"),
		Out: &stdout,
		Err: &stderr,
	})
	if err != nil {
		t.Fatalf("ShellContext = %v", err)
	}

	resolved, _ := filepath.EvalSymlinks(dir)
	got := stdout.String()
	if !strings.HasPrefix(got, "from stdin\n") {
		t.Errorf("stdout = %q, want stdin echoed first", got)
	}
	if !strings.Contains(got, dir) && !strings.Contains(got, resolved) {
		t.Errorf("stdout = %q, want working dir %q", got, dir)
	}
	if stderr.String() != "warn\n" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "warn\n")
	}
}

func TestShellContext_Failure(t *testing.T) {
	t.Parallel()

	err := ShellContext(logCtx(), "", "exit 3", Stdio{Out: io.Discard, Err: io.Discard})
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Errorf("ShellContext error = %v, want exit status 3", err)
	}
}

func TestRunContext_LogsCommand(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	if err := RunContext(ctx, "", "true"); err != nil {
		t.Fatalf("RunContext = %v", err)
	}
	if !strings.Contains(buf.String(), "$ true") {
		t.Errorf("verbose log = %q, want command line", buf.String())
	}
}
