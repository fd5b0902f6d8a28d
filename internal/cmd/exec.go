package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/mgit/internal/log"
)

// StderrError is a failed command whose stderr was not empty. Unwrap
// yields the process error, usually an *exec.ExitError.
type StderrError struct {
	Stderr string
	Err    error
}

func (e *StderrError) Error() string { return e.Stderr }

func (e *StderrError) Unwrap() error { return e.Err }

// RunContext runs name with args in dir. On failure the error is a
// *StderrError when the command wrote to stderr. A cancelled context is
// returned as-is instead of the process error.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	c := command(ctx, dir, name, args...)
	var stderr bytes.Buffer
	c.Stderr = &stderr

	err := logged(ctx, dir, name, args, c.Run)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return &StderrError{Stderr: msg, Err: err}
		}
		return err
	}
	return nil
}

// CombinedContext runs the command and returns stdout and stderr interleaved,
// exactly as a terminal would show them. The output is returned even when the
// command fails; err is the raw *exec.ExitError (or start error) in that case.
func CombinedContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	c := command(ctx, dir, name, args...)
	var out []byte
	err := logged(ctx, dir, name, args, func() error {
		var err error
		out, err = c.CombinedOutput()
		return err
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, ctxErr
	}
	return out, err
}

// Stdio connects a shell command to the user.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Terminal is the process's own stdin, stdout and stderr.
func Terminal() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// ShellContext runs command through "sh -c" in dir with stdio attached, as
// used for user-defined hooks.
func ShellContext(ctx context.Context, dir, command string, stdio Stdio) error {
	c := exec.CommandContext(ctx, "sh", "-c", command)
	c.Dir = dir
	c.Stdin, c.Stdout, c.Stderr = stdio.In, stdio.Out, stdio.Err

	err := logged(ctx, dir, "sh", []string{"-c", command}, c.Run)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// logged runs fn and records the command line and duration with the
// context logger.
func logged(ctx context.Context, dir, name string, args []string, fn func() error) error {
	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	err := fn()
	done(time.Since(start))
	return err
}

func command(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	return c
}
