package git

import (
	"context"
	"errors"
	"os/exec"

	"github.com/raphi011/mgit/internal/cmd"
)

// runGit runs exe in dir when only the outcome matters. The stderr text of a
// failed command becomes the Output of the *InvocationError.
func runGit(ctx context.Context, exe Executable, dir string, args ...string) error {
	err := cmd.RunContext(ctx, dir, exe.Command(), args...)
	if err == nil || ctx.Err() != nil {
		return err
	}
	return invocationError(args, "", err)
}

// combinedGit runs exe in dir and returns stdout and stderr as one text.
// A non-zero exit status is reported as *InvocationError; the text is
// returned in every case.
func combinedGit(ctx context.Context, exe Executable, dir string, args ...string) (string, error) {
	out, err := cmd.CombinedContext(ctx, dir, exe.Command(), args...)
	text := string(out)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return text, err
	}

	return text, invocationError(args, text, err)
}

func invocationError(args []string, output string, err error) *InvocationError {
	invErr := &InvocationError{Args: args, ExitCode: -1, Output: output, Err: err}
	var stderrErr *cmd.StderrError
	if output == "" && errors.As(err, &stderrErr) {
		invErr.Output = stderrErr.Stderr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		invErr.ExitCode = exitErr.ExitCode()
	}
	return invErr
}
