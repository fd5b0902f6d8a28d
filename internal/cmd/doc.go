// Package cmd provides helpers for executing external commands.
//
// Every context-aware helper logs the command line through the logger found
// in the context (see [log.FromContext]), so "mgit -v" shows each git
// invocation together with its working directory and duration.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoDir, "git", "fetch"); err != nil {
//	    // err contains stderr output if available
//	}
//
//	// For commands whose complete terminal output matters:
//	out, err := cmd.CombinedContext(ctx, repoDir, "git", "status")
//
//	// Hooks talk to the user directly:
//	err := cmd.ShellContext(ctx, repoDir, "make test", cmd.Terminal())
//
// # Design Notes
//
// The working directory is always passed to the child process explicitly.
// Nothing in mgit changes the process's own working directory, so commands
// for different repositories can run concurrently.
package cmd
