// Package git provides git operations via shell commands.
//
// All operations use [os/exec] to call the git CLI directly rather than
// interpreting repositories with a Go git library. Output is returned as the
// text git printed, so it matches what the user would see in a terminal.
//
// # Discovery
//
//   - [IsRepo]: a directory with a .git entry
//   - [Scan]: find repositories below a root, direct children or recursive
//   - [FilterRepos]: validate explicitly named repositories
//
// # Executable
//
// [Resolve] picks the git binary: an explicit path, then git on PATH,
// then a manual PATH scan. [ErrGitNotFound] is soft; callers warn and
// continue with "git".
//
// # Repository Operations
//
// A [Handle] binds one repository directory to an [Executable]. Each
// operation runs git with the repository as working directory, so handles
// for different repositories can be used concurrently:
//
//   - [Handle.Fetch], [Handle.Status]
//   - [Handle.Add], [Handle.Commit], [Handle.Reset]
//   - [Handle.Push], [Handle.Pull]
//
// Non-zero exits are returned as [*InvocationError] together with the full
// output text.
package git
