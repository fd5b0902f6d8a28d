// Package hooks provides post-operation hook execution with placeholder substitution.
//
// Hooks are shell commands defined in config that run after mgit batch
// commands. A status hook typically opens the written report; pull and push
// hooks run once per repository.
//
// # Hook Selection
//
//   - Automatic: Hooks with "on" config matching the command type run automatically
//   - Manual: Use --hook=name to run a specific hook, --no-hook to skip all
//
// Example config:
//
//	[hooks.open]
//	command = "xdg-open {path}"
//	on = ["status"]
//
//	[hooks.build]
//	command = "make -C {path}"
//	# no "on" - only runs via --hook=build
//
// # Placeholder Substitution
//
//   - {path}: Report file (status) or repository path (pull, push, commit)
//   - {repo}: Repository name, empty for status
//   - {trigger}: Command that triggered the hook
//
// Custom variables via --arg key=value:
//
//   - {key}: Value from --arg key=value
//   - {key:-default}: Value with fallback if not provided
//
// Status hooks run in the report directory; per-repository hooks run in the
// repository. Per-repository failures are logged and don't stop the batch
// ([RunForEach]); [RunAll] stops at the first failure.
package hooks
