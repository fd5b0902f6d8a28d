// Package config handles loading and validation of mgit configuration.
//
// Configuration is read from ~/.config/mgit/config.toml (or $MGIT_CONFIG)
// with an environment override for the state directory.
//
// # Configuration Sources (highest priority first)
//
//   - Command-line flags of "mgit setup" (-g, -t, -r, --recursive)
//   - MGIT_HOME env var: state directory
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - home: state directory holding registry/, trash/, history.json and mgit.log
//   - report_dir: default output directory for status reports
//   - git_path: default git executable (empty = git from PATH)
//   - commit_message: fallback commit message (default: "minor changes")
//   - jobs: parallelism of batch commands (default: 1, strictly sequential)
//   - [scan]: recursive, exclude_prefixes, rules
//
// # Hooks Configuration
//
// Hooks are defined in [hooks.NAME] sections:
//
//	[hooks.open]
//	command = "xdg-open {path}"
//	description = "Open the status report"
//	on = ["status"]
//
// Hooks with "on" run automatically for matching commands (status, pull,
// push, commit). Hooks without "on" only run via explicit --hook=name flag.
//
// # Path Validation
//
// Paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
