package hooks

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/raphi011/mgit/internal/cmd"
	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/log"
)

// shellQuote escapes a string for safe use in shell commands.
// It wraps the value in single quotes and escapes any embedded single quotes.
func shellQuote(s string) string {
	// e.g., "it's" becomes 'it'\''s'
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// CommandType identifies which command is triggering the hook
type CommandType string

const (
	CommandStatus CommandType = "status"
	CommandPull   CommandType = "pull"
	CommandPush   CommandType = "push"
	CommandCommit CommandType = "commit"
	CommandHook   CommandType = "hook" // manual runs; not accepted in "on"
)

// Context holds the values for placeholder substitution
type Context struct {
	Path    string            // report file (status) or repository path
	Repo    string            // repository name, empty for status reports
	Trigger string            // command that triggered the hook
	Env     map[string]string // custom variables from --arg key=value flags
	DryRun  bool              // if true, print command instead of executing
}

// HookMatch represents a hook that matched the current command
type HookMatch struct {
	Hook *config.Hook
	Name string
}

// SelectHooks determines which hooks to run based on config and CLI flags.
// If hookName is specified, only that hook runs. Otherwise, all hooks with
// matching "on" conditions run, ordered by name.
// Returns nil slice if no hooks should run, error if specified hook doesn't exist.
func SelectHooks(cfg config.HooksConfig, hookName string, noHook bool, cmdType CommandType) ([]HookMatch, error) {
	if noHook {
		return nil, nil
	}

	// Explicit hook ignores the "on" condition
	if hookName != "" {
		hook, exists := cfg.Hooks[hookName]
		if !exists {
			return nil, fmt.Errorf("unknown hook %q", hookName)
		}
		return []HookMatch{{Hook: &hook, Name: hookName}}, nil
	}

	return findMatchingHooks(cfg, cmdType), nil
}

// findMatchingHooks returns all hooks that have the command type in their "on" list.
// Hooks without "on" are skipped (they only run via explicit --hook=name).
func findMatchingHooks(cfg config.HooksConfig, cmdType CommandType) []HookMatch {
	var matches []HookMatch

	for name, hook := range cfg.Hooks {
		if len(hook.On) > 0 && hookMatchesCommand(hook, cmdType) {
			hookCopy := hook
			matches = append(matches, HookMatch{Hook: &hookCopy, Name: name})
		}
	}

	slices.SortFunc(matches, func(a, b HookMatch) int { return strings.Compare(a.Name, b.Name) })
	return matches
}

// hookMatchesCommand returns true if cmdType is in the hook's "on" list.
// Special value "all" matches all command types.
func hookMatchesCommand(hook config.Hook, cmdType CommandType) bool {
	for _, on := range hook.On {
		if on == "all" || on == string(cmdType) {
			return true
		}
	}
	return false
}

// RunAll runs all matched hooks in workDir. Returns on first error.
func RunAll(ctx context.Context, matches []HookMatch, hc Context, workDir string) error {
	for _, match := range matches {
		if err := runHook(ctx, match.Name, match.Hook, hc, workDir); err != nil {
			return fmt.Errorf("hook %q failed: %w", match.Name, err)
		}
	}
	return nil
}

// RunForEach runs all matched hooks for a single repository of a batch.
// Failures are logged as warnings and do not stop the batch.
func RunForEach(ctx context.Context, matches []HookMatch, hc Context) {
	for _, match := range matches {
		if err := runHook(ctx, match.Name, match.Hook, hc, hc.Path); err != nil {
			log.FromContext(ctx).Warnf("hook %q failed for %s: %v", match.Name, hc.Repo, err)
		}
	}
}

// runHook executes a single hook with variable substitution.
func runHook(ctx context.Context, name string, hook *config.Hook, hc Context, workDir string) error {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(hook.Command, hc)

	if hc.DryRun {
		l.Printf("[dry-run] %s: %s\n", name, command)
		return nil
	}

	l.Printf("Running hook '%s'...\n", name)
	l.Debug("hook", "name", name, "command", command, "dir", workDir)

	if err := cmd.ShellContext(ctx, workDir, command, cmd.Terminal()); err != nil {
		return err
	}

	if hook.Description != "" {
		l.Printf("  ✓ %s\n", hook.Description)
	}
	return nil
}

// ParseEnv parses a slice of "key=value" strings into a map.
// Returns an error if any entry doesn't contain "=".
func ParseEnv(envSlice []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, e := range envSlice {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid arg format %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid arg format %q: key cannot be empty", e)
		}
		result[key] = value
	}
	return result, nil
}

// envPlaceholderRegex matches {key}, {key:raw}, or {key:-default} patterns for env variables.
// This is used after static replacements to expand custom env placeholders.
var envPlaceholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values from Context.
//
// Static placeholders: {path}, {repo}, {trigger}
// Env placeholders (from Context.Env):
//   - {key}          - shell-quoted value
//   - {key:raw}      - unquoted value (for embedding in existing quotes)
//   - {key:-default} - shell-quoted value with default if key missing
func SubstitutePlaceholders(command string, hc Context) string {
	replacements := map[string]string{
		"{path}":    shellQuote(hc.Path),
		"{repo}":    shellQuote(hc.Repo),
		"{trigger}": shellQuote(hc.Trigger),
	}

	result := command
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return envPlaceholderRegex.ReplaceAllStringFunc(result, func(match string) string {
		submatch := envPlaceholderRegex.FindStringSubmatch(match)
		if submatch == nil {
			return match
		}
		key := submatch[1]
		isRaw := submatch[2] == ":raw"
		defaultVal := submatch[3]

		if val, ok := hc.Env[key]; ok {
			if isRaw {
				return val
			}
			return shellQuote(val)
		}

		if isRaw {
			return defaultVal
		}
		return shellQuote(defaultVal)
	})
}
