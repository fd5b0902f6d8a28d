package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Hook defines a command run after a batch operation
type Hook struct {
	Command     string   `toml:"command"`
	Description string   `toml:"description"`
	On          []string `toml:"on"` // commands this hook runs on (empty = only via --hook)
}

// HooksConfig holds hook-related configuration
type HooksConfig struct {
	Hooks map[string]Hook `toml:"-"` // parsed from [hooks.NAME] sections
}

// ScanConfig controls repository discovery during setup
type ScanConfig struct {
	Recursive       bool     `toml:"recursive"`        // walk the whole tree instead of direct children
	ExcludePrefixes []string `toml:"exclude_prefixes"` // skip directories whose name starts with one of these
	Rules           []string `toml:"rules"`            // skip paths containing any of these substrings
}

// Config holds the mgit configuration
type Config struct {
	Home          string      `toml:"home"`
	ReportDir     string      `toml:"report_dir"`
	GitPath       string      `toml:"git_path"`
	CommitMessage string      `toml:"commit_message"`
	Jobs          int         `toml:"jobs"`
	LogFile       string      `toml:"log_file"`
	Theme         string      `toml:"theme"`
	Scan          ScanConfig  `toml:"scan"`
	Hooks         HooksConfig `toml:"-"` // custom parsing needed
}

// Defaults
const (
	DefaultHome          = "~/.mgit"
	DefaultCommitMessage = "minor changes"
	DefaultTheme         = "default"
)

// DefaultExcludePrefixes are the directory name prefixes skipped while scanning.
var DefaultExcludePrefixes = []string{".", "_"}

// RegistryDir returns the directory holding the repository registry.
func (c *Config) RegistryDir() string {
	return filepath.Join(c.Home, "registry")
}

// TrashDir returns where cleanup moves discarded registries.
func (c *Config) TrashDir() string {
	return filepath.Join(c.Home, "trash")
}

// HistoryPath returns the path of the report history file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Home, "history.json")
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Home:          DefaultHome,
		CommitMessage: DefaultCommitMessage,
		Jobs:          1,
		LogFile:       filepath.Join(DefaultHome, "mgit.log"),
		Theme:         DefaultTheme,
		Scan: ScanConfig{
			ExcludePrefixes: DefaultExcludePrefixes,
		},
		Hooks: HooksConfig{Hooks: map[string]Hook{}},
	}
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file location: $MGIT_CONFIG or ~/.config/mgit/config.toml
func Path() (string, error) {
	if p := os.Getenv("MGIT_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mgit", "config.toml"), nil
}

// rawConfig is used for initial TOML parsing before processing hooks
type rawConfig struct {
	Home          string         `toml:"home"`
	ReportDir     string         `toml:"report_dir"`
	GitPath       string         `toml:"git_path"`
	CommitMessage string         `toml:"commit_message"`
	Jobs          *int           `toml:"jobs"`
	LogFile       *string        `toml:"log_file"`
	Theme         string         `toml:"theme"`
	Scan          rawScanConfig  `toml:"scan"`
	Hooks         map[string]any `toml:"hooks"`
}

type rawScanConfig struct {
	Recursive       bool     `toml:"recursive"`
	ExcludePrefixes []string `toml:"exclude_prefixes"`
	Rules           []string `toml:"rules"`
}

// Load reads the config file (see [Path]) and applies environment overrides.
// A missing file is not an error.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return finalize(Default())
	}
	return LoadFile(path)
}

// LoadFile reads config from path. Returns defaults if the file doesn't exist;
// returns an error only if the file exists but is invalid.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return finalize(Default())
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	if raw.Home != "" {
		cfg.Home = raw.Home
		cfg.LogFile = filepath.Join(raw.Home, "mgit.log")
	}
	cfg.ReportDir = raw.ReportDir
	cfg.GitPath = raw.GitPath
	if raw.CommitMessage != "" {
		cfg.CommitMessage = raw.CommitMessage
	}
	if raw.Jobs != nil {
		cfg.Jobs = *raw.Jobs
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	if raw.Theme != "" {
		cfg.Theme = raw.Theme
	}
	cfg.Scan.Recursive = raw.Scan.Recursive
	cfg.Scan.Rules = raw.Scan.Rules
	if raw.Scan.ExcludePrefixes != nil {
		cfg.Scan.ExcludePrefixes = raw.Scan.ExcludePrefixes
	}
	cfg.Hooks = parseHooksConfig(raw.Hooks)

	return finalize(cfg)
}

// finalize applies env overrides, validates and expands paths.
func finalize(cfg Config) (Config, error) {
	if home := os.Getenv("MGIT_HOME"); home != "" {
		if cfg.LogFile == filepath.Join(cfg.Home, "mgit.log") {
			cfg.LogFile = filepath.Join(home, "mgit.log")
		}
		cfg.Home = home
	}

	if cfg.Jobs < 0 {
		return Default(), fmt.Errorf("jobs must not be negative, got %d", cfg.Jobs)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	fields := []struct {
		name string
		ptr  *string
	}{
		{"home", &cfg.Home},
		{"report_dir", &cfg.ReportDir},
		{"git_path", &cfg.GitPath},
		{"log_file", &cfg.LogFile},
	}
	for _, f := range fields {
		if err := ValidatePath(*f.ptr, f.name); err != nil {
			return Default(), err
		}
		expanded, err := ExpandPath(*f.ptr)
		if err != nil {
			return Default(), fmt.Errorf("expand %s: %w", f.name, err)
		}
		*f.ptr = expanded
	}

	if cfg.Home == "" {
		return Default(), fmt.Errorf("home must not be empty")
	}

	for name, hook := range cfg.Hooks.Hooks {
		if hook.Command == "" {
			return Default(), fmt.Errorf("hook %q has no command", name)
		}
		for _, on := range hook.On {
			if !validHookTrigger(on) {
				return Default(), fmt.Errorf("hook %q: invalid trigger %q (valid: %v, all)", name, on, HookTriggers)
			}
		}
	}

	return cfg, nil
}

// HookTriggers are the commands hooks can be attached to.
var HookTriggers = []string{"status", "pull", "push", "commit"}

func validHookTrigger(on string) bool {
	if on == "all" {
		return true
	}
	for _, t := range HookTriggers {
		if t == on {
			return true
		}
	}
	return false
}

// parseHooksConfig extracts HooksConfig from raw TOML map
// Handles [hooks.NAME] sections
func parseHooksConfig(raw map[string]any) HooksConfig {
	hc := HooksConfig{
		Hooks: make(map[string]Hook),
	}

	for key, value := range raw {
		hookMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		hook := Hook{}
		if cmd, ok := hookMap["command"].(string); ok {
			hook.Command = cmd
		}
		if desc, ok := hookMap["description"].(string); ok {
			hook.Description = desc
		}
		if on, ok := hookMap["on"].([]any); ok {
			for _, v := range on {
				if s, ok := v.(string); ok {
					hook.On = append(hook.On, s)
				}
			}
		}
		hc.Hooks[key] = hook
	}

	return hc
}

type ctxKey struct{}

// WithConfig attaches the config to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config stored in ctx, or defaults if none.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	cfg, _ := finalize(Default())
	return &cfg
}

const defaultConfig = `# mgit configuration

# State directory: registry, log file, report history and trash.
# Must be an absolute path or start with ~
# home = "~/.mgit"

# Where "mgit status" writes reports when "mgit setup -t" was not given
# report_dir = "~/mgit-status"

# Git executable used when "mgit setup -g" is not given.
# Leave empty to use git from PATH.
# git_path = "/usr/local/bin/git"

# Message used by "mgit commit" when none is given
commit_message = "minor changes"

# Number of repositories processed at once by batch commands
jobs = 1

# Persistent debug log (empty disables it)
# log_file = "~/.mgit/mgit.log"

# Output colors: "default" or "none"
theme = "default"

[scan]
# false: only direct children of the master directory are considered
# true: the whole tree below it is searched
recursive = false
# Directory names starting with one of these are skipped
exclude_prefixes = [".", "_"]
# Paths containing any of these substrings are skipped
rules = ["node_modules"]

# Hooks run after batch commands.
# Use --hook=name to run a specific hook, --no-hook to skip all hooks.
#
# [hooks.open]
# command = "xdg-open {path}"
# description = "Open the status report"
# on = ["status"]
#
# Available "on" values: "status", "pull", "push", "commit", "all"
#
# Placeholders:
#   {path}    - report file (status) or repository path (others)
#   {repo}    - repository name (empty for status)
#   {trigger} - command that triggered the hook
`

// Init creates a default config file at [Path].
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return path, nil
}
