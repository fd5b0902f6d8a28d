package hooks

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/log"
)

func TestSubstitutePlaceholders(t *testing.T) {
	hc := Context{
		Path:    "/home/user/src/api",
		Repo:    "api",
		Trigger: "pull",
	}

	tests := []struct {
		name     string
		command  string
		expected string
	}{
		{
			name:     "single placeholder",
			command:  "code {path}",
			expected: "code '/home/user/src/api'",
		},
		{
			name:     "multiple placeholders",
			command:  "cd {path} && echo {repo}",
			expected: "cd '/home/user/src/api' && echo 'api'",
		},
		{
			name:     "all placeholders",
			command:  "{path} {repo} {trigger}",
			expected: "'/home/user/src/api' 'api' 'pull'",
		},
		{
			name:     "no placeholders",
			command:  "echo hello",
			expected: "echo hello",
		},
		{
			name:     "repeated placeholder",
			command:  "{path} and {path}",
			expected: "'/home/user/src/api' and '/home/user/src/api'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SubstitutePlaceholders(tt.command, hc)
			if result != tt.expected {
				t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, result, tt.expected)
			}
		})
	}
}

func TestSubstitutePlaceholders_ShellEscaping(t *testing.T) {
	tests := []struct {
		name     string
		hc       Context
		command  string
		expected string
	}{
		{
			name:     "path with spaces",
			hc:       Context{Path: "/home/user/my documents/report.md"},
			command:  "open {path}",
			expected: "open '/home/user/my documents/report.md'",
		},
		{
			name:     "value with single quotes",
			hc:       Context{Path: "/home/user/it's a path"},
			command:  "code {path}",
			expected: "code '/home/user/it'\\''s a path'",
		},
		{
			name:     "command substitution is quoted",
			hc:       Context{Repo: "$(rm -rf /)"},
			command:  "echo {repo}",
			expected: "echo '$(rm -rf /)'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SubstitutePlaceholders(tt.command, tt.hc)
			if result != tt.expected {
				t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, result, tt.expected)
			}
		})
	}
}

func TestSubstitutePlaceholders_Env(t *testing.T) {
	hc := Context{Env: map[string]string{"editor": "vim", "msg": "it's done"}}

	tests := []struct {
		command  string
		expected string
	}{
		{"{editor} file", "'vim' file"},
		{"echo \"{msg:raw}\"", "echo \"it's done\""},
		{"{missing:-nano} file", "'nano' file"},
		{"{missing} file", "'' file"},
		{"{editor:-nano} file", "'vim' file"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			if got := SubstitutePlaceholders(tt.command, hc); got != tt.expected {
				t.Errorf("SubstitutePlaceholders(%q) = %q, want %q", tt.command, got, tt.expected)
			}
		})
	}
}

func TestSelectHooks(t *testing.T) {
	hooksConfig := config.HooksConfig{
		Hooks: map[string]config.Hook{
			"open": {
				Command:     "xdg-open {path}",
				Description: "Open report",
				On:          []string{"status"},
			},
			"build": {
				Command: "make -C {path}",
				// no On - only runs via explicit --hook
			},
			"notify": {
				Command: "notify-send {repo}",
				On:      []string{"pull", "push"},
			},
			"log": {
				Command: "echo {trigger} >> /tmp/mgit.log",
				On:      []string{"all"},
			},
		},
	}

	tests := []struct {
		name        string
		hookFlag    string
		noHook      bool
		cmdType     CommandType
		expectNames []string
		expectError bool
	}{
		{
			name:        "on=status runs for status",
			cmdType:     CommandStatus,
			expectNames: []string{"log", "open"},
		},
		{
			name:        "on=pull,push runs for push",
			cmdType:     CommandPush,
			expectNames: []string{"log", "notify"},
		},
		{
			name:        "only all matches commit",
			cmdType:     CommandCommit,
			expectNames: []string{"log"},
		},
		{
			name:        "explicit hook runs regardless of on condition",
			hookFlag:    "build",
			cmdType:     CommandPull,
			expectNames: []string{"build"},
		},
		{
			name:    "no-hook skips all",
			noHook:  true,
			cmdType: CommandStatus,
		},
		{
			name:        "unknown hook errors",
			hookFlag:    "nonexistent",
			cmdType:     CommandStatus,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := SelectHooks(hooksConfig, tt.hookFlag, tt.noHook, tt.cmdType)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var names []string
			for _, m := range matches {
				names = append(names, m.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.expectNames, ",") {
				t.Errorf("matched %v, want %v", names, tt.expectNames)
			}
		})
	}
}

func TestSelectHooks_EmptyConfig(t *testing.T) {
	matches, err := SelectHooks(config.HooksConfig{Hooks: map[string]config.Hook{}}, "", false, CommandStatus)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no hooks with empty config, got %d", len(matches))
	}
}

func TestParseEnv(t *testing.T) {
	got, err := ParseEnv([]string{"a=1", "b=x=y", "c="})
	if err != nil {
		t.Fatal(err)
	}
	if got["a"] != "1" || got["b"] != "x=y" || got["c"] != "" || len(got) != 3 {
		t.Errorf("ParseEnv() = %v", got)
	}

	for _, bad := range []string{"novalue", "=value"} {
		if _, err := ParseEnv([]string{bad}); err == nil {
			t.Errorf("ParseEnv(%q) should fail", bad)
		}
	}
}

func TestContextFromRepo(t *testing.T) {
	hc := ContextFromRepo("/src/api", CommandPull, nil)
	if hc.Path != "/src/api" || hc.Repo != "api" || hc.Trigger != "pull" {
		t.Errorf("ContextFromRepo() = %+v", hc)
	}

	hc = ContextFromReport("/reports/r.md", nil)
	if hc.Path != "/reports/r.md" || hc.Repo != "" || hc.Trigger != "status" {
		t.Errorf("ContextFromReport() = %+v", hc)
	}
}

func TestRunAll(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	var logOut bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&logOut, false, false))

	matches := []HookMatch{{
		Name: "touch",
		Hook: &config.Hook{Command: "echo {trigger} > out.txt", Description: "wrote file"},
	}}
	if err := RunAll(ctx, matches, ContextFromReport(filepath.Join(dir, "r.md"), nil), dir); err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "status" {
		t.Errorf("hook output = %q", data)
	}
	if !strings.Contains(logOut.String(), "Running hook 'touch'") || !strings.Contains(logOut.String(), "wrote file") {
		t.Errorf("log = %q", logOut.String())
	}

	failing := []HookMatch{{Name: "fail", Hook: &config.Hook{Command: "exit 3"}}}
	if err := RunAll(ctx, failing, Context{}, dir); err == nil {
		t.Error("RunAll() with failing hook should return an error")
	}
}

func TestRunForEach_ContinuesOnFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	var logOut bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&logOut, false, false))

	matches := []HookMatch{
		{Name: "a-fail", Hook: &config.Hook{Command: "exit 1"}},
		{Name: "b-touch", Hook: &config.Hook{Command: "touch marker"}},
	}
	RunForEach(ctx, matches, ContextFromRepo(dir, CommandPull, nil))

	if _, err := os.Stat(filepath.Join(dir, "marker")); err != nil {
		t.Errorf("second hook did not run: %v", err)
	}
	if !strings.Contains(logOut.String(), `Warning: hook "a-fail" failed`) {
		t.Errorf("log = %q", logOut.String())
	}
}

func TestRunAll_DryRun(t *testing.T) {
	var logOut bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&logOut, false, false))

	matches := []HookMatch{{Name: "open", Hook: &config.Hook{Command: "xdg-open {path}"}}}
	hc := Context{Path: "/r.md", DryRun: true}
	if err := RunAll(ctx, matches, hc, t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if got := logOut.String(); got != "[dry-run] open: xdg-open '/r.md'\n" {
		t.Errorf("dry run output = %q", got)
	}
}
