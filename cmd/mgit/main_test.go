package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bep/helpers/envhelpers"
	"github.com/rogpeppe/go-internal/testscript"
)

func TestScripts(t *testing.T) {
	params := commonTestScriptsParam
	params.Dir = "testscripts"
	// params.TestWork = true
	testscript.Run(t, params)
}

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"mgit": main,
	})
}

func testSetupFunc() func(env *testscript.Env) error {
	return func(env *testscript.Env) error {
		home := filepath.Join(env.WorkDir, "home")
		if err := os.MkdirAll(home, 0o755); err != nil {
			return err
		}

		envhelpers.SetEnvVars(&env.Vars,
			"HOME", home,
			"MGIT_CONFIG", filepath.Join(env.WorkDir, "config.toml"),
			"MGIT_HOME", "",
			"LC_ALL", "C",
			"GIT_CONFIG_NOSYSTEM", "1",
			"GIT_AUTHOR_NAME", "Test",
			"GIT_AUTHOR_EMAIL", "test@example.com",
			"GIT_COMMITTER_NAME", "Test",
			"GIT_COMMITTER_EMAIL", "test@example.com",
			"MGIT_BIN", binDir(env.Getenv("PATH")),
		)
		return nil
	}
}

// binDir returns the PATH entry holding the mgit test binary. A PATH made of
// only this directory runs mgit without git.
func binDir(path string) string {
	for _, dir := range filepath.SplitList(path) {
		if _, err := os.Stat(filepath.Join(dir, "mgit")); err == nil {
			return dir
		}
	}
	return ""
}

var commonTestScriptsParam = testscript.Params{
	Setup: func(env *testscript.Env) error {
		return testSetupFunc()(env)
	},
	Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
		// gitrepo creates a repository with one empty commit.
		"gitrepo": func(ts *testscript.TestScript, neg bool, args []string) {
			if len(args) != 1 {
				ts.Fatalf("usage: gitrepo DIR")
			}
			dir := ts.MkAbs(args[0])
			ts.Check(os.MkdirAll(dir, 0o755))
			ts.Check(ts.Exec("git", "-C", dir, "init", "-q"))
			ts.Check(ts.Exec("git", "-C", dir, "commit", "-q", "--allow-empty", "-m", "init"))
		},
		// catreport prints the newest status report in a directory.
		"catreport": func(ts *testscript.TestScript, neg bool, args []string) {
			if len(args) != 1 {
				ts.Fatalf("usage: catreport DIR")
			}
			matches, err := filepath.Glob(filepath.Join(ts.MkAbs(args[0]), "REPO_STATUS_@_*.md"))
			ts.Check(err)
			if len(matches) == 0 {
				ts.Fatalf("no report in %s", args[0])
			}
			slices.Sort(matches)
			b, err := os.ReadFile(matches[len(matches)-1])
			ts.Check(err)
			fmt.Fprint(ts.Stdout(), string(b))
		},
	},
}
