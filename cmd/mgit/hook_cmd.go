package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/git"
	"github.com/raphi011/mgit/internal/history"
	"github.com/raphi011/mgit/internal/hooks"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/registry"
)

func newHookCmd() *cobra.Command {
	var (
		env        []string
		dryRun     bool
		lastReport bool
	)

	cmd := &cobra.Command{
		Use:               "hook <name> [id|name]...",
		Short:             "Run a configured hook",
		GroupID:           GroupBatch,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeHookArg,
		Long: `Run a hook from the config file by hand.

The hook runs in each given repository, or in all of them, with {path}
and {repo} set to that repository. With --report it runs once on the
most recent status report instead.`,
		Example: `  mgit hook lint            # In every repository
  mgit hook lint api 3      # In two repositories
  mgit hook open --report   # On the newest status report
  mgit hook lint -d         # Print the commands only
  mgit hook deploy --arg env=prod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			name, targets := args[0], args[1:]
			matches, err := hooks.SelectHooks(cfg.Hooks, name, false, hooks.CommandHook)
			if err != nil {
				return err
			}
			hookEnv, err := hooks.ParseEnv(env)
			if err != nil {
				return err
			}

			l.Debug("running hook", "hook", name, "targets", targets, "dryRun", dryRun)

			if lastReport {
				if len(targets) > 0 {
					return errors.New("--report takes no repositories")
				}
				return runHookOnReport(ctx, matches, hookEnv, dryRun)
			}

			records, err := hookTargets(ctx, targets)
			if err != nil {
				return err
			}
			for _, rec := range records {
				if !git.IsRepo(rec.Path) {
					l.Warnf("skipping %s: %v", rec.Name, &git.MovedError{Name: rec.Name, Dir: rec.Path})
					continue
				}
				hc := hooks.ContextFromRepo(rec.Path, hooks.CommandHook, hookEnv)
				hc.DryRun = dryRun
				hooks.RunForEach(ctx, matches, hc)
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringSliceVar(&env, "arg", nil, "Hook variable as key=value (repeatable)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print the command instead of running it")
	cmd.Flags().BoolVar(&lastReport, "report", false, "Run on the most recent status report")

	return cmd
}

// hookTargets resolves the repositories a hook runs in. Tokens that do not
// resolve are reported and skipped.
func hookTargets(ctx context.Context, tokens []string) ([]registry.Record, error) {
	reg, err := openRegistry(ctx)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return reg.List(), nil
	}

	l := log.FromContext(ctx)
	var records []registry.Record
	for _, tok := range tokens {
		rec, err := resolveOne(reg, tok)
		if err != nil {
			l.Warnf("skipping %s: %v", tok, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func runHookOnReport(ctx context.Context, matches []hooks.HookMatch, env map[string]string, dryRun bool) error {
	cfg := config.FromContext(ctx)

	path, err := history.MostRecent(cfg.HistoryPath())
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("no status report found: run 'mgit status' first")
	}

	hc := hooks.ContextFromReport(path, env)
	hc.DryRun = dryRun
	return hooks.RunAll(ctx, matches, hc, filepath.Dir(path))
}
