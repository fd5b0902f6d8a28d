package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/batch"
	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/hooks"
	"github.com/raphi011/mgit/internal/log"
)

// batchCmdSpec describes a command that runs one git operation per repository.
type batchCmdSpec struct {
	use     string
	short   string
	long    string
	example string
	op      func() batch.Op
	trigger hooks.CommandType // empty: no hook support
}

func newPullCmd() *cobra.Command {
	return newBatchCmd(batchCmdSpec{
		use:   "pull [id|name]...",
		short: "Pull repositories",
		long: `Run "git pull" in the given repositories, or in all of them.

Hooks with on = ["pull"] run in every repository afterwards.`,
		example: `  mgit pull            # All repositories
  mgit pull 1 api      # Two repositories
  mgit pull -j 4       # Four at a time`,
		op:      batch.Pull,
		trigger: hooks.CommandPull,
	})
}

func newPushCmd() *cobra.Command {
	return newBatchCmd(batchCmdSpec{
		use:   "push [id|name]...",
		short: "Push repositories",
		long: `Run "git push" in the given repositories, or in all of them.

Hooks with on = ["push"] run in every repository afterwards.`,
		example: `  mgit push            # All repositories
  mgit push api        # One repository`,
		op:      batch.Push,
		trigger: hooks.CommandPush,
	})
}

func newFetchCmd() *cobra.Command {
	return newBatchCmd(batchCmdSpec{
		use:   "fetch [id|name]...",
		short: "Fetch repositories",
		long:  `Run "git fetch" in the given repositories, or in all of them.`,
		example: `  mgit fetch           # All repositories
  mgit fetch -j 8      # Eight at a time`,
		op: batch.Fetch,
	})
}

func newBatchCmd(spec batchCmdSpec) *cobra.Command {
	var (
		all      bool
		jobs     int
		hookName string
		noHook   bool
		env      []string
	)

	cmd := &cobra.Command{
		Use:               spec.use,
		Short:             spec.short,
		Long:              spec.long,
		Example:           spec.example,
		GroupID:           GroupBatch,
		ValidArgsFunction: completeRepoTokens,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			var matches []hooks.HookMatch
			var hookEnv map[string]string
			if spec.trigger != "" {
				var err error
				if matches, err = hooks.SelectHooks(cfg.Hooks, hookName, noHook, spec.trigger); err != nil {
					return err
				}
				if hookEnv, err = hooks.ParseEnv(env); err != nil {
					return err
				}
			}

			exec, err := newExecutor(ctx, jobs)
			if err != nil {
				return err
			}

			sel := selection(all, args)
			l.Debug("batch", "op", spec.op().Name, "all", sel.All, "tokens", sel.Tokens)

			var each func(batch.Result)
			if len(matches) > 0 {
				each = func(res batch.Result) {
					if res.Err != nil {
						return
					}
					hooks.RunForEach(ctx, matches, hooks.ContextFromRepo(res.Record.Path, spec.trigger, hookEnv))
				}
			}

			if failed := printResults(ctx, exec.Run(ctx, sel, spec.op()), each); failed > 0 {
				l.Printf("%s failed for %d repositories\n", spec.op().Name, failed)
			}
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s interrupted: %w", spec.op().Name, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Run on all repositories (default without arguments)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Repositories processed at once (default from config)")
	if spec.trigger != "" {
		cmd.Flags().StringVar(&hookName, "hook", "", "Run only this hook afterwards")
		cmd.Flags().BoolVar(&noHook, "no-hook", false, "Do not run hooks")
		cmd.Flags().StringSliceVar(&env, "arg", nil, "Hook variable as key=value (repeatable)")
		cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
		cmd.RegisterFlagCompletionFunc("hook", completeHookNames)
	}

	return cmd
}
