package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/batch"
	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/hooks"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/registry"
	"github.com/raphi011/mgit/internal/ui/prompt"
)

func newCommitCmd() *cobra.Command {
	var (
		all      bool
		message  string
		stageAll bool
		jobs     int
		hookName string
		noHook   bool
		env      []string
	)

	cmd := &cobra.Command{
		Use:               "commit [id|name]...",
		Short:             "Commit staged changes",
		Aliases:           []string{"ci"},
		GroupID:           GroupBatch,
		ValidArgsFunction: completeRepoTokens,
		Long: `Commit staged changes in the given repositories, or in all of
them with --all.

The message comes from -m, or else from config commit_message. For a
single repository on a terminal you are asked for the message instead;
an empty answer keeps the default. Batches never prompt.

With --add everything is staged before committing.`,
		Example: `  mgit commit api                 # Prompt for the message
  mgit commit api -m "fix typo"   # Commit with a message
  mgit commit --all --add         # Stage and commit everywhere`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			if !all && len(args) == 0 {
				return errors.New("name repositories to commit in, or pass --all")
			}

			op := batch.Commit
			if stageAll {
				op = batch.AddCommit
			}

			matches, err := hooks.SelectHooks(cfg.Hooks, hookName, noHook, hooks.CommandCommit)
			if err != nil {
				return err
			}
			hookEnv, err := hooks.ParseEnv(env)
			if err != nil {
				return err
			}

			if !all && len(args) == 1 && !cmd.Flags().Changed("message") && interactive() {
				var target registry.Record
				err := runSingle(ctx, args[0], func(rec registry.Record) (batch.Op, error) {
					target = rec
					msg, err := askCommitMessage(rec, cfg.CommitMessage)
					if err != nil {
						return batch.Op{}, err
					}
					return op(msg), nil
				})
				if err != nil {
					return err
				}
				hooks.RunForEach(ctx, matches, hooks.ContextFromRepo(target.Path, hooks.CommandCommit, hookEnv))
				return nil
			}

			exec, err := newExecutor(ctx, jobs)
			if err != nil {
				return err
			}

			var each func(batch.Result)
			if len(matches) > 0 {
				each = func(res batch.Result) {
					if res.Err == nil {
						hooks.RunForEach(ctx, matches, hooks.ContextFromRepo(res.Record.Path, hooks.CommandCommit, hookEnv))
					}
				}
			}

			if failed := printResults(ctx, exec.Run(ctx, selection(all, args), op(message)), each); failed > 0 {
				log.FromContext(ctx).Printf("commit failed for %d repositories\n", failed)
			}
			return ctx.Err()
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Commit in all repositories")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().BoolVar(&stageAll, "add", false, "Stage everything before committing")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Repositories processed at once (default from config)")
	cmd.Flags().StringVar(&hookName, "hook", "", "Run only this hook afterwards")
	cmd.Flags().BoolVar(&noHook, "no-hook", false, "Do not run hooks")
	cmd.Flags().StringSliceVar(&env, "arg", nil, "Hook variable as key=value (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	cmd.RegisterFlagCompletionFunc("hook", completeHookNames)

	return cmd
}

// askCommitMessage prompts for a message. An empty answer keeps fallback.
func askCommitMessage(rec registry.Record, fallback string) (string, error) {
	res, err := prompt.Input(fmt.Sprintf("Commit message for %s:", rec.Name), fallback)
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", errors.New("commit cancelled")
	}
	return res.Value, nil
}
