package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/batch"
	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/history"
	"github.com/raphi011/mgit/internal/hooks"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/output"
	"github.com/raphi011/mgit/internal/report"
	"github.com/raphi011/mgit/internal/ui/progress"
	"github.com/raphi011/mgit/internal/ui/static"
	"github.com/raphi011/mgit/internal/ui/styles"
)

// statusOptions holds the flags of "mgit status".
type statusOptions struct {
	all             bool
	copyToClipboard bool
	last            bool
	hookName        string
	noHook          bool
	env             []string
	jobs            int
}

func newStatusCmd() *cobra.Command {
	var opts statusOptions

	cmd := &cobra.Command{
		Use:               "status [id|name]...",
		Short:             "Show status or write a status report",
		Aliases:           []string{"st"},
		GroupID:           GroupBatch,
		ValidArgsFunction: completeRepoTokens,
		Long: `Fetch and show "git status" for repositories.

Without arguments (or with --all) every registered repository is checked
and a markdown report is written to the report directory. The report
ends with the repositories needing attention: staged or unstaged
changes, untracked files, or a branch ahead of, behind or diverged from
its upstream. The report path is printed on stdout.

With arguments the status of each named repository is printed instead.

Hooks with on = ["status"] run after a report is written, with {path}
set to the report file.`,
		Example: `  mgit status                # Report over all repositories
  mgit status 1 api          # Print status of two repositories
  mgit status --last         # Path of the newest report
  mgit status --copy         # Copy the report path to the clipboard
  mgit status -j 8           # Check 8 repositories at once
  mgit status --hook open    # Run the 'open' hook on the report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if opts.last {
				return runStatusLast(ctx, opts)
			}
			if opts.all || len(args) == 0 {
				return runStatusReport(ctx, opts)
			}

			exec, err := newExecutor(ctx, opts.jobs)
			if err != nil {
				return err
			}
			printResults(ctx, exec.Run(ctx, selection(false, args), batch.Status()), nil)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Report on all repositories (default without arguments)")
	cmd.Flags().BoolVar(&opts.copyToClipboard, "copy", false, "Copy the report path to the clipboard")
	cmd.Flags().BoolVar(&opts.last, "last", false, "Print the path of the most recent report")
	cmd.Flags().StringVar(&opts.hookName, "hook", "", "Run only this hook after the report")
	cmd.Flags().BoolVar(&opts.noHook, "no-hook", false, "Do not run hooks")
	cmd.Flags().StringSliceVar(&opts.env, "arg", nil, "Hook variable as key=value (repeatable)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "Repositories processed at once (default from config)")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	cmd.MarkFlagsMutuallyExclusive("last", "all")
	cmd.RegisterFlagCompletionFunc("hook", completeHookNames)

	return cmd
}

func runStatusLast(ctx context.Context, opts statusOptions) error {
	cfg := config.FromContext(ctx)

	path, err := history.MostRecent(cfg.HistoryPath())
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("no status report found: run 'mgit status' first")
	}
	copyPath(ctx, path, opts.copyToClipboard)
	output.FromContext(ctx).Println(path)
	return nil
}

func runStatusReport(ctx context.Context, opts statusOptions) error {
	cfg := config.FromContext(ctx)
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	// Validate hooks before doing any work
	matches, err := hooks.SelectHooks(cfg.Hooks, opts.hookName, opts.noHook, hooks.CommandStatus)
	if err != nil {
		return err
	}
	env, err := hooks.ParseEnv(opts.env)
	if err != nil {
		return err
	}

	exec, err := newExecutor(ctx, opts.jobs)
	if err != nil {
		return err
	}
	reg := exec.Registry()

	var bar *progress.Bar
	if showProgress() {
		bar = progress.NewBar(os.Stderr, len(reg.Records), "checking status")
		bar.Start()
	}
	rep := report.Collect(withProgress(exec.Run(ctx, batch.Selection{All: true}, batch.Status()), bar), time.Now())
	if bar != nil {
		bar.Stop()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := reg.ReportDir
	if dir == "" {
		if dir, err = setupReportDir(cfg, ""); err != nil {
			return err
		}
	}
	path, err := report.Write(dir, rep)
	if err != nil {
		return err
	}

	attention := rep.Attention()
	if err := history.RecordReport(history.Entry{
		Path:      path,
		Time:      rep.Time,
		Total:     len(rep.Entries),
		Attention: len(attention),
	}, cfg.HistoryPath()); err != nil {
		l.Warnf("failed to record report history: %v", err)
	}

	printAttention(ctx, attention, rep.SkippedEntries())
	copyPath(ctx, path, opts.copyToClipboard)
	out.Println(path)

	if len(matches) > 0 {
		return hooks.RunAll(ctx, matches, hooks.ContextFromReport(path, env), filepath.Dir(path))
	}
	return nil
}

// printAttention summarizes the report on stderr.
func printAttention(ctx context.Context, attention, skipped []report.Entry) {
	l := log.FromContext(ctx)

	for _, e := range skipped {
		l.Warnf("skipped %s: %v", e.Name, e.Err)
	}

	if len(attention) == 0 {
		l.Println(styles.SuccessStyle.Render("All repositories are clean."))
		return
	}

	rows := make([][]string, len(attention))
	for i, e := range attention {
		reasons := make([]string, len(e.Reasons))
		for j, m := range e.Reasons {
			reasons[j] = m.Name
		}
		rows[i] = []string{fmt.Sprint(e.ID), e.Name, strings.Join(reasons, ", ")}
	}
	l.Println(styles.WarningStyle.Render(fmt.Sprintf("%d repositories need attention:", len(attention))))
	l.Printf("%s", static.RenderTable([]string{"ID", "NAME", "REASONS"}, rows))
}

func copyPath(ctx context.Context, path string, enabled bool) {
	if !enabled {
		return
	}
	if err := clipboard.WriteAll(path); err != nil {
		log.FromContext(ctx).Warnf("failed to copy to clipboard: %v", err)
	}
}
