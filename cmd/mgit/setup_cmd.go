package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/git"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/output"
	"github.com/raphi011/mgit/internal/registry"
	"github.com/raphi011/mgit/internal/ui/progress"
	"github.com/raphi011/mgit/internal/ui/prompt"
)

// setupOptions holds the flags of "mgit setup".
type setupOptions struct {
	master    string
	simple    []string
	rules     []string
	gitPath   string
	reportDir string
	recursive bool
	force     bool
}

func newSetupCmd() *cobra.Command {
	var opts setupOptions

	cmd := &cobra.Command{
		Use:     "setup",
		Short:   "Register repositories",
		Aliases: []string{"init"},
		GroupID: GroupRegistry,
		Args:    cobra.NoArgs,
		Long: `Build the repository registry.

Every git repository directly below the master directory (-m) is
registered, followed by the repositories given with -s. IDs are assigned
in that order starting at 1. Running setup again discards the previous
registry and its IDs.

Directories whose name starts with an exclude prefix (config
scan.exclude_prefixes) and paths containing a rule (-r, config scan.rules)
are skipped.`,
		Example: `  mgit setup -m ~/code                     # Register repos below ~/code
  mgit setup -m ~/code --recursive         # Search the whole tree
  mgit setup -m ~/code -s ~/dotfiles       # Add a repo outside ~/code
  mgit setup -m ~/code -r archive -r tmp   # Skip paths containing these
  mgit setup -m ~/code -t ~/reports        # Write status reports there
  mgit setup -m ~/code -g /opt/git/bin     # Use a specific git`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.master, "master", "m", "", "Directory whose repositories are registered")
	cmd.Flags().StringSliceVarP(&opts.simple, "simple", "s", nil, "Repository to register explicitly (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.rules, "rule", "r", nil, "Skip paths containing this text (repeatable)")
	cmd.Flags().StringVarP(&opts.gitPath, "git", "g", "", "Git executable or the directory holding it")
	cmd.Flags().StringVarP(&opts.reportDir, "report-dir", "t", "", "Directory for status reports")
	cmd.Flags().BoolVar(&opts.recursive, "recursive", false, "Search the whole tree below the master directory")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Replace an existing registry without asking")

	cmd.MarkFlagDirname("master")
	cmd.MarkFlagDirname("simple")
	cmd.MarkFlagDirname("report-dir")

	return cmd
}

func runSetup(ctx context.Context, opts setupOptions) error {
	cfg := config.FromContext(ctx)
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	if opts.master == "" && len(opts.simple) == 0 {
		return errors.New("nothing to register: pass a master directory (-m) or repositories (-s)")
	}

	dir := cfg.RegistryDir()
	lock, err := registry.Lock(dir)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if registry.Exists(dir) && !opts.force {
		if !interactive() {
			return fmt.Errorf("a registry already exists in %s (use --force to replace it)", dir)
		}
		res, err := prompt.Confirm("A registry already exists. Regenerate it?", dir)
		if err != nil {
			return err
		}
		if !res.Confirmed {
			l.Println("Keeping the existing registry.")
			return nil
		}
	}

	gitPath := opts.gitPath
	if gitPath == "" {
		gitPath = cfg.GitPath
	}
	exe, err := git.Resolve(ctx, gitPath)
	switch {
	case errors.Is(err, git.ErrGitNotFound):
		l.Warnf("%v", err)
	case err != nil:
		return err
	default:
		l.Debug("git resolved", "git", exe.String())
	}

	reportDir, err := setupReportDir(cfg, opts.reportDir)
	if err != nil {
		return err
	}

	var scanned []string
	if opts.master != "" {
		scanned, err = scanMaster(ctx, cfg, opts)
		if err != nil {
			return err
		}
	}

	simple := git.FilterRepos(opts.simple, func(path, reason string) {
		l.Warnf("skipping %s: %s", path, reason)
	})

	reg, existed, err := registry.Create(dir)
	if err != nil {
		return err
	}
	if existed {
		l.Debug("replaced existing registry", "dir", dir)
	}
	reg.GitPath = exe.Path
	reg.ReportDir = reportDir

	added := reg.Register(scanned...)
	added = append(added, reg.Register(simple...)...)

	if err := reg.Save(); err != nil {
		return err
	}

	for _, rec := range added {
		l.Debug("registered", "id", rec.ID, "name", rec.Name, "path", rec.Path)
	}
	out.Printf("Registered %d repositories\n", len(added))
	return nil
}

// scanMaster lists the repositories below the master directory.
func scanMaster(ctx context.Context, cfg *config.Config, opts setupOptions) ([]string, error) {
	scanOpts := git.ScanOptions{
		Recursive:       opts.recursive || cfg.Scan.Recursive,
		ExcludePrefixes: cfg.Scan.ExcludePrefixes,
		Rules:           append(append([]string(nil), cfg.Scan.Rules...), opts.rules...),
	}

	if showProgress() {
		sp := progress.NewSpinner(os.Stderr, "Scanning "+opts.master)
		sp.Start()
		defer sp.Stop()
	}

	paths, err := git.Scan(ctx, opts.master, scanOpts)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", opts.master, err)
	}
	return paths, nil
}

// setupReportDir picks the report directory: the flag, then config, then
// <home>/reports. The directory itself is created when the first report
// is written.
func setupReportDir(cfg *config.Config, flag string) (string, error) {
	dir := flag
	if dir == "" {
		dir = cfg.ReportDir
	}
	if dir == "" {
		dir = filepath.Join(cfg.Home, "reports")
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
