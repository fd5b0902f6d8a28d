package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/output"
	"github.com/raphi011/mgit/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Persistent log sink, closed when Execute returns
	logFile *os.File
)

// Command group IDs for organizing help output
const (
	GroupRegistry = "registry"
	GroupBatch    = "batch"
	GroupRepo     = "repo"
	GroupConfig   = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mgit",
	Short: "Run git commands across many repositories",
	Long: `mgit keeps a registry of your git repositories and runs git
commands on all of them, or on a selection by id or name.

Run 'mgit setup -m DIR' once to register every repository below DIR,
then use 'mgit status' to write a report of what needs attention.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		ctx := cmd.Context()
		cfg := config.FromContext(ctx)

		// Flags are parsed now, so the logger can honor them
		logger := log.New(colorprofile.NewWriter(os.Stderr, os.Environ()), verbose, quiet)
		if f := openLogFile(cfg.LogFile); f != nil {
			logger.WithFile(f)
		}
		cmd.SetContext(log.WithLogger(ctx, logger))
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// openLogFile opens the persistent log for appending. Failures disable it.
func openLogFile(path string) *os.File {
	if path == "" || logFile != nil {
		return logFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	logFile = f
	return f
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := styles.Init(loadedCfg.Theme); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithConfig(ctx, &loadedCfg)

	// Add output printer (stdout for primary data), downsampled to what
	// the terminal supports
	ctx = output.WithPrinter(ctx, output.NewStdout())

	rootCmd.SetContext(ctx)

	err = rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'mgit -h' for help")
		cancel()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show git commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRegistry, Title: "Registry Commands:"},
		&cobra.Group{ID: GroupBatch, Title: "Batch Commands:"},
		&cobra.Group{ID: GroupRepo, Title: "Repository Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Registry commands
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newCleanupCmd())

	// Batch commands
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newHookCmd())

	// Repository commands
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newResetCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
