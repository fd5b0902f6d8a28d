package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage mgit configuration.

Config file: ~/.config/mgit/config.toml (override with MGIT_CONFIG)
State directory: ~/.mgit (override with MGIT_HOME or config home)`,
		Example: `  mgit config init     # Create default config
  mgit config show     # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  mgit config init      # Create config
  mgit config init -f   # Overwrite existing config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Init(force)
			if err != nil {
				if !force {
					return fmt.Errorf("%w (use -f to overwrite)", err)
				}
				return err
			}
			log.FromContext(cmd.Context()).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Example: `  mgit config show          # Show config
  mgit config show --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			if jsonOutput {
				return out.JSON(cfg)
			}

			path, _ := config.Path()
			out.Printf("config file: %s\n", path)
			out.Printf("home: %s\n", cfg.Home)
			out.Printf("registry: %s\n", cfg.RegistryDir())
			out.Printf("report_dir: %s\n", cfg.ReportDir)
			out.Printf("git_path: %s\n", cfg.GitPath)
			out.Printf("commit_message: %s\n", cfg.CommitMessage)
			out.Printf("jobs: %d\n", cfg.Jobs)
			out.Printf("log_file: %s\n", cfg.LogFile)
			out.Printf("theme: %s\n", cfg.Theme)
			out.Printf("scan.recursive: %v\n", cfg.Scan.Recursive)
			out.Printf("scan.exclude_prefixes: %v\n", cfg.Scan.ExcludePrefixes)
			out.Printf("scan.rules: %v\n", cfg.Scan.Rules)

			names := make([]string, 0, len(cfg.Hooks.Hooks))
			for name := range cfg.Hooks.Hooks {
				names = append(names, name)
			}
			slices.Sort(names)
			out.Printf("hooks: %d configured\n", len(names))
			for _, name := range names {
				hook := cfg.Hooks.Hooks[name]
				out.Printf("  %s: %s (on: %v)\n", name, hook.Command, hook.On)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
