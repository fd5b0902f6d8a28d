package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/doctor"
	"github.com/raphi011/mgit/internal/output"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose registry and history issues",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose the registry and the report history.

Checks:
- The git executable recorded at setup still works
- Registered repositories exist and are git repositories
- No path is registered twice
- Reports in the history still exist

Registry issues are repaired by 'mgit setup --force'. With --fix,
deleted reports are dropped from the history.`,
		Example: `  mgit doctor          # Check for issues
  mgit doctor --fix    # Prune stale history entries`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			reg, err := openRegistry(ctx)
			if err != nil {
				return err
			}

			res, err := doctor.Run(ctx, out.Writer(), reg, cfg.HistoryPath(), fix)
			if err != nil {
				return err
			}
			if remaining := len(res.Issues) - res.Fixed; remaining > 0 {
				return fmt.Errorf("%d issues found", remaining)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Prune stale history entries")

	return cmd
}
