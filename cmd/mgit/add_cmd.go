package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/batch"
	"github.com/raphi011/mgit/internal/registry"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "add <id|name> [pathspec]...",
		Short:             "Stage changes in one repository",
		GroupID:           GroupRepo,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeFirstRepoToken,
		Long: `Run "git add" in one repository. Without a pathspec everything
is staged.`,
		Example: `  mgit add api                # Stage everything
  mgit add api docs/ README   # Stage selected paths`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pathspec := args[1:]
			return runSingle(cmd.Context(), args[0], func(registry.Record) (batch.Op, error) {
				return batch.Add(pathspec...), nil
			})
		},
	}

	return cmd
}
