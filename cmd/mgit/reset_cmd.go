package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/batch"
	"github.com/raphi011/mgit/internal/registry"
)

func newResetCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:               "reset <id|name>",
		Short:             "Undo commits in one repository",
		GroupID:           GroupRepo,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFirstRepoToken,
		Long: `Move HEAD of one repository back by N commits ("git reset HEAD~N").
The changes of those commits stay in the working tree.`,
		Example: `  mgit reset api        # Undo the last commit
  mgit reset api -n 3   # Undo the last three commits`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd.Context(), args[0], func(registry.Record) (batch.Op, error) {
				return batch.Reset(count), nil
			})
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of commits to undo")

	return cmd
}
