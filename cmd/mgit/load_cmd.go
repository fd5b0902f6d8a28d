package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/output"
)

func newLoadCmd() *cobra.Command {
	var (
		copyToClipboard bool
		pathOnly        bool
	)

	cmd := &cobra.Command{
		Use:               "load <id|name>",
		Short:             "Show one registered repository",
		Aliases:           []string{"get"},
		GroupID:           GroupRegistry,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRepoTokens,
		Long: `Resolve an ID or name to a registered repository.

Numeric arguments are always treated as IDs. When several repositories
share a name, use the ID (or pick one from the prompt on a terminal).`,
		Example: `  mgit load 3            # By ID
  mgit load api          # By name
  cd "$(mgit load -p api)"
  mgit load api --copy   # Copy the path to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			reg, err := openRegistry(ctx)
			if err != nil {
				return err
			}
			rec, err := resolveOne(reg, args[0])
			if err != nil {
				return err
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(rec.Path); err != nil {
					log.FromContext(ctx).Warnf("failed to copy to clipboard: %v", err)
				}
			}

			if pathOnly {
				out.Println(rec.Path)
				return nil
			}
			out.Printf("%s: %s\n", rec.Name, rec.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the repository path to the clipboard")
	cmd.Flags().BoolVarP(&pathOnly, "path", "p", false, "Print only the path")

	return cmd
}
