package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/git"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/output"
	"github.com/raphi011/mgit/internal/registry"
	"github.com/raphi011/mgit/internal/ui/static"
	"github.com/raphi011/mgit/internal/ui/styles"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List registered repositories",
		Aliases: []string{"ls"},
		GroupID: GroupRegistry,
		Args:    cobra.NoArgs,
		Long: `List registered repositories ordered by ID.

Repositories whose directory no longer exists are dimmed; run
'mgit setup' again to pick up moved repositories.`,
		Example: `  mgit list          # Table of ID, NAME and PATH
  mgit list --json   # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			reg, err := openRegistry(ctx)
			if err != nil {
				return err
			}
			records := reg.List()

			if jsonOutput {
				if records == nil {
					records = []registry.Record{}
				}
				return out.JSON(records)
			}

			if len(records) == 0 {
				l.Println("No repositories registered")
				return nil
			}

			rows := make([][]string, len(records))
			moved := make([]bool, len(records))
			for i, rec := range records {
				rows[i] = []string{fmt.Sprint(rec.ID), rec.Name, rec.Path}
				moved[i] = !git.IsRepo(rec.Path)
			}

			out.Print(static.RenderTable([]string{"ID", "NAME", "PATH"}, rows,
				static.WithRowStyle(func(row int) lipgloss.Style {
					if row >= 0 && row < len(moved) && moved[row] {
						return styles.MutedStyle
					}
					return lipgloss.NewStyle()
				}),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
