package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/raphi011/mgit/internal/config"
	"github.com/raphi011/mgit/internal/history"
	"github.com/raphi011/mgit/internal/log"
	"github.com/raphi011/mgit/internal/output"
	"github.com/raphi011/mgit/internal/ui/static"
	"github.com/raphi011/mgit/internal/ui/styles"
)

func newHistoryCmd() *cobra.Command {
	var (
		jsonOutput bool
		prune      bool
	)

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "List written status reports",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `List the status reports written by 'mgit status', newest first.

Reports deleted from disk are dropped with --prune.`,
		Example: `  mgit history           # Table of reports
  mgit history --prune   # Forget deleted reports
  mgit history --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			h, err := history.Load(cfg.HistoryPath())
			if err != nil {
				return err
			}

			if prune {
				if n := h.RemoveStale(); n > 0 {
					if err := h.Save(cfg.HistoryPath()); err != nil {
						return err
					}
					l.Printf("Removed %d stale entries\n", n)
				}
			}

			if jsonOutput {
				entries := h.Entries
				if entries == nil {
					entries = []history.Entry{}
				}
				return out.JSON(entries)
			}

			if len(h.Entries) == 0 {
				l.Println("No status reports yet")
				return nil
			}

			rows := make([][]string, len(h.Entries))
			for i, e := range h.Entries {
				rows[i] = []string{
					e.Time.Format("2006-01-02 15:04"),
					fmt.Sprint(e.Total),
					fmt.Sprint(e.Attention),
					e.Path,
				}
			}
			out.Print(static.RenderTable([]string{"TIME", "REPOS", "ATTENTION", "PATH"}, rows,
				static.WithRowStyle(func(row int) lipgloss.Style {
					if row >= 0 && row < len(h.Entries) && h.Entries[row].Attention > 0 {
						return styles.WarningStyle
					}
					return lipgloss.NewStyle()
				}),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&prune, "prune", false, "Drop entries whose report no longer exists")

	return cmd
}
