// Package static renders the non-interactive tables mgit prints: the
// registry listing, repositories needing attention and report history.
package static

import (
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// TableOption customizes [RenderTable].
type TableOption func(*tableOptions)

type tableOptions struct {
	rowStyle func(row int) lipgloss.Style
}

// WithRowStyle styles whole data rows, e.g. to highlight repositories
// needing attention. row is the index into rows.
func WithRowStyle(fn func(row int) lipgloss.Style) TableOption {
	return func(o *tableOptions) { o.rowStyle = fn }
}

// RenderTable lays out rows under headers without borders. Columns holding
// only integers (ids, counts) are right-aligned. Returns "" for no rows.
func RenderTable(headers []string, rows [][]string, opts ...TableOption) string {
	if len(rows) == 0 {
		return ""
	}

	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}
	numeric := numericColumns(len(headers), rows)

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle()
			switch {
			case row == table.HeaderRow:
				s = s.Bold(true)
			case o.rowStyle != nil:
				s = o.rowStyle(row)
			}
			if col < len(numeric) && numeric[col] {
				s = s.Align(lipgloss.Right)
			}
			return s.PaddingRight(2)
		})

	return t.String() + "\n"
}

// numericColumns reports for each column whether every cell parses as an
// integer.
func numericColumns(n int, rows [][]string) []bool {
	numeric := make([]bool, n)
	for col := range numeric {
		numeric[col] = true
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			if _, err := strconv.Atoi(row[col]); err != nil {
				numeric[col] = false
				break
			}
		}
	}
	return numeric
}
