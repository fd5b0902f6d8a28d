package static

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := RenderTable(
		[]string{"ID", "NAME", "PATH"},
		[][]string{
			{"1", "api", "/src/api"},
			{"12", "frontend", "/src/frontend"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), out)
	}
	for i, want := range []string{"ID", "1", "12"} {
		if !strings.HasPrefix(strings.TrimSpace(lines[i]), want) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], want)
		}
	}

	// Ids are right-aligned: single digit ids are indented.
	if !strings.HasPrefix(lines[1], " 1") {
		t.Errorf("id column not right-aligned: %q", lines[1])
	}

	// Columns are aligned: NAME starts at the same offset in every line.
	col := strings.Index(lines[0], "NAME")
	if strings.Index(lines[1], "api") != col || strings.Index(lines[2], "frontend") != col {
		t.Errorf("columns not aligned:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	t.Parallel()

	if out := RenderTable([]string{"ID"}, nil); out != "" {
		t.Errorf("RenderTable() with no rows = %q, want empty", out)
	}
}

func TestRenderTable_RowStyle(t *testing.T) {
	t.Parallel()

	var styled []int
	out := RenderTable(
		[]string{"NAME", "STATE"},
		[][]string{{"api", "clean"}, {"web", "attention"}},
		WithRowStyle(func(row int) lipgloss.Style {
			styled = append(styled, row)
			return lipgloss.NewStyle()
		}),
	)
	if !strings.Contains(out, "attention") {
		t.Errorf("output = %q", out)
	}
	if len(styled) == 0 {
		t.Error("row style function was not used")
	}
	for _, row := range styled {
		if row < 0 || row > 1 {
			t.Errorf("row style called with row %d", row)
		}
	}
}

func TestNumericColumns(t *testing.T) {
	t.Parallel()

	got := numericColumns(3, [][]string{
		{"1", "api", "0"},
		{"12", "7", "3"},
		{"3"},
	})
	want := []bool{true, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d numeric = %v, want %v", i, got[i], want[i])
		}
	}
}
