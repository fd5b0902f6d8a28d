// Package styles provides shared lipgloss styles for UI components.
//
// This package centralizes color definitions and styling to ensure
// visual consistency across the static, progress and prompt packages.
package styles

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary color.Color // main accent color (titles, progress)
	Accent  color.Color // highlight color (selected items)
	Success color.Color // clean repositories
	Error   color.Color // failures
	Muted   color.Color // skipped/inactive text
	Warning color.Color // repositories needing attention
}

var (
	// DefaultTheme is the default color scheme
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),  // cyan/teal
		Accent:  lipgloss.Color("212"), // pink/magenta
		Success: lipgloss.Color("82"),  // green
		Error:   lipgloss.Color("196"), // red
		Muted:   lipgloss.Color("240"), // dark gray
		Warning: lipgloss.Color("214"), // orange
	}

	// NoneTheme renders without any colors (uses terminal defaults).
	// Formatting (bold/italic) is preserved.
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
	}
)

// themes maps config names to presets.
var themes = map[string]*Theme{
	"default": &DefaultTheme,
	"none":    &NoneTheme,
}

// ThemeNames returns the valid theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Palette entries of the active theme
var (
	Primary color.Color
	Accent  color.Color
	Success color.Color
	Error   color.Color
	Muted   color.Color
	Warning color.Color
)

// Common styles, rebuilt by [Init]
var (
	// Bold applies bold formatting
	Bold = lipgloss.NewStyle().Bold(true)

	// PrimaryStyle applies the primary color with bold
	PrimaryStyle lipgloss.Style

	// AccentStyle applies the accent color with bold
	AccentStyle lipgloss.Style

	// SuccessStyle applies the success color
	SuccessStyle lipgloss.Style

	// ErrorStyle applies the error color
	ErrorStyle lipgloss.Style

	// MutedStyle applies the muted color
	MutedStyle lipgloss.Style

	// WarningStyle applies the warning color with bold
	WarningStyle lipgloss.Style
)

func init() {
	apply(DefaultTheme)
}

// Init activates the named theme. An empty name selects "default".
func Init(name string) error {
	if name == "" {
		name = "default"
	}
	theme, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	apply(*theme)
	return nil
}

func apply(t Theme) {
	Primary, Accent, Success, Error, Muted, Warning = t.Primary, t.Accent, t.Success, t.Error, t.Muted, t.Warning

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	AccentStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(Error)
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning).Bold(true)
}
