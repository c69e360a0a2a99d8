// Package themes holds the color schemes of the interactive dashboard.
package themes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Selected    lipgloss.Style
	RoundedBox  lipgloss.Style
	MetricValue lipgloss.Style
	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style
	Help        lipgloss.Style
	Primary     lipgloss.Color
	Border      lipgloss.Color
	Muted       lipgloss.Color
}

func newTheme(primary, foreground, subtle, border, muted, errColor, info, selectedFg lipgloss.Color) Theme {
	return Theme{
		Primary: primary,
		Border:  border,
		Muted:   muted,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(subtle),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(selectedFg).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 2),
		MetricValue: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(muted),
	}
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#2E86AB"), // primary
	lipgloss.Color("#fafafa"), // foreground
	lipgloss.Color("#a3a3a3"), // subtitle
	lipgloss.Color("#404040"), // border
	lipgloss.Color("#737373"), // muted
	lipgloss.Color("#ef4444"), // error
	lipgloss.Color("#3b82f6"), // info
	lipgloss.Color("#fafafa"), // selected text
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#a6adc8"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#89dceb"),
	lipgloss.Color("#1e1e2e"),
)

var byName = map[string]Theme{
	"default":    Default,
	"catppuccin": CatppuccinMocha,
}

// ByName looks up a theme; an empty name is the default theme.
func ByName(name string) (Theme, error) {
	if name == "" {
		return Default, nil
	}
	theme, ok := byName[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return theme, nil
}

// Names lists the available themes.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
