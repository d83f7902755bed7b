// Package themes holds the color schemes of the history browser.
package themes

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the set of styles the browser draws with.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Header        lipgloss.Style
	Selected      lipgloss.Style
	FilterActive  lipgloss.Style
	FilterIdle    lipgloss.Style
	Income        lipgloss.Style
	Expense       lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
}

// palette names the handful of colors a theme is derived from.
type palette struct {
	accent, muted, rule, onAccent lipgloss.Color
	gain, loss, caution           lipgloss.Color
}

func (p palette) theme() Theme {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return Theme{
		Title:    fg(p.accent).Bold(true),
		Subtitle: fg(p.muted),
		Header: lipgloss.NewStyle().Bold(true).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(p.rule),
		Selected:      lipgloss.NewStyle().Background(p.accent).Foreground(p.onAccent).Bold(true),
		FilterActive:  fg(p.accent).Bold(true),
		FilterIdle:    fg(p.muted),
		Income:        fg(p.gain),
		Expense:       fg(p.loss),
		StatusError:   fg(p.loss).Bold(true),
		StatusWarning: fg(p.caution).Bold(true),
		StatusSuccess: fg(p.gain).Bold(true),
	}
}

var (
	// Default uses khata's turmeric accent on a neutral grey.
	Default = palette{
		accent: "#E9A23B", muted: "#737373", rule: "#404040", onAccent: "#1A1A1A",
		gain: "#10B981", loss: "#EF4444", caution: "#F59E0B",
	}.theme()

	// CatppuccinMocha follows the Catppuccin Mocha palette.
	CatppuccinMocha = palette{
		accent: "#CBA6F7", muted: "#6C7086", rule: "#45475A", onAccent: "#1E1E2E",
		gain: "#A6E3A1", loss: "#F38BA8", caution: "#F9E2AF",
	}.theme()

	// Monochrome relies on weight alone, for terminals with poor color.
	Monochrome = palette{
		accent: "15", muted: "8", rule: "8", onAccent: "0",
		gain: "15", loss: "7", caution: "15",
	}.theme()
)

var registry = map[string]Theme{
	"default":          Default,
	"catppuccin":       CatppuccinMocha,
	"catppuccin-mocha": CatppuccinMocha,
	"mono":             Monochrome,
}

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	if t, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return Default
}

// Names lists the accepted theme names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
