// Package cli renders khata's terminal output: styled messages, amounts,
// tables, prompts and progress.
package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Palette.
var (
	turmeric = lipgloss.Color("#E9A23B")
	leaf     = lipgloss.Color("#6BCB77")
	chilli   = lipgloss.Color("#E4572E")
	mango    = lipgloss.Color("#F3C969")
	sky      = lipgloss.Color("#7FC8F8")
	ash      = lipgloss.Color("#7A7A7A")
	slate    = lipgloss.Color("#3A3A3A")
)

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(turmeric)

	// SubtitleStyle is used for empty states and secondary headings.
	SubtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(ash)

	// SubtleStyle dims hints and counts.
	SubtleStyle = lipgloss.NewStyle().Foreground(ash)

	SuccessStyle = lipgloss.NewStyle().Foreground(leaf)
	WarningStyle = lipgloss.NewStyle().Foreground(mango)
	ErrorStyle   = lipgloss.NewStyle().Foreground(chilli)
	InfoStyle    = lipgloss.NewStyle().Foreground(sky)

	// IncomeStyle and ExpenseStyle color money by direction.
	IncomeStyle  = lipgloss.NewStyle().Foreground(leaf)
	ExpenseStyle = lipgloss.NewStyle().Foreground(chilli)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(slate).
			Padding(0, 2)

	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(turmeric)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	LedgerIcon  = "📒"
	ChartIcon   = "📊"
	FarmIcon    = "🌾"
	NoteIcon    = "📝"
)

func badge(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string { return badge(SuccessStyle, SuccessIcon, message) }

// FormatError formats an error message with icon.
func FormatError(message string) string { return badge(ErrorStyle, ErrorIcon, message) }

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string { return badge(WarningStyle, WarningIcon, message) }

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string { return badge(InfoStyle, InfoIcon, message) }

// FormatTitle formats a title with the ledger icon.
func FormatTitle(title string) string { return badge(TitleStyle, LedgerIcon, title) }

// FormatPrompt formats a question asked on the terminal.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// FormatAmount renders an amount with two decimals behind the currency symbol.
func FormatAmount(symbol string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + symbol + amount.Abs().StringFixed(2)
	}
	return symbol + amount.StringFixed(2)
}

// renderCard draws content under a title in a rounded border.
func renderCard(title, content string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}
