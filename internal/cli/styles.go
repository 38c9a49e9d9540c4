// Package cli provides styled terminal output and prompts for the finan
// commands.
package cli

import (
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Palette shared with the dashboard's default theme: green for income and
// success, red for expenses and errors.
var (
	green  = lipgloss.Color("#2ECC71")
	teal   = lipgloss.Color("#4ECDC4")
	yellow = lipgloss.Color("#FFE66D")
	red    = lipgloss.Color("#FF6B6B")
	mint   = lipgloss.Color("#95E1D3")
	gray   = lipgloss.Color("#666666")
)

// Message styles used directly by commands that build their own lines.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(teal)
	WarningStyle = lipgloss.NewStyle().Foreground(yellow)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	InfoStyle    = lipgloss.NewStyle().Foreground(mint)
	SubtleStyle  = lipgloss.NewStyle().Foreground(gray)
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(green)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(green)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)
)

// Icons.
const (
	SuccessIcon = "✓"
	MoneyIcon   = "💰"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
	GoalIcon    = "🎯"

	errorIcon   = "✗"
	warningIcon = "⚠️"
	infoIcon    = "ℹ️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(errorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(warningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(infoIcon + " " + message)
}

// FormatTitle renders a command heading, followed by a blank line.
func FormatTitle(title string) string {
	return titleStyle.MarginBottom(1).Render(MoneyIcon + " " + title)
}

// FormatPrompt formats a prompt label.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// FormatSigned renders an amount green when it adds to the balance and red
// when it subtracts.
func FormatSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return ErrorStyle.Render(model.FormatBRL(d))
	}
	return SuccessStyle.Render(model.FormatBRL(d))
}

// RenderBox frames content under a bold title, as summary and ask print it.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content))
}
