package themes

import (
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	ProgressBar   lipgloss.Style
	Selected      lipgloss.Style
	CategoryIcon  lipgloss.Style
	StatusPending lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Card          lipgloss.Style
	ActiveTab     lipgloss.Style
	Tab           lipgloss.Style
	Modal         lipgloss.Style
	Box           lipgloss.Style
	BorderedBox   lipgloss.Style
	Secondary     lipgloss.Color
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Background    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Default is the dashboard theme.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#10b981"),
	Secondary:  lipgloss.Color("#34d399"),
	Success:    lipgloss.Color("#10b981"),
	Warning:    lipgloss.Color("#f59e0b"),
	Error:      lipgloss.Color("#ef4444"),
	Info:       lipgloss.Color("#3b82f6"),
	Background: lipgloss.Color("#1a1a1a"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#10b981")).
		Foreground(lipgloss.Color("#1a1a1a")).
		Bold(true),

	// Navigation
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Padding(0, 2),
	ActiveTab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1a1a1a")).
		Background(lipgloss.Color("#10b981")).
		Bold(true).
		Padding(0, 2),

	// Component styles
	Box: lipgloss.NewStyle().
		Padding(0, 1),
	BorderedBox: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 2),
	Modal: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#10b981")).
		Padding(1, 3),
	ProgressBar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),

	// Status styles
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")).
		Bold(true),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),

	CategoryIcon: lipgloss.NewStyle().
		Width(3).
		Align(lipgloss.Center),
}

// GetTheme returns a theme by name. The dashboard ships a single theme, so
// ok is false for any name other than "default" or "".
func GetTheme(name string) (theme Theme, ok bool) {
	switch name {
	case "", "default":
		return Default, true
	default:
		return Default, false
	}
}

// Signed styles an amount green when non-negative and red otherwise.
func (t Theme) Signed(text string, negative bool) string {
	if negative {
		return t.StatusError.Render(text)
	}
	return t.StatusSuccess.Render(text)
}

// BudgetStatus styles text by how much of a budget line is used.
func (t Theme) BudgetStatus(status model.BudgetStatus, text string) string {
	switch status {
	case model.BudgetDanger:
		return t.StatusError.Render(text)
	case model.BudgetWarning:
		return t.StatusWarning.Render(text)
	default:
		return t.StatusSuccess.Render(text)
	}
}

// CategoryIcons maps categories to emoji icons.
var CategoryIcons = map[string]string{
	"Alimentação":  "🍽️",
	"Mercado":      "🛒",
	"Transporte":   "🚗",
	"Moradia":      "🏠",
	"Saúde":        "💊",
	"Educação":     "📚",
	"Lazer":        "🎬",
	"Compras":      "🛍️",
	"Contas":       "💡",
	"Viagem":       "✈️",
	"Salário":      "💼",
	"Investimento": "📈",
	"Importado":    "📥",
	"Outros":       "📦",
}

// GetCategoryIcon returns an icon for a category.
func GetCategoryIcon(category string) string {
	if icon, ok := CategoryIcons[category]; ok {
		return icon
	}
	return "📦"
}
