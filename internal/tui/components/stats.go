package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// SummaryPanel renders the dashboard's balance cards and top categories.
type SummaryPanel struct {
	theme   themes.Theme
	summary *model.DashboardSummary
	balance *model.ShowBalance
	width   int
	compact bool
}

// NewSummaryPanel creates an empty summary panel.
func NewSummaryPanel(theme themes.Theme) SummaryPanel {
	return SummaryPanel{theme: theme}
}

// SetSummary replaces the aggregates shown. A fresh summary drops any
// balance figures pushed by the assistant.
func (p *SummaryPanel) SetSummary(s *model.DashboardSummary) {
	p.summary = s
	p.balance = nil
}

// ShowBalance overrides the balance cards until the next summary arrives.
func (p *SummaryPanel) ShowBalance(b model.ShowBalance) {
	p.balance = &b
}

// SetCompact sets compact mode.
func (p *SummaryPanel) SetCompact(compact bool) {
	p.compact = compact
}

// Resize updates the component width.
func (p *SummaryPanel) Resize(width int) {
	p.width = width
}

type card struct {
	trend   *float64
	label   string
	value   decimal.Decimal
	percent bool
	inverse bool
}

func (p SummaryPanel) cards() []card {
	s := p.summary
	if s == nil {
		s = &model.DashboardSummary{}
	}
	saldo, receitas, despesas := s.Saldo, s.Receitas, s.Despesas
	if p.balance != nil {
		saldo, receitas, despesas = p.balance.Saldo, p.balance.Receitas, p.balance.Despesas
	}
	return []card{
		{label: "Saldo", value: saldo, trend: s.Trends.Saldo},
		{label: "Receitas", value: receitas, trend: s.Trends.Receitas},
		{label: "Despesas", value: despesas, trend: s.Trends.Despesas, inverse: true},
		{label: "Economia", value: s.Economia, trend: s.Trends.Economia, percent: true},
	}
}

// View renders the panel.
func (p SummaryPanel) View() string {
	if p.compact {
		return p.renderCompact()
	}
	return p.renderFull()
}

func (p SummaryPanel) renderCompact() string {
	parts := make([]string, 0, 4)
	for _, c := range p.cards() {
		parts = append(parts, fmt.Sprintf("%s: %s", c.label, p.value(c)))
	}
	return p.theme.Box.Render(strings.Join(parts, " | "))
}

func (p SummaryPanel) renderFull() string {
	cards := p.cards()
	width := max((p.width-len(cards)*4)/len(cards), 16)

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		body := lipgloss.JoinVertical(
			lipgloss.Left,
			p.theme.Subtitle.Render(c.label),
			p.value(c),
			p.trend(c),
		)
		rendered = append(rendered, p.theme.Card.Width(width).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (p SummaryPanel) value(c card) string {
	if c.percent {
		return p.theme.Bold.Render(c.value.StringFixed(1) + "%")
	}
	return p.theme.Signed(model.FormatBRL(c.value), c.value.IsNegative())
}

// trend renders a month-over-month delta. For expenses a rise is bad news.
func (p SummaryPanel) trend(c card) string {
	muted := lipgloss.NewStyle().Foreground(p.theme.Muted)
	if c.trend == nil {
		return muted.Render("— sem base")
	}
	v := *c.trend
	arrow := "▲"
	if v < 0 {
		arrow = "▼"
	}
	text := fmt.Sprintf("%s %.1f%%", arrow, v)
	if v == 0 {
		return muted.Render(text)
	}
	return p.theme.Signed(text, (v < 0) != c.inverse)
}

// CategoryBreakdown renders the top n expense categories with relative bars.
func CategoryBreakdown(cats []model.CategoryTotal, n int, theme themes.Theme) string {
	title := theme.Subtitle.Render("Maiores Despesas")
	if len(cats) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title,
			lipgloss.NewStyle().Foreground(theme.Muted).Render("Nenhuma despesa neste mês."))
	}

	top := cats[:min(n, len(cats))]
	maxTotal := top[0].Total
	for _, c := range top {
		if c.Total.GreaterThan(maxTotal) {
			maxTotal = c.Total
		}
	}

	lines := make([]string, 0, len(top))
	for _, c := range top {
		barLen := 0
		if maxTotal.IsPositive() {
			barLen = int(c.Total.Div(maxTotal).Mul(decimal.NewFromInt(15)).IntPart())
		}
		lines = append(lines, fmt.Sprintf("%s %-14s %s %s",
			themes.GetCategoryIcon(c.Categoria),
			truncate(c.Categoria, 14),
			lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Repeat("█", barLen)),
			model.FormatBRL(c.Total),
		))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		theme.Normal.Render(strings.Join(lines, "\n")),
	)
}

// Bar renders a plain progress bar of width cells followed by the percentage.
// It carries no styling so table cells keep their width.
func Bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %3.0f%%", percent)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
