package components

import (
	"strings"

	"github.com/Veraticus/finanmaster/internal/assistant"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// InsightCard is a note pinned to the insights panel by an assistant
// directive.
type InsightCard struct {
	Title string
	Lines []string
	Tone  Tone
}

// Tone colors an insight card.
type Tone int

// Tones.
const (
	TonePositive Tone = iota
	ToneWarning
)

// CategoryAnalysisCard describes the category the assistant singled out.
func CategoryAnalysisCard(d model.ShowCategoryAnalysis) InsightCard {
	return InsightCard{
		Title: "📊 Análise de Categoria",
		Lines: []string{
			"Maior gasto: " + d.Categoria,
			"Valor: " + model.FormatBRL(d.Valor),
		},
		Tone: ToneWarning,
	}
}

// GoalSuggestionCard lists the goals the assistant recommends creating.
func GoalSuggestionCard() InsightCard {
	return InsightCard{
		Title: "🎯 Sugestão de Metas",
		Lines: []string{
			"Considere criar metas financeiras para:",
			"  • Reserva de emergência",
			"  • Viagem dos sonhos",
			"  • Entrada de imóvel",
		},
		Tone: TonePositive,
	}
}

// InsightsPanel renders the quick insights followed by any pinned cards.
func InsightsPanel(in assistant.Insights, cards []InsightCard, theme themes.Theme, width int) string {
	sections := []string{theme.Subtitle.Render("💡 Insights Rápidos")}

	if in.Empty() && len(cards) == 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Muted).Render(assistant.NoInsightsMessage))
	}
	for _, s := range in.Insights {
		sections = append(sections, theme.Normal.Render("• "+s))
	}
	for _, s := range in.Recommendations {
		sections = append(sections, theme.StatusInfo.Render("→ "+s))
	}

	for _, c := range cards {
		border := theme.Success
		if c.Tone == ToneWarning {
			border = theme.Warning
		}
		body := lipgloss.JoinVertical(lipgloss.Left, theme.Bold.Render(c.Title), strings.Join(c.Lines, "\n"))
		sections = append(sections, theme.Card.
			BorderForeground(border).
			Width(max(width-4, 20)).
			Render(body))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
