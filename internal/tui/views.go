package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finanmaster/internal/chart"
	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/Veraticus/finanmaster/internal/tui/components"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var sectionLabels = map[model.Section]string{
	model.SectionDashboard:    "Visão Geral",
	model.SectionTransactions: "Transações",
	model.SectionBudget:       "Orçamento",
	model.SectionGoals:        "Metas",
	model.SectionReports:      "Relatórios",
	model.SectionAssistant:    "Assistente",
}

var reportKindLabels = map[model.ReportType]string{
	model.ReportFinancial:     "Financeiro",
	model.ReportCategory:      "Por categoria",
	model.ReportTrends:        "Tendências",
	model.ReportQuickInsights: "Insights rápidos",
}

var reportPeriodLabels = map[model.ReportPeriod]string{
	model.PeriodCurrentMonth: "Mês atual",
	model.PeriodLast3Months:  "Últimos 3 meses",
	model.PeriodLast6Months:  "Últimos 6 meses",
}

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.authRequired {
		return m.renderLoginRequired()
	}
	if !m.ready {
		return m.renderLoading()
	}
	if m.mode == ModeHelp {
		return m.renderHelp()
	}

	body := m.renderSection()
	switch m.mode {
	case ModeForm:
		body = m.overlay(m.form.View())
	case ModeConfirm:
		body = m.overlay(m.renderConfirm())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabs(),
		m.renderBanner(),
		body,
		m.renderStatusBar(),
	)
}

// renderLoading renders the loading screen.
func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("FinanMaster"),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Carregando seus dados..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderLoginRequired() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("🔒 Sessão expirada"),
		m.theme.Normal.Render(common.Message(common.ErrAuthRequired)),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Execute 'finan login' e abra o painel novamente. q para sair."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.BorderedBox.Padding(1, 4).Render(content))
}

func (m Model) overlay(content string) string {
	return lipgloss.Place(m.width, max(m.height-4, 10), lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(model.Sections)+1)
	tabs = append(tabs, m.theme.Title.UnsetMarginBottom().Render("💰 FinanMaster "))
	for i, s := range model.Sections {
		label := fmt.Sprintf("%d %s", i+1, sectionLabels[s])
		if s == m.section {
			tabs = append(tabs, m.theme.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderBanner shows the last failure. Views keep their previous data.
func (m Model) renderBanner() string {
	if m.lastErr == nil {
		return ""
	}
	return m.theme.StatusError.Render("⚠ " + common.Message(m.lastErr))
}

func (m Model) renderSection() string {
	switch m.section {
	case model.SectionTransactions:
		return m.renderTransactions()
	case model.SectionBudget:
		return m.renderBudget()
	case model.SectionGoals:
		return m.renderGoals()
	case model.SectionReports:
		return m.renderReports()
	case model.SectionAssistant:
		return m.renderAssistant()
	default:
		return m.renderDashboard()
	}
}

// stale notes a collection whose last refresh failed.
func (m Model) stale(c store.Collection) string {
	st := m.store.State(c)
	if st.Err == nil {
		return ""
	}
	note := "Não foi possível atualizar: " + common.Message(st.Err)
	if st.Loaded() {
		note += fmt.Sprintf(" (dados de %s)", st.UpdatedAt.Format("15:04"))
	}
	return m.theme.StatusWarning.Render(note)
}

func (m Model) renderDashboard() string {
	summary := m.store.Summary()
	charts := m.sideBySide(m.charts.View(canvasCashFlow), m.charts.View(canvasCategories))

	var cats []model.CategoryTotal
	if summary != nil {
		cats = summary.CategoriasDespesas
	}
	bottomWidth := m.width/2 - 2
	bottom := m.sideBySide(
		m.theme.Box.Width(bottomWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				m.theme.Subtitle.Render("Maiores despesas"),
				components.CategoryBreakdown(cats, 5, m.theme),
			)),
		m.theme.Box.Width(bottomWidth).Render(
			components.InsightsPanel(m.insights, m.cards, m.theme, bottomWidth)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.stale(store.Summary),
		m.summary.View(),
		charts,
		bottom,
	)
}

// sideBySide joins two panels on wide terminals and stacks them otherwise.
func (m Model) sideBySide(left, right string) string {
	if m.width >= 110 {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, left, right)
}

func (m Model) renderTransactions() string {
	var filters []string
	if m.filter.Search != "" || m.mode == ModeFilter {
		filters = append(filters, m.filterInput.View())
	}
	if m.filter.Type != "" {
		filters = append(filters, "tipo: "+string(m.filter.Type))
	}
	if m.filter.Category != "" {
		filters = append(filters, "categoria: "+m.filter.Category)
	}
	header := m.theme.Subtitle.Render(fmt.Sprintf("%d transações", m.transactions.Len()))
	if len(filters) > 0 {
		header += "  " + lipgloss.NewStyle().Foreground(m.theme.Info).Render(strings.Join(filters, " • "))
	}

	list := lipgloss.JoinVertical(lipgloss.Left, header, m.transactions.View(), m.renderProgress(m.transactions.Progress()))
	if m.width >= 110 {
		list = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", m.detail.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.stale(store.Transactions), list)
}

// renderProgress shows how far a chunked table has rendered.
func (m Model) renderProgress(rendered, total int) string {
	if total == 0 || rendered >= total {
		return ""
	}
	return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(
		fmt.Sprintf("%s %d/%d", m.loadBar.ViewAs(float64(rendered)/float64(total)), rendered, total))
}

func (m Model) renderBudget() string {
	lines := m.store.Budget()
	budgeted, spent := decimal.Zero, decimal.Zero
	for _, l := range lines {
		budgeted = budgeted.Add(l.Budget)
		spent = spent.Add(l.Spent)
	}
	header := m.theme.Subtitle.Render(fmt.Sprintf("Orçado %s • Gasto %s",
		model.FormatBRL(budgeted), model.FormatBRL(spent)))

	var alerts []string
	for _, l := range lines {
		switch l.Status() {
		case model.BudgetDanger:
			alerts = append(alerts, m.theme.BudgetStatus(l.Status(), "⚠ "+l.Category+" passou de 90% do orçamento"))
		case model.BudgetWarning:
			alerts = append(alerts, m.theme.BudgetStatus(l.Status(), "• "+l.Category+" passou de 70% do orçamento"))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.stale(store.Budget),
		header,
		m.budget.View(),
		m.renderProgress(m.budget.Progress()),
		strings.Join(alerts, "\n"),
		m.charts.View(canvasBudget),
	)
}

func (m Model) renderGoals() string {
	goals := m.store.Goals()
	done := 0
	for _, g := range goals {
		if g.Completed() {
			done++
		}
	}
	header := m.theme.Subtitle.Render(fmt.Sprintf("%d de %d metas concluídas", done, len(goals)))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.stale(store.Goals),
		header,
		m.goals.View(),
		m.renderProgress(m.goals.Progress()),
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("n nova meta • p/enter atualizar progresso"),
	)
}

func (m Model) renderReports() string {
	rs := m.reports
	controls := fmt.Sprintf("Tipo (t): %s   Período (p): %s   Formato (f): %s   g gerar",
		reportKindLabels[rs.kind], reportPeriodLabels[rs.period], rs.format)
	parts := []string{
		m.theme.Subtitle.Render(controls),
		m.charts.View(canvasMonthly),
	}

	switch {
	case rs.loading:
		parts = append(parts, m.theme.StatusPending.Render("Gerando relatório..."))
	case rs.err != nil:
		parts = append(parts, m.theme.StatusError.Render("Erro ao gerar relatório: "+common.Message(rs.err)))
	case m.deps.Assistant == nil:
		parts = append(parts, lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Assistente não configurado."))
	case rs.report != nil:
		parts = append(parts, m.renderReport(rs.report))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderReport(r *model.Report) string {
	parts := []string{chart.ReportSummary(r.Data.Summary)}
	switch m.reports.format {
	case chart.FormatChart:
		parts = append(parts, m.sideBySide(
			m.charts.View(chart.CanvasReportMonthly),
			m.charts.View(chart.CanvasReportCategory)))
	case chart.FormatTable:
		parts = append(parts, chart.ReportTable(r.Data))
	}
	for _, s := range r.Insights {
		parts = append(parts, m.theme.Normal.Render("• "+s))
	}
	for _, s := range r.Recommendations {
		parts = append(parts, m.theme.StatusInfo.Render("→ "+s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderAssistant() string {
	if m.session == nil {
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Assistente não configurado.")
	}
	return m.chat.View()
}

func (m Model) renderConfirm() string {
	return m.theme.Modal.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Excluir transação"),
		m.theme.Normal.Render(fmt.Sprintf("Tem certeza que deseja excluir %q?", m.confirm.Description)),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("y/s confirmar • n/Esc cancelar"),
	))
}

// renderHelp renders the help screen.
func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Atalhos"),
		h.View(m.keymap),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("? ou Esc para fechar"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.BorderedBox.MaxHeight(m.height-2).Render(content))
}

// renderStatusBar renders the bottom status bar.
func (m Model) renderStatusBar() string {
	left := sectionLabels[m.section]
	switch m.mode {
	case ModeFilter:
		left += " • busca"
	case ModeForm:
		left += " • formulário"
	}

	center := m.flash
	if center == "" && m.chat.Thinking() {
		center = "Assistente pensando..."
	}

	right := m.help.ShortHelpView(m.keymap.ShortHelp())

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(center)-lipgloss.Width(right)-2, 2)
	leftPad := spacing / 2

	status := m.theme.StatusInfo.Render(left) +
		strings.Repeat(" ", leftPad) +
		m.theme.Normal.Render(center) +
		strings.Repeat(" ", spacing-leftPad) +
		right

	return lipgloss.NewStyle().
		Background(m.theme.Border).
		Width(m.width).
		MaxWidth(m.width).
		Render(status)
}
