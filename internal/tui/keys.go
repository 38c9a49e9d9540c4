package tui

import (
	"github.com/Veraticus/finanmaster/internal/chart"
	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/tui/components"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	reportKinds   = []model.ReportType{model.ReportFinancial, model.ReportCategory, model.ReportTrends, model.ReportQuickInsights}
	reportPeriods = []model.ReportPeriod{model.PeriodCurrentMonth, model.PeriodLast3Months, model.PeriodLast6Months}
	reportFormats = []chart.Format{chart.FormatChart, chart.FormatTable, chart.FormatSummary}
	filterTypes   = []model.TransactionType{"", model.TypeIncome, model.TypeExpense}
)

// next returns the element after cur in list, wrapping around.
func next[T comparable](list []T, cur T) T {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return tea.Quit
	}
	if m.authRequired {
		if key.Matches(msg, m.keymap.Quit) || msg.String() == "esc" {
			m.quitting = true
			return tea.Quit
		}
		return nil
	}

	switch m.mode {
	case ModeHelp:
		if key.Matches(msg, m.keymap.Help, m.keymap.Quit) || msg.String() == "esc" {
			m.mode = ModeBrowse
		}
		return nil
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeForm:
		return m.handleFormKey(msg)
	case ModeFilter:
		return m.handleFilterKey(msg)
	}

	// The chat input takes every printable key.
	if m.section == model.SectionAssistant {
		return m.handleChatKey(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.mode = ModeHelp
		return nil
	case key.Matches(msg, m.keymap.NextSection):
		return m.stepSection(1)
	case key.Matches(msg, m.keymap.PrevSection):
		return m.stepSection(-1)
	case key.Matches(msg, m.keymap.Refresh):
		return tea.Batch(m.reloadSection(), m.setFlash("Atualizando..."))
	}
	for i, b := range m.keymap.sectionKeys() {
		if key.Matches(msg, b) {
			return m.activateSection(model.Sections[i])
		}
	}

	switch m.section {
	case model.SectionDashboard:
		if key.Matches(msg, m.keymap.ChartType) {
			m.toggleChartKind()
		}
		if key.Matches(msg, m.keymap.New) {
			m.openCreate(mutation.KindTransaction, nil)
		}
		return nil
	case model.SectionTransactions:
		return m.handleTransactionsKey(msg)
	case model.SectionBudget:
		return m.handleBudgetKey(msg)
	case model.SectionGoals:
		return m.handleGoalsKey(msg)
	case model.SectionReports:
		return m.handleReportsKey(msg)
	}
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		req := *m.confirm
		m.confirm = nil
		m.mode = ModeBrowse
		return m.confirmDelete(req)
	case key.Matches(msg, m.keymap.Cancel):
		m.controller.CancelDelete()
		m.confirm = nil
		m.mode = ModeBrowse
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	// Cancel also binds "n", which is text inside a form.
	switch msg.String() {
	case "esc":
		m.closeForm()
		return nil
	case "enter":
		return m.submitForm()
	}
	return m.form.Update(msg)
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.filterInput.Reset()
		m.filter.Search = ""
		m.filterInput.Blur()
		m.mode = ModeBrowse
		return m.applyFilter()
	case "enter":
		m.filterInput.Blur()
		m.mode = ModeBrowse
		return nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if m.filterInput.Value() == m.filter.Search {
		return cmd
	}
	m.filter.Search = m.filterInput.Value()
	return tea.Batch(cmd, m.applyFilter())
}

func (m *Model) handleChatKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.NextSection):
		return m.stepSection(1)
	case key.Matches(msg, m.keymap.PrevSection):
		return m.stepSection(-1)
	case msg.String() == "esc":
		return m.activateSection(model.SectionDashboard)
	case msg.String() == "enter":
		if m.session == nil || m.chat.Thinking() {
			return nil
		}
		query := m.chat.Value()
		m.chat.Reset()
		m.chat.SetThinking(true)
		return m.ask(query)
	case m.chat.Value() == "" || m.chatCycling():
		switch msg.String() {
		case "up":
			m.chat.CycleQuick(-1)
			return nil
		case "down":
			m.chat.CycleQuick(1)
			return nil
		}
	}
	return m.chat.Update(msg)
}

// chatCycling reports whether the input still holds a quick question, so
// up and down keep cycling instead of editing.
func (m *Model) chatCycling() bool {
	v := m.chat.Value()
	for _, q := range components.QuickQuestions {
		if q == v {
			return true
		}
	}
	return false
}

func (m *Model) handleTransactionsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.New):
		m.openCreate(mutation.KindTransaction, nil)
		return nil
	case key.Matches(msg, m.keymap.Edit):
		id, ok := m.transactions.Selected()
		if !ok {
			return nil
		}
		if err := m.controller.OpenEditTransaction(id); err != nil {
			return m.setFlash(common.Message(err))
		}
		m.showForm(mutation.KindTransaction)
		return nil
	case key.Matches(msg, m.keymap.Delete):
		id, ok := m.transactions.Selected()
		if !ok {
			return nil
		}
		req, err := m.controller.RequestDelete(id)
		if err != nil {
			return m.setFlash(common.Message(err))
		}
		m.confirm = &req
		m.mode = ModeConfirm
		return nil
	case key.Matches(msg, m.keymap.Filter):
		m.mode = ModeFilter
		m.filterInput.SetValue(m.filter.Search)
		return m.filterInput.Focus()
	case key.Matches(msg, m.keymap.Type):
		m.filter.Type = next(filterTypes, m.filter.Type)
		return m.applyFilter()
	case key.Matches(msg, m.keymap.Category):
		m.filter.Category = next(append([]string{""}, m.store.Categories()...), m.filter.Category)
		return m.applyFilter()
	}
	cmd := m.transactions.Update(msg)
	m.syncDetail()
	return cmd
}

func (m *Model) handleBudgetKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.New):
		m.openCreate(mutation.KindBudget, nil)
		return nil
	case key.Matches(msg, m.keymap.Edit):
		category, ok := m.budget.Selected()
		if !ok {
			return nil
		}
		if err := m.controller.OpenEditBudget(category); err != nil {
			return m.setFlash(common.Message(err))
		}
		m.showForm(mutation.KindBudget)
		return nil
	}
	return m.budget.Update(msg)
}

func (m *Model) handleGoalsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.New):
		m.openCreate(mutation.KindGoal, nil)
		return nil
	case key.Matches(msg, m.keymap.Progress):
		id, ok := m.goals.Selected()
		if !ok {
			return nil
		}
		if err := m.controller.OpenGoalProgress(id); err != nil {
			return m.setFlash(common.Message(err))
		}
		m.showForm(mutation.KindGoalProgress)
		return nil
	}
	return m.goals.Update(msg)
}

func (m *Model) handleReportsKey(msg tea.KeyMsg) tea.Cmd {
	rs := m.reports
	switch {
	case key.Matches(msg, m.keymap.ReportType):
		rs.kind = next(reportKinds, rs.kind)
	case key.Matches(msg, m.keymap.ReportPeriod):
		rs.period = next(reportPeriods, rs.period)
	case key.Matches(msg, m.keymap.ReportFormat):
		rs.format = next(reportFormats, rs.format)
		m.mountCharts()
	case key.Matches(msg, m.keymap.ChartType):
		m.toggleChartKind()
	case key.Matches(msg, m.keymap.Generate):
		if m.deps.Assistant == nil || rs.loading {
			return nil
		}
		rs.loading = true
		rs.err = nil
		return m.generateReport()
	}
	return nil
}
