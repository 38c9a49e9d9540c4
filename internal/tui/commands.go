package tui

import (
	"context"
	"time"

	"github.com/Veraticus/finanmaster/internal/assistant"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

const flashDuration = 4 * time.Second

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.config.RequestTimeout)
}

// checkIdentity verifies the session before the first load.
func (m Model) checkIdentity() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		identity, err := m.syncer.EnsureIdentity(ctx)
		return identityMsg{identity: identity, err: err}
	}
}

// loadAll fetches the four dashboard collections concurrently.
func (m Model) loadAll() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		err := m.syncer.LoadAll(ctx)
		return loadedMsg{collections: store.Collections, err: err}
	}
}

// refresh refetches the given collections.
func (m Model) refresh(collections ...store.Collection) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		err := m.syncer.RefreshAll(ctx, collections...)
		return loadedMsg{collections: collections, err: err}
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.config.RefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m Model) loadMonthly() tea.Cmd {
	if m.deps.Monthly == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		report, err := m.deps.Monthly.MonthlyReport(ctx)
		return monthlyLoadedMsg{report: report, err: err}
	}
}

func (m Model) loadInsights() tea.Cmd {
	if m.deps.Assistant == nil {
		return nil
	}
	userID := m.store.UserID()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		insights, err := assistant.QuickInsights(ctx, m.deps.Assistant, userID)
		return insightsMsg{insights: insights, err: err}
	}
}

// submit sends the form of kind; the controller refetches on success.
func (m Model) submit(kind mutation.Kind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		result, err := m.controller.Submit(ctx, kind)
		return mutationDoneMsg{kind: kind, result: result, err: err}
	}
}

func (m Model) confirmDelete(req mutation.DeleteRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		result, err := m.controller.ConfirmDelete(ctx, req)
		return deleteDoneMsg{result: result, err: err}
	}
}

// ask sends one chat question. The bridge bounds its own calls and always
// answers, so only a blank query comes back as an error.
func (m Model) ask(query string) tea.Cmd {
	session := m.session
	userID := m.store.UserID()
	return func() tea.Msg {
		answer, err := session.Send(context.Background(), query, userID)
		return answerMsg{answer: answer, err: err}
	}
}

func (m Model) generateReport() tea.Cmd {
	req := model.ReportRequest{
		UserID:     m.store.UserID(),
		ReportType: m.reports.kind,
		Period:     m.reports.period,
		Insights:   true,
	}
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		report, err := m.deps.Assistant.GenerateReport(ctx, req)
		return reportMsg{report: report, err: err}
	}
}

func (m Model) clearFlash(gen int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{gen: gen}
	})
}
