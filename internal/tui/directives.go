package tui

import (
	"github.com/Veraticus/finanmaster/internal/assistant"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/tui/components"
)

var _ assistant.Handler = (*Model)(nil)

// The methods below make *Model an assistant.Handler. Commands they need are
// queued and returned by the Update that dispatched the answer.

// ShowBalance puts the assistant's figures on the summary cards.
func (m *Model) ShowBalance(d model.ShowBalance) {
	m.summary.ShowBalance(d)
}

// ShowCategoryAnalysis pins the analysed category to the insights panel.
func (m *Model) ShowCategoryAnalysis(d model.ShowCategoryAnalysis) {
	m.pinCard(components.CategoryAnalysisCard(d))
}

// SuggestGoals pins the goal suggestions to the insights panel.
func (m *Model) SuggestGoals() {
	m.pinCard(components.GoalSuggestionCard())
}

// PromptAddData moves to the transactions and opens the add form.
func (m *Model) PromptAddData() {
	m.queue(m.activateSection(model.SectionTransactions))
	m.openCreate(mutation.KindTransaction, nil)
}

// NavigateToSection moves to d.Section, opening the add-transaction form
// when asked to.
func (m *Model) NavigateToSection(d model.NavigateToSection) {
	if d.Section != "" {
		m.queue(m.activateSection(d.Section))
	}
	if d.OpenModal {
		m.openCreate(mutation.KindTransaction, nil)
	}
}

// OpenModal opens the form named by d over its section, prefilled.
func (m *Model) OpenModal(d model.OpenModal) {
	kind := modalKind(d.Modal)
	m.queue(m.activateSection(kindSection(kind)))
	m.openCreate(kind, d.Prefill)
}

func (m *Model) pinCard(c components.InsightCard) {
	m.cards = append(m.cards, c)
	if len(m.cards) > maxInsightCards {
		m.cards = m.cards[len(m.cards)-maxInsightCards:]
	}
}
