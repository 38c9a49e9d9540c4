package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectives_UnmarshalJSON(t *testing.T) {
	body := `[
		{"type": "show_balance", "data": {"saldo": 1200.5, "receitas": 5000, "despesas": 3799.5}},
		{"type": "show_all_categories", "data": {"categories": {"Lazer": 10}}},
		{"type": "show_category_analysis", "data": {"categoria": "Alimentação", "valor": 450}},
		{"type": "suggest_goals", "data": {}},
		{"type": "prompt_add_data"},
		{"type": "navigate_to_section", "data": {"section": "budget", "openModal": true}},
		{"type": "navigate_to_section", "data": {"section": "nowhere"}},
		{"type": "open_modal", "data": {"modal": "goal", "prefill": {"title": "Viagem"}}},
		{"type": "show_savings_tips", "data": {"tips": []}}
	]`

	var ds Directives
	require.NoError(t, json.Unmarshal([]byte(body), &ds))
	require.Len(t, ds, 6)

	balance, ok := ds[0].(ShowBalance)
	require.True(t, ok)
	assert.True(t, balance.Saldo.Equal(decimal.RequireFromString("1200.5")))

	analysis, ok := ds[1].(ShowCategoryAnalysis)
	require.True(t, ok)
	assert.Equal(t, "Alimentação", analysis.Categoria)

	assert.IsType(t, SuggestGoals{}, ds[2])
	assert.IsType(t, PromptAddData{}, ds[3])
	assert.Equal(t, NavigateToSection{Section: SectionBudget, OpenModal: true}, ds[4])

	modal, ok := ds[5].(OpenModal)
	require.True(t, ok)
	assert.Equal(t, ModalGoal, modal.Modal)
	assert.Equal(t, "Viagem", modal.Prefill["title"])
}

func TestDirectives_UnknownSectionKeepsModal(t *testing.T) {
	body := `[
		{"type": "navigate_to_section", "data": {"section": "chat", "openModal": true}},
		{"type": "navigate_to_section", "data": {"section": "chat"}}
	]`

	var ds Directives
	require.NoError(t, json.Unmarshal([]byte(body), &ds))
	require.Len(t, ds, 1)
	assert.Equal(t, NavigateToSection{OpenModal: true}, ds[0])
}

func TestDirectives_MalformedPayloadDropped(t *testing.T) {
	body := `[
		{"type": "show_balance", "data": {"saldo": "muito"}},
		{"type": "open_modal", "data": {"modal": 3}},
		{"type": "show_category_analysis", "data": {"categoria": "Lazer", "valor": 10}}
	]`

	var ds Directives
	require.NoError(t, json.Unmarshal([]byte(body), &ds))
	require.Len(t, ds, 1)
	assert.Equal(t, "Lazer", ds[0].(ShowCategoryAnalysis).Categoria)
}

func TestDirectives_MarshalRoundTripKind(t *testing.T) {
	ds := Directives{SuggestGoals{}, NavigateToSection{Section: SectionGoals}}

	b, err := json.Marshal(ds)
	require.NoError(t, err)

	var back Directives
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back, 2)
	assert.Equal(t, "suggest_goals", DirectiveKind(back[0]))
	assert.Equal(t, NavigateToSection{Section: SectionGoals}, back[1])
}

func TestBudgetLine_Status(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		want     BudgetStatus
	}{
		{name: "fresh", progress: 0, want: BudgetOK},
		{name: "at warning edge", progress: 70, want: BudgetOK},
		{name: "warning", progress: 71, want: BudgetWarning},
		{name: "at danger edge", progress: 90, want: BudgetWarning},
		{name: "danger", progress: 120, want: BudgetDanger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BudgetLine{Progress: tt.progress}.Status())
		})
	}
}
