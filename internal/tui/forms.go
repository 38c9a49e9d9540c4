package tui

import (
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// Field keys match the validation keys of the mutation forms, so problems
// land next to the input that caused them.
var formFields = map[mutation.Kind][]components.Field{
	mutation.KindTransaction: {
		{Key: "description", Label: "Descrição", Placeholder: "Ex.: Supermercado"},
		{Key: "value", Label: "Valor", Placeholder: "0,00"},
		{Key: "category", Label: "Categoria", Placeholder: "Ex.: Alimentação"},
		{Key: "type", Label: "Tipo", Placeholder: "Receita ou Despesa"},
		{Key: "date", Label: "Data", Placeholder: "AAAA-MM-DD"},
	},
	mutation.KindGoal: {
		{Key: "title", Label: "Título", Placeholder: "Ex.: Reserva de emergência"},
		{Key: "target", Label: "Valor alvo", Placeholder: "0,00"},
		{Key: "current", Label: "Valor atual", Placeholder: "0,00"},
		{Key: "deadline", Label: "Prazo", Placeholder: "AAAA-MM-DD"},
		{Key: "icon", Label: "Ícone", Placeholder: model.DefaultGoalIcon},
	},
	mutation.KindGoalProgress: {
		{Key: "current", Label: "Valor atual", Placeholder: "0,00"},
	},
	mutation.KindBudget: {
		{Key: "category", Label: "Categoria", Placeholder: "Ex.: Transporte"},
		{Key: "budget_amount", Label: "Valor orçado", Placeholder: "0,00"},
	},
}

func formTitle(kind mutation.Kind, mode mutation.Mode) string {
	edit := mode == mutation.ModeEdit
	switch kind {
	case mutation.KindTransaction:
		if edit {
			return "Editar Transação"
		}
		return "Nova Transação"
	case mutation.KindGoal:
		return "Nova Meta"
	case mutation.KindGoalProgress:
		return "Atualizar Progresso"
	case mutation.KindBudget:
		if edit {
			return "Editar Orçamento"
		}
		return "Novo Orçamento"
	default:
		return string(kind)
	}
}

// formValues reads the controller's copy of the form of kind.
func (m *Model) formValues(kind mutation.Kind) map[string]string {
	switch kind {
	case mutation.KindTransaction:
		f := m.controller.TransactionForm()
		return map[string]string{
			"description": f.Description,
			"value":       f.Value,
			"category":    f.Category,
			"type":        f.Type,
			"date":        f.Date,
		}
	case mutation.KindGoal:
		f := m.controller.GoalForm()
		return map[string]string{
			"title":    f.Title,
			"target":   f.Target,
			"current":  f.Current,
			"deadline": f.Deadline,
			"icon":     f.Icon,
		}
	case mutation.KindGoalProgress:
		return map[string]string{"current": m.controller.GoalProgressForm().Current}
	case mutation.KindBudget:
		f := m.controller.BudgetForm()
		return map[string]string{"category": f.Category, "budget_amount": f.Amount}
	default:
		return nil
	}
}

// storeFormValues writes raw input back into the controller.
func (m *Model) storeFormValues(kind mutation.Kind, v map[string]string) {
	switch kind {
	case mutation.KindTransaction:
		m.controller.SetTransactionForm(mutation.TransactionForm{
			Description: v["description"],
			Value:       v["value"],
			Category:    v["category"],
			Type:        v["type"],
			Date:        v["date"],
		})
	case mutation.KindGoal:
		m.controller.SetGoalForm(mutation.GoalForm{
			Title:    v["title"],
			Target:   v["target"],
			Current:  v["current"],
			Deadline: v["deadline"],
			Icon:     v["icon"],
		})
	case mutation.KindGoalProgress:
		m.controller.SetGoalProgressForm(mutation.GoalProgressForm{Current: v["current"]})
	case mutation.KindBudget:
		m.controller.SetBudgetForm(mutation.BudgetForm{Category: v["category"], Amount: v["budget_amount"]})
	}
}

// showForm puts the controller's form of kind on screen.
func (m *Model) showForm(kind mutation.Kind) {
	st := m.controller.State(kind)
	m.form = components.NewForm(formTitle(kind, st.Mode), formFields[kind], m.formValues(kind), m.theme)
	m.form.Resize(min(m.width-30, 50))
	m.formKind = kind
	m.mode = ModeForm
}

// openCreate opens an empty form of kind. prefill overrides the defaults.
func (m *Model) openCreate(kind mutation.Kind, prefill map[string]string) {
	m.controller.OpenCreate(kind)
	values := m.formValues(kind)
	if kind == mutation.KindTransaction {
		values["type"] = string(model.TypeExpense)
		values["date"] = model.DateOf(m.now()).String()
	}
	for k, v := range prefill {
		if _, ok := values[k]; ok {
			values[k] = v
		}
	}
	m.storeFormValues(kind, values)
	m.showForm(kind)
}

func (m *Model) closeForm() {
	if m.form != nil {
		m.controller.Close(m.formKind)
	}
	m.form = nil
	m.mode = ModeBrowse
}

func (m *Model) submitForm() tea.Cmd {
	if m.form == nil || m.form.Busy() {
		return nil
	}
	m.storeFormValues(m.formKind, m.form.Values())
	m.form.SetError(nil)
	m.form.SetBusy(true)
	return m.submit(m.formKind)
}

func modalKind(modal model.Modal) mutation.Kind {
	switch modal {
	case model.ModalGoal:
		return mutation.KindGoal
	case model.ModalBudget:
		return mutation.KindBudget
	default:
		return mutation.KindTransaction
	}
}

func kindSection(kind mutation.Kind) model.Section {
	switch kind {
	case mutation.KindGoal, mutation.KindGoalProgress:
		return model.SectionGoals
	case mutation.KindBudget:
		return model.SectionBudget
	default:
		return model.SectionTransactions
	}
}
