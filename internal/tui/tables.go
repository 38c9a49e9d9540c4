package tui

import (
	"fmt"
	"time"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/tui/components"
	"github.com/Veraticus/finanmaster/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
)

var transactionColumns = []table.Column{
	{Title: "Data", Width: 10},
	{Title: "Descrição", Width: 30},
	{Title: "Categoria", Width: 18},
	{Title: "Tipo", Width: 8},
	{Title: "Valor", Width: 14},
}

// The table styles whole rows, so signs carry the income/expense cue.
func transactionRow(tx model.Transaction) table.Row {
	return table.Row{
		tx.Date.String(),
		tx.Description,
		themes.GetCategoryIcon(tx.Category) + " " + tx.Category,
		string(tx.Type),
		model.FormatBRL(tx.Signed()),
	}
}

var budgetColumns = []table.Column{
	{Title: "Categoria", Width: 20},
	{Title: "Orçado", Width: 14},
	{Title: "Gasto", Width: 14},
	{Title: "Progresso", Width: 20},
	{Title: "Situação", Width: 10},
}

func budgetRow(l model.BudgetLine) table.Row {
	return table.Row{
		themes.GetCategoryIcon(l.Category) + " " + l.Category,
		model.FormatBRL(l.Budget),
		model.FormatBRL(l.Spent),
		components.Bar(l.Progress, 10),
		budgetStatusLabel(l.Status()),
	}
}

func budgetStatusLabel(s model.BudgetStatus) string {
	switch s {
	case model.BudgetDanger:
		return "estourado"
	case model.BudgetWarning:
		return "atenção"
	default:
		return "ok"
	}
}

var goalColumns = []table.Column{
	{Title: "Meta", Width: 26},
	{Title: "Atual", Width: 14},
	{Title: "Alvo", Width: 14},
	{Title: "Progresso", Width: 20},
	{Title: "Prazo", Width: 16},
}

// goalRow needs the session clock for the days left.
func goalRow(now func() time.Time) func(model.Goal) table.Row {
	return func(g model.Goal) table.Row {
		return goalCells(g, now())
	}
}

func goalCells(g model.Goal, now time.Time) table.Row {
	deadline := g.Deadline.String()
	switch days := g.DaysLeft(now); {
	case g.Completed():
		deadline = "concluída"
	case days < 0:
		deadline += " (vencida)"
	default:
		deadline += fmt.Sprintf(" (%dd)", days)
	}
	return table.Row{
		g.Title,
		model.FormatBRL(g.Current),
		model.FormatBRL(g.Target),
		components.Bar(g.Progress, 10),
		deadline,
	}
}
