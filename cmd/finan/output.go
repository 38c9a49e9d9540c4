package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)

// newTable creates the bordered table every list command prints.
func newTable(headers ...string) *table.Table {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(cli.SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cell
		})
}

// transactionColumns are the fixed widths of a streamed transaction line,
// before the amount. Streaming rules out measuring every row first, so long
// text is truncated.
var transactionColumns = []int{6, 12, 28, 18, 9}

func transactionCells(cells ...string) string {
	var b strings.Builder
	for i, c := range cells {
		if i == len(transactionColumns) {
			b.WriteString(c)
			break
		}
		w := transactionColumns[i]
		if r := []rune(c); len(r) > w-1 {
			c = string(r[:w-2]) + "…"
		}
		b.WriteString(lipgloss.NewStyle().Width(w).Render(c))
	}
	return b.String()
}

func transactionHeader() string {
	return headerStyle.UnsetPadding().Render(transactionCells("ID", "Data", "Descrição", "Categoria", "Tipo", "Valor"))
}

// transactionLine formats one transaction for the streamed list.
func transactionLine(tx model.Transaction) string {
	return transactionCells(fmt.Sprint(tx.ID), tx.Date.String(), tx.Description, tx.Category,
		string(tx.Type), cli.FormatSigned(tx.Signed()))
}

func goalsTable(goals []model.Goal) string {
	t := newTable("ID", "Meta", "Atual", "Alvo", "Progresso", "Prazo")
	for _, g := range goals {
		progress := fmt.Sprintf("%.0f%%", g.Progress)
		if g.Completed() {
			progress = cli.SuccessStyle.Render(progress + " " + cli.SuccessIcon)
		}
		t.Row(fmt.Sprint(g.ID), g.Title, model.FormatBRL(g.Current), model.FormatBRL(g.Target), progress, g.Deadline.String())
	}
	return t.String()
}

func budgetTable(lines []model.BudgetLine) string {
	t := newTable("Categoria", "Orçamento", "Gasto", "Restante", "Uso")
	for _, l := range lines {
		usage := fmt.Sprintf("%.0f%%", l.Progress)
		switch l.Status() {
		case model.BudgetDanger:
			usage = cli.ErrorStyle.Render(usage)
		case model.BudgetWarning:
			usage = cli.WarningStyle.Render(usage)
		}
		t.Row(l.Category, model.FormatBRL(l.Budget), model.FormatBRL(l.Spent), cli.FormatSigned(l.Remaining()), usage)
	}
	return t.String()
}

// trend renders a month-over-month delta, or "sem base" without a baseline.
func trend(p *float64) string {
	switch {
	case p == nil:
		return cli.SubtleStyle.Render("sem base")
	case *p >= 0:
		return cli.SuccessStyle.Render(fmt.Sprintf("▲ %.1f%%", *p))
	default:
		return cli.ErrorStyle.Render(fmt.Sprintf("▼ %.1f%%", *p))
	}
}

func summaryBlock(s *model.DashboardSummary) string {
	label := lipgloss.NewStyle().Width(10).Bold(true)
	lines := []string{
		label.Render("Saldo") + " " + cli.FormatSigned(s.Saldo) + "  " + trend(s.Trends.Saldo),
		label.Render("Receitas") + " " + model.FormatBRL(s.Receitas) + "  " + trend(s.Trends.Receitas),
		label.Render("Despesas") + " " + model.FormatBRL(s.Despesas) + "  " + trend(s.Trends.Despesas),
		label.Render("Economia") + " " + s.Economia.StringFixed(1) + "%  " + trend(s.Trends.Economia),
	}
	return strings.Join(lines, "\n")
}
