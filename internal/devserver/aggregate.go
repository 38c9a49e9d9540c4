package devserver

import (
	"sort"
	"time"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// percent is part/whole*100, or 0 for a non-positive whole.
func percent(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// pctChange is the change from prev to curr in percent with one decimal.
// A zero prev has no meaningful change.
func pctChange(curr, prev decimal.Decimal) *float64 {
	if prev.IsZero() {
		return nil
	}
	v := curr.Sub(prev).Div(prev).Mul(hundred).Round(1).InexactFloat64()
	return &v
}

func inMonth(d model.Date, year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

func sumBy(txs []model.Transaction, year int, month time.Month, typ model.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == typ && inMonth(tx.Date, year, month) {
			total = total.Add(tx.Value)
		}
	}
	return total
}

// expensesByCategory totals the month's expenses per category.
func expensesByCategory(txs []model.Transaction, year int, month time.Month) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type == model.TypeExpense && inMonth(tx.Date, year, month) {
			out[tx.Category] = out[tx.Category].Add(tx.Value)
		}
	}
	return out
}

// summarize builds the dashboard summary for the month containing now,
// with trends against the previous month.
func summarize(txs []model.Transaction, now time.Time) model.DashboardSummary {
	year, month := now.Year(), now.Month()
	prev := time.Date(year, month, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)

	receitas := sumBy(txs, year, month, model.TypeIncome)
	despesas := sumBy(txs, year, month, model.TypeExpense)
	saldo := receitas.Sub(despesas)

	receitasPrev := sumBy(txs, prev.Year(), prev.Month(), model.TypeIncome)
	despesasPrev := sumBy(txs, prev.Year(), prev.Month(), model.TypeExpense)

	var economia *float64
	if receitas.IsPositive() {
		v := saldo.Div(receitas).Mul(hundred).Round(1).InexactFloat64()
		economia = &v
	}

	// Six points stepping back 30 days, newest first.
	months := make([]model.MonthData, 0, 6)
	for i := 0; i < 6; i++ {
		d := now.AddDate(0, 0, -30*i)
		rec := sumBy(txs, d.Year(), d.Month(), model.TypeIncome)
		des := sumBy(txs, d.Year(), d.Month(), model.TypeExpense)
		months = append(months, model.MonthData{
			Month:    d.Format("Jan"),
			Receitas: rec,
			Despesas: des,
			Saldo:    rec.Sub(des),
		})
	}

	byCategory := expensesByCategory(txs, year, month)
	categories := make([]model.CategoryTotal, 0, len(byCategory))
	for name, total := range byCategory {
		categories = append(categories, model.CategoryTotal{Categoria: name, Total: total})
	}
	sort.Slice(categories, func(i, j int) bool {
		if c := categories[i].Total.Cmp(categories[j].Total); c != 0 {
			return c > 0
		}
		return categories[i].Categoria < categories[j].Categoria
	})

	return model.DashboardSummary{
		Saldo:              saldo,
		Receitas:           receitas,
		Despesas:           despesas,
		Economia:           saldo,
		MonthsData:         months,
		CategoriasDespesas: categories,
		Trends: model.Trends{
			Saldo:    pctChange(saldo, receitasPrev.Sub(despesasPrev)),
			Receitas: pctChange(receitas, receitasPrev),
			Despesas: pctChange(despesas, despesasPrev),
			Economia: economia,
		},
	}
}

// monthlyReport totals every month of year.
func monthlyReport(txs []model.Transaction, year int) model.MonthlyReport {
	report := make(model.MonthlyReport, 0, 12)
	for m := time.January; m <= time.December; m++ {
		rec := sumBy(txs, year, m, model.TypeIncome)
		des := sumBy(txs, year, m, model.TypeExpense)
		report = append(report, model.MonthData{
			Month:    time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Format("Jan"),
			Receitas: rec,
			Despesas: des,
			Saldo:    rec.Sub(des),
		})
	}
	return report
}

// budgetLines joins the month's spending into the stored budget rows.
func budgetLines(rows []budgetRow, txs []model.Transaction, now time.Time) []model.BudgetLine {
	spent := expensesByCategory(txs, now.Year(), now.Month())
	lines := make([]model.BudgetLine, 0, len(rows))
	for _, row := range rows {
		s := spent[row.Category]
		lines = append(lines, model.BudgetLine{
			Category: row.Category,
			Budget:   row.Amount,
			Spent:    s,
			Progress: percent(s, row.Amount),
		})
	}
	return lines
}
