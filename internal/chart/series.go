// Package chart maps dashboard aggregates to chart series and owns the
// registry of mounted charts.
package chart

import (
	"slices"
	"strings"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/shopspring/decimal"
)

// Series is chart-ready data: one value slice per named series, each aligned
// with Labels.
type Series struct {
	Labels []string
	Names  []string
	Values [][]float64
}

// Empty reports whether there is nothing to plot.
func (s Series) Empty() bool {
	return len(s.Labels) == 0
}

func f64(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// CashFlowSeries plots income against expenses per month, in the order the
// backend lists the months.
func CashFlowSeries(months []model.MonthData) Series {
	s := Series{
		Names:  []string{"Receitas", "Despesas"},
		Values: [][]float64{make([]float64, 0, len(months)), make([]float64, 0, len(months))},
	}
	for _, m := range months {
		s.Labels = append(s.Labels, m.Month)
		s.Values[0] = append(s.Values[0], f64(m.Receitas))
		s.Values[1] = append(s.Values[1], f64(m.Despesas))
	}
	return s
}

// CategorySeries plots the current month's spending per category.
func CategorySeries(cats []model.CategoryTotal) Series {
	s := Series{
		Names:  []string{"Despesas"},
		Values: [][]float64{make([]float64, 0, len(cats))},
	}
	for _, c := range cats {
		s.Labels = append(s.Labels, c.Categoria)
		s.Values[0] = append(s.Values[0], f64(c.Total))
	}
	return s
}

// BudgetSeries plots budgeted against spent per category.
func BudgetSeries(lines []model.BudgetLine) Series {
	s := Series{
		Names:  []string{"Orçado", "Gasto"},
		Values: [][]float64{make([]float64, 0, len(lines)), make([]float64, 0, len(lines))},
	}
	for _, l := range lines {
		s.Labels = append(s.Labels, l.Category)
		s.Values[0] = append(s.Values[0], f64(l.Budget))
		s.Values[1] = append(s.Values[1], f64(l.Spent))
	}
	return s
}

// MonthlySeries plots the twelve-month report with income, expenses and
// balance.
func MonthlySeries(report model.MonthlyReport) Series {
	s := Series{
		Names:  []string{"Receitas", "Despesas", "Saldo"},
		Values: make([][]float64, 3),
	}
	for _, m := range report {
		s.Labels = append(s.Labels, m.Month)
		s.Values[0] = append(s.Values[0], f64(m.Receitas))
		s.Values[1] = append(s.Values[1], f64(m.Despesas))
		s.Values[2] = append(s.Values[2], f64(m.Saldo))
	}
	return s
}

// ReportMonthlySeries plots a generated report's monthly expenses in
// calendar order.
func ReportMonthlySeries(data model.ReportData) Series {
	keys := make([]string, 0, len(data.Temporal.GastosMensais))
	for k := range data.Temporal.GastosMensais {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	s := Series{Names: []string{"Gastos Mensais"}, Values: [][]float64{make([]float64, 0, len(keys))}}
	for _, k := range keys {
		s.Labels = append(s.Labels, k)
		s.Values[0] = append(s.Values[0], f64(data.Temporal.GastosMensais[k]))
	}
	return s
}

// ReportCategorySeries plots a generated report's expenses per category,
// largest first.
func ReportCategorySeries(data model.ReportData) Series {
	totals := data.ByCategory.Despesas
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := totals[b].Cmp(totals[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	s := Series{Names: []string{"Despesas"}, Values: [][]float64{make([]float64, 0, len(keys))}}
	for _, k := range keys {
		s.Labels = append(s.Labels, k)
		s.Values[0] = append(s.Values[0], f64(totals[k]))
	}
	return s
}
