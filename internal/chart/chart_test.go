package chart

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCashFlowSeries(t *testing.T) {
	s := CashFlowSeries([]model.MonthData{
		{Month: "Mar", Receitas: d("5000"), Despesas: d("1200.50")},
		{Month: "Feb", Receitas: d("4800"), Despesas: d("900")},
	})

	assert.Equal(t, []string{"Mar", "Feb"}, s.Labels)
	assert.Equal(t, []string{"Receitas", "Despesas"}, s.Names)
	assert.Equal(t, [][]float64{{5000, 4800}, {1200.5, 900}}, s.Values)
}

func TestSeriesBuilders(t *testing.T) {
	tests := []struct {
		series     Series
		name       string
		wantLabels []string
		wantValues [][]float64
	}{
		{
			name: "categories",
			series: CategorySeries([]model.CategoryTotal{
				{Categoria: "Alimentação", Total: d("800")},
				{Categoria: "Lazer", Total: d("150.25")},
			}),
			wantLabels: []string{"Alimentação", "Lazer"},
			wantValues: [][]float64{{800, 150.25}},
		},
		{
			name: "budget",
			series: BudgetSeries([]model.BudgetLine{
				{Category: "Lazer", Budget: d("300"), Spent: d("310")},
			}),
			wantLabels: []string{"Lazer"},
			wantValues: [][]float64{{300}, {310}},
		},
		{
			name: "monthly report",
			series: MonthlySeries(model.MonthlyReport{
				{Month: "Jan", Receitas: d("10"), Despesas: d("4"), Saldo: d("6")},
				{Month: "Feb", Receitas: d("0"), Despesas: d("3"), Saldo: d("-3")},
			}),
			wantLabels: []string{"Jan", "Feb"},
			wantValues: [][]float64{{10, 0}, {4, 3}, {6, -3}},
		},
		{
			name: "report months sorted",
			series: ReportMonthlySeries(model.ReportData{Temporal: model.ReportTemporal{GastosMensais: map[string]decimal.Decimal{
				"2024-03": d("30"), "2024-01": d("10"), "2024-02": d("20"),
			}}}),
			wantLabels: []string{"2024-01", "2024-02", "2024-03"},
			wantValues: [][]float64{{10, 20, 30}},
		},
		{
			name: "report categories largest first",
			series: ReportCategorySeries(model.ReportData{ByCategory: model.ReportByCategory{Despesas: map[string]decimal.Decimal{
				"Lazer": d("50"), "Moradia": d("1500"), "Alimentação": d("50"),
			}}}),
			wantLabels: []string{"Moradia", "Alimentação", "Lazer"},
			wantValues: [][]float64{{1500, 50, 50}},
		},
		{
			name:       "empty",
			series:     CategorySeries(nil),
			wantValues: [][]float64{{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLabels, tt.series.Labels)
			assert.Equal(t, tt.wantValues, tt.series.Values)
		})
	}
}

func TestParseKindAndFormat(t *testing.T) {
	k, err := ParseKind(" Bar ")
	require.NoError(t, err)
	assert.Equal(t, KindBar, k)
	_, err = ParseKind("pie")
	assert.Error(t, err)

	f, err := ParseFormat("TABLE")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)
	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestRegistry_RebuildIsIdempotent(t *testing.T) {
	for _, kind := range []Kind{KindLine, KindBar} {
		t.Run(string(kind), func(t *testing.T) {
			months := []model.MonthData{
				{Month: "Jan", Receitas: d("100"), Despesas: d("40")},
				{Month: "Feb", Receitas: d("120"), Despesas: d("80")},
				{Month: "Mar", Receitas: d("90"), Despesas: d("95")},
			}
			source := func() Series { return CashFlowSeries(months) }
			reg := NewRegistry(40, 8, DefaultPalette)

			first, err := reg.Mount("cashflow", kind, "Fluxo de Caixa", source)
			require.NoError(t, err)
			view1 := reg.View("cashflow")

			second, err := reg.Mount("cashflow", kind, "Fluxo de Caixa", source)
			require.NoError(t, err)
			view2 := reg.View("cashflow")

			assert.Equal(t, view1, view2)
			assert.NotEmpty(t, view1)
			assert.Greater(t, second.Gen, first.Gen, "rebuild replaces the canvas")
			assert.True(t, first.Chart().Destroyed(), "old chart is destroyed")
			assert.False(t, second.Chart().Destroyed())
			assert.Equal(t, []string{"cashflow"}, reg.Mounted())
		})
	}
}

func TestRegistry_RefreshReadsSourceAtCallTime(t *testing.T) {
	lines := []model.BudgetLine{{Category: "Lazer", Budget: d("100"), Spent: d("10")}}
	reg := NewRegistry(40, 6, DefaultPalette)

	_, err := reg.Mount("budget", KindBar, "", func() Series { return BudgetSeries(lines) })
	require.NoError(t, err)
	before := reg.View("budget")

	lines = []model.BudgetLine{{Category: "Moradia", Budget: d("1500"), Spent: d("1500")}}
	assert.Equal(t, before, reg.View("budget"), "nothing changes until refreshed")

	require.NoError(t, reg.Refresh("budget"))
	after := reg.View("budget")
	assert.Contains(t, after, "Moradia")
	assert.NotContains(t, after, "Lazer")

	assert.ErrorIs(t, reg.Refresh("missing"), ErrUnknownCanvas)
}

func TestCanvas_AttachRejectsLiveChart(t *testing.T) {
	canvas := &Canvas{ID: "c"}
	first, err := New(KindBar, "", 20, 5, DefaultPalette)
	require.NoError(t, err)
	require.NoError(t, canvas.Attach(first))

	second, err := New(KindLine, "", 20, 5, DefaultPalette)
	require.NoError(t, err)
	err = canvas.Attach(second)
	assert.True(t, errors.Is(err, ErrCanvasInUse))

	first.Destroy()
	assert.NoError(t, canvas.Attach(second))
}

func TestChart_EmptyAndDestroyed(t *testing.T) {
	for _, kind := range []Kind{KindLine, KindBar} {
		ch, err := New(kind, "", 30, 5, DefaultPalette)
		require.NoError(t, err)
		assert.Contains(t, ch.View(), "Sem dados")

		ch.Update(CategorySeries([]model.CategoryTotal{{Categoria: "Lazer", Total: d("10")}}))
		assert.NotContains(t, ch.View(), "Sem dados", "a single point still draws")

		ch.Destroy()
		assert.Empty(t, ch.View())
		ch.Update(CategorySeries([]model.CategoryTotal{{Categoria: "Lazer", Total: d("10")}}))
		assert.Empty(t, ch.View(), "destroyed charts ignore updates")
	}

	_, err := New(Kind("pie"), "", 10, 5, DefaultPalette)
	assert.Error(t, err)
}

func TestMountReport_SwitchesFormats(t *testing.T) {
	report := &model.Report{Data: model.ReportData{
		Temporal:   model.ReportTemporal{GastosMensais: map[string]decimal.Decimal{"2024-01": d("10"), "2024-02": d("20")}},
		ByCategory: model.ReportByCategory{Despesas: map[string]decimal.Decimal{"Lazer": d("30")}},
	}}
	reg := NewRegistry(40, 6, DefaultPalette)
	get := func() *model.Report { return report }

	require.NoError(t, MountReport(reg, FormatChart, KindLine, get))
	assert.Equal(t, []string{CanvasReportCategory, CanvasReportMonthly}, reg.Mounted())
	kind, _ := reg.Kind(CanvasReportMonthly)
	assert.Equal(t, KindLine, kind)
	lineCanvas, _ := reg.Canvas(CanvasReportMonthly)

	require.NoError(t, MountReport(reg, FormatChart, KindBar, get))
	kind, _ = reg.Kind(CanvasReportMonthly)
	assert.Equal(t, KindBar, kind)
	assert.True(t, lineCanvas.Chart().Destroyed(), "switching type destroys the previous chart")

	require.NoError(t, MountReport(reg, FormatTable, KindBar, get))
	assert.Empty(t, reg.Mounted())

	require.NoError(t, MountReport(reg, FormatChart, KindBar, func() *model.Report { return nil }))
	assert.Contains(t, reg.View(CanvasReportMonthly), "Sem dados")
}

func TestReportTableAndSummary(t *testing.T) {
	data := model.ReportData{Transactions: []model.Transaction{
		{Date: model.NewDate(2024, time.January, 5), Description: "Antigo", Category: "Lazer", Type: model.TypeExpense, Value: d("10")},
		{Date: model.NewDate(2024, time.March, 5), Description: "Recente", Category: "Salário", Type: model.TypeIncome, Value: d("1234.5")},
	}}

	out := ReportTable(data)
	assert.Less(t, strings.Index(out, "Recente"), strings.Index(out, "Antigo"))
	assert.Contains(t, out, "R$ 1.234,50")
	assert.Equal(t, "Antigo", data.Transactions[0].Description, "input order untouched")

	summary := ReportSummary(model.ReportSummary{TotalReceitas: d("10"), Saldo: d("-5"), NumTransactions: 2})
	assert.Contains(t, summary, "R$ 10,00")
	assert.Contains(t, summary, "-R$ 5,00")
}
