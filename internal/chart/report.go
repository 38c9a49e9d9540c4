package chart

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Format selects how a generated report is presented.
type Format string

// Report formats.
const (
	FormatChart   Format = "chart"
	FormatTable   Format = "table"
	FormatSummary Format = "summary"
)

// ParseFormat accepts chart, table or summary.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatChart, FormatTable, FormatSummary:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q: use chart, table or summary", s)
	}
}

// Report canvases.
const (
	CanvasReportMonthly  = "report-monthly"
	CanvasReportCategory = "report-category"
)

// MountReport switches the report canvases to format. The chart format
// mounts the monthly chart with kind and the category breakdown as bars;
// the other formats unmount both. report is read each time a canvas draws.
func MountReport(r *Registry, format Format, kind Kind, report func() *model.Report) error {
	if format != FormatChart {
		r.Unmount(CanvasReportMonthly)
		r.Unmount(CanvasReportCategory)
		return nil
	}

	data := func() model.ReportData {
		if rep := report(); rep != nil {
			return rep.Data
		}
		return model.ReportData{}
	}

	if _, err := r.Mount(CanvasReportMonthly, kind, "Gastos Mensais", func() Series {
		return ReportMonthlySeries(data())
	}); err != nil {
		return err
	}
	_, err := r.Mount(CanvasReportCategory, KindBar, "Despesas por Categoria", func() Series {
		return ReportCategorySeries(data())
	})
	return err
}

// ReportSummary renders the totals block shown with every format.
func ReportSummary(s model.ReportSummary) string {
	rows := [][2]string{
		{"Receitas", model.FormatBRL(s.TotalReceitas)},
		{"Despesas", model.FormatBRL(s.TotalDespesas)},
		{"Saldo", model.FormatBRL(s.Saldo)},
		{"Transações", strconv.Itoa(s.NumTransactions)},
	}
	label := lipgloss.NewStyle().Width(12).Bold(true)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, label.Render(row[0])+" "+row[1])
	}
	return strings.Join(lines, "\n")
}

// ReportTable renders the report transactions newest first.
func ReportTable(data model.ReportData) string {
	txns := slices.Clone(data.Transactions)
	slices.SortStableFunc(txns, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Data", "Descrição", "Categoria", "Tipo", "Valor")
	for _, tx := range txns {
		t.Row(tx.Date.String(), tx.Description, tx.Category, string(tx.Type), model.FormatBRL(tx.Value))
	}
	return t.String()
}
