package main

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/Veraticus/finanmaster/internal/chart"
	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/config"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	reportTypes   = []model.ReportType{model.ReportFinancial, model.ReportCategory, model.ReportTrends, model.ReportQuickInsights}
	reportPeriods = []model.ReportPeriod{model.PeriodCurrentMonth, model.PeriodLast3Months, model.PeriodLast6Months}
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a financial report",
		Long: `Generate a report with the assistant service and print it as charts,
a transaction table or a summary.

Examples:
  finan report --type category --period last_3_months
  finan report --format table
  finan report --export sheets`,
		RunE: runReport,
	}

	cmd.Flags().String("type", string(model.ReportFinancial), "Report type (financial, category, trends, quick_insights)")
	cmd.Flags().String("period", string(model.PeriodCurrentMonth), "Period (current_month, last_3_months, last_6_months)")
	cmd.Flags().String("format", string(chart.FormatChart), "Output format (chart, table, summary)")
	cmd.Flags().String("chart", string(chart.KindBar), "Chart type for the monthly history (line, bar)")
	cmd.Flags().StringSlice("category", nil, "Restrict to these categories")
	cmd.Flags().Bool("insights", true, "Include insights and recommendations")
	cmd.Flags().String("export", "", "Also export the report (sheets)")
	cmd.Flags().Int("width", 60, "Chart width")

	cmd.AddCommand(&cobra.Command{
		Use:   "monthly",
		Short: "Show income and expenses for each month of this year",
		RunE:  runReportMonthly,
	})

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	typeFlag, _ := cmd.Flags().GetString("type")
	periodFlag, _ := cmd.Flags().GetString("period")
	formatFlag, _ := cmd.Flags().GetString("format")
	chartFlag, _ := cmd.Flags().GetString("chart")
	categories, _ := cmd.Flags().GetStringSlice("category")
	insights, _ := cmd.Flags().GetBool("insights")
	export, _ := cmd.Flags().GetString("export")
	width, _ := cmd.Flags().GetInt("width")

	reportType := model.ReportType(typeFlag)
	if !slices.Contains(reportTypes, reportType) {
		return fmt.Errorf("unknown report type %q", typeFlag)
	}
	period := model.ReportPeriod(periodFlag)
	if !slices.Contains(reportPeriods, period) {
		return fmt.Errorf("unknown period %q", periodFlag)
	}
	format, err := chart.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	kind, err := chart.ParseKind(chartFlag)
	if err != nil {
		return err
	}
	if export != "" && export != "sheets" {
		return fmt.Errorf("unknown export target %q: only sheets is supported", export)
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	assistantClient, _, err := newAssistant()
	if err != nil {
		return err
	}

	report, err := assistantClient.GenerateReport(ctx, model.ReportRequest{
		UserID:     s.identity.UserID,
		ReportType: reportType,
		Period:     period,
		Categories: categories,
		Insights:   insights,
	})
	if err != nil {
		return err
	}

	if err := printReport(out, report, format, kind, width); err != nil {
		return err
	}

	if export == "sheets" {
		return exportSheets(cmd, report)
	}
	return nil
}

func printReport(out io.Writer, report *model.Report, format chart.Format, kind chart.Kind, width int) error {
	fmt.Fprintln(out, cli.FormatTitle("Relatório "+string(report.ReportType)))
	fmt.Fprintln(out, chart.ReportSummary(report.Data.Summary))
	fmt.Fprintln(out)

	switch format {
	case chart.FormatTable:
		fmt.Fprintln(out, chart.ReportTable(report.Data))
	case chart.FormatChart:
		registry := chart.NewRegistry(width, 12, chart.DefaultPalette)
		if err := chart.MountReport(registry, format, kind, func() *model.Report { return report }); err != nil {
			return err
		}
		for _, id := range registry.Mounted() {
			fmt.Fprintln(out, registry.View(id))
		}
	}

	for _, line := range report.Insights {
		fmt.Fprintln(out, cli.FormatInfo(line))
	}
	for _, line := range report.Recommendations {
		fmt.Fprintln(out, cli.SuccessStyle.Render("→ "+line))
	}
	return nil
}

func exportSheets(cmd *cobra.Command, report *model.Report) error {
	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("google sheets is not configured (run 'finan sheets auth'): %w", err)
	}

	writer, err := sheets.NewWriter(cmd.Context(), *cfg, slog.Default())
	if err != nil {
		return err
	}
	if err := writer.Write(cmd.Context(), report); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Relatório exportado para o Google Sheets."))
	return nil
}

func runReportMonthly(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	monthly, err := s.client.MonthlyReport(ctx)
	if err != nil {
		return err
	}

	registry := chart.NewRegistry(72, 14, chart.DefaultPalette)
	if _, err := registry.Mount("monthly", chart.KindBar, "Receitas e Despesas do Ano", func() chart.Series {
		return chart.MonthlySeries(monthly)
	}); err != nil {
		return err
	}
	fmt.Fprintln(out, registry.View("monthly"))

	t := newTable("Mês", "Receitas", "Despesas", "Saldo")
	for _, m := range monthly {
		t.Row(m.Month, model.FormatBRL(m.Receitas), model.FormatBRL(m.Despesas), cli.FormatSigned(m.Saldo))
	}
	fmt.Fprintln(out, t.String())
	return nil
}
