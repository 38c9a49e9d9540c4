package main

import (
	"fmt"

	"github.com/Veraticus/finanmaster/internal/chart"
	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary",
		Long: `Print the current month's balance, income, expenses and savings rate
with their month-over-month trends, followed by the cash-flow chart.`,
		RunE: runSummary,
	}

	cmd.Flags().String("chart", string(chart.KindLine), "Chart type (line, bar)")
	cmd.Flags().Int("width", 60, "Chart width")
	cmd.Flags().Bool("no-chart", false, "Only print the totals")

	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	chartFlag, _ := cmd.Flags().GetString("chart")
	width, _ := cmd.Flags().GetInt("width")
	noChart, _ := cmd.Flags().GetBool("no-chart")

	kind, err := chart.ParseKind(chartFlag)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, store.Summary)
	if err != nil {
		return err
	}
	summary := s.store().Summary()
	if summary == nil {
		return fmt.Errorf("summary unavailable")
	}

	fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Resumo do mês", summaryBlock(summary)))
	if noChart {
		return nil
	}

	registry := chart.NewRegistry(width, 12, chart.DefaultPalette)
	if _, err := registry.Mount("summary-cashflow", kind, "Fluxo de Caixa", func() chart.Series {
		return chart.CashFlowSeries(summary.MonthsData)
	}); err != nil {
		return err
	}
	if _, err := registry.Mount("summary-categories", chart.KindBar, "Despesas por Categoria", func() chart.Series {
		return chart.CategorySeries(summary.CategoriasDespesas)
	}); err != nil {
		return err
	}
	for _, id := range registry.Mounted() {
		fmt.Fprintln(out, registry.View(id))
	}
	return nil
}
