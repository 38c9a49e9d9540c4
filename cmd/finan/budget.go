package main

import (
	"fmt"

	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show and set this month's budget",
		RunE:  runBudgetList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show budget lines with their spending",
		RunE:  runBudgetList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set CATEGORY AMOUNT",
		Short: "Create or update the budget of a category",
		Long: `Create or update the current month's budget of a category. A category
that already has a budget is updated in place.

Example:
  finan budget set Lazer 300`,
		Args: cobra.ExactArgs(2),
		RunE: runBudgetSet,
	})

	return cmd
}

func runBudgetList(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	s, err := openSession(cmd.Context(), store.Budget)
	if err != nil {
		return err
	}

	lines := s.store().Budget()
	if len(lines) == 0 {
		fmt.Fprintln(out, cli.InfoStyle.Render("Nenhum orçamento definido. Use 'finan budget set' para criar um."))
		return nil
	}

	total, spent := decimal.Zero, decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Budget)
		spent = spent.Add(l.Spent)
	}

	fmt.Fprintln(out, cli.FormatTitle("Orçamento do mês"))
	fmt.Fprintln(out, budgetTable(lines))
	fmt.Fprintf(out, "Total: %s de %s\n", model.FormatBRL(spent), model.FormatBRL(total))

	for _, l := range lines {
		switch l.Status() {
		case model.BudgetDanger:
			fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("%s: %.0f%% do orçamento usado", l.Category, l.Progress)))
		case model.BudgetWarning:
			fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s: %.0f%% do orçamento usado", l.Category, l.Progress)))
		}
	}
	return nil
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := openSession(ctx, store.Budget)
	if err != nil {
		return err
	}

	if _, exists := s.store().BudgetLine(args[0]); exists {
		if err := s.controller.OpenEditBudget(args[0]); err != nil {
			return err
		}
	} else {
		s.controller.OpenCreate(mutation.KindBudget)
	}
	s.controller.SetBudgetForm(mutation.BudgetForm{Category: args[0], Amount: args[1]})
	return s.submit(ctx, cmd.OutOrStdout(), mutation.KindBudget)
}
