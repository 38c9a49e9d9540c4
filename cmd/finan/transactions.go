package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/render"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List and manage transactions",
	}

	cmd.AddCommand(transactionsListCmd())
	cmd.AddCommand(transactionsAddCmd())
	cmd.AddCommand(transactionsEditCmd())
	cmd.AddCommand(transactionsDeleteCmd())

	return cmd
}

func transactionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long: `List transactions, newest first.

Filters combine: --search matches the description case-insensitively,
--category and --type match exactly.`,
		RunE: runTransactionsList,
	}

	cmd.Flags().StringP("search", "s", "", "Filter by description")
	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().StringP("type", "t", "", "Filter by type (Receita, Despesa)")
	cmd.Flags().IntP("limit", "n", 0, "Show at most this many transactions")

	return cmd
}

func runTransactionsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	search, _ := cmd.Flags().GetString("search")
	category, _ := cmd.Flags().GetString("category")
	typeFlag, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	criteria := mutation.Criteria{Search: search, Category: category}
	if typeFlag != "" {
		t, err := model.ParseTransactionType(typeFlag)
		if err != nil {
			return err
		}
		criteria.Type = t
	}

	s, err := openSession(ctx, store.Transactions)
	if err != nil {
		return err
	}

	txns := mutation.Filter(s.store().Transactions(), criteria)
	if len(txns) == 0 {
		fmt.Fprintln(out, cli.InfoStyle.Render("Nenhuma transação encontrada. Use 'finan transactions add' para criar uma."))
		return nil
	}
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}

	fmt.Fprintln(out, cli.FormatTitle("Transações"))
	fmt.Fprintln(out, transactionHeader())

	sink := render.NewWriterSink(out, transactionLine)
	r := render.New("transactions-list", sink, render.WithChunkSize(settings.Dashboard.ChunkSize))
	r.Start(txns)
	r.Drain()
	if err := sink.Err(); err != nil {
		return fmt.Errorf("failed to write transactions: %w", err)
	}

	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d transações", sink.Len())))
	return nil
}

func transactionFlags(cmd *cobra.Command) {
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().String("value", "", "Amount, e.g. 1234,56")
	cmd.Flags().String("category", "", "Category")
	cmd.Flags().String("type", "", "Type (Receita, Despesa)")
	cmd.Flags().String("date", "", "Date (YYYY-MM-DD)")
}

func transactionsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a transaction",
		Long: `Create a transaction. Missing fields are asked for interactively.

Examples:
  finan transactions add --description Mercado --value 150,90 --category Alimentação --type Despesa
  finan transactions add`,
		RunE: runTransactionsAdd,
	}
	transactionFlags(cmd)
	return cmd
}

func runTransactionsAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}

	form := mutation.TransactionForm{
		Description: changed(cmd, "description", ""),
		Value:       changed(cmd, "value", ""),
		Category:    changed(cmd, "category", ""),
		Type:        changed(cmd, "type", string(model.TypeExpense)),
		Date:        changed(cmd, "date", model.DateOf(time.Now()).String()),
	}
	if err := askTransaction(ctx, prompter(cmd), &form, cmd); err != nil {
		return err
	}

	s.controller.OpenCreate(mutation.KindTransaction)
	s.controller.SetTransactionForm(form)
	return s.submit(ctx, cmd.OutOrStdout(), mutation.KindTransaction)
}

// askTransaction prompts for the fields not given as flags.
func askTransaction(ctx context.Context, p *cli.Prompter, form *mutation.TransactionForm, cmd *cobra.Command) error {
	fields := []struct {
		value *string
		flag  string
		label string
	}{
		{&form.Description, "description", "Descrição"},
		{&form.Value, "value", "Valor"},
		{&form.Category, "category", "Categoria"},
		{&form.Type, "type", "Tipo"},
		{&form.Date, "date", "Data"},
	}
	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			continue
		}
		answer, err := p.Ask(ctx, f.label, *f.value)
		if err != nil {
			return err
		}
		*f.value = answer
	}
	return nil
}

func transactionsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update a transaction",
		Long: `Update a transaction. Only the fields given as flags change.

Example:
  finan transactions edit 42 --value 99,90`,
		Args: cobra.ExactArgs(1),
		RunE: runTransactionsEdit,
	}
	transactionFlags(cmd)
	return cmd
}

func runTransactionsEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(ctx, store.Transactions)
	if err != nil {
		return err
	}
	if err := s.controller.OpenEditTransaction(id); err != nil {
		return err
	}

	form := s.controller.TransactionForm()
	form.Description = changed(cmd, "description", form.Description)
	form.Value = changed(cmd, "value", form.Value)
	form.Category = changed(cmd, "category", form.Category)
	form.Type = changed(cmd, "type", form.Type)
	form.Date = changed(cmd, "date", form.Date)
	s.controller.SetTransactionForm(form)

	return s.submit(ctx, cmd.OutOrStdout(), mutation.KindTransaction)
}

func transactionsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE:  runTransactionsDelete,
	}
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func runTransactionsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	yes, _ := cmd.Flags().GetBool("yes")

	s, err := openSession(ctx, store.Transactions)
	if err != nil {
		return err
	}

	req, err := s.controller.RequestDelete(id)
	if err != nil {
		return err
	}
	if !yes {
		ok, err := prompter(cmd).Confirm(ctx, fmt.Sprintf("Excluir %q?", req.Description))
		if err != nil {
			return err
		}
		if !ok {
			s.controller.CancelDelete()
			fmt.Fprintln(out, cli.InfoStyle.Render("Exclusão cancelada."))
			return nil
		}
	}

	return confirmDelete(ctx, out, s, req)
}

func confirmDelete(ctx context.Context, out io.Writer, s *session, req mutation.DeleteRequest) error {
	result, err := s.controller.ConfirmDelete(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, cli.FormatSuccess(result.Message))
	return nil
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
