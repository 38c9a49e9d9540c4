package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/ofx"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX files exported from your bank.

Lines already in the backend, or repeated across the given files, are
skipped. Pressing Ctrl+C stops the import; what was sent is kept.

Examples:
  # Import single file
  finan import-ofx ~/Downloads/extrato_jan.ofx

  # Import all files in a directory
  finan import-ofx ~/Downloads/*.ofx

  # See what would be imported
  finan import-ofx --dry-run ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().BoolP("verbose", "v", false, "Show every transaction to import")
	cmd.Flags().String("category", ofx.DefaultCategory, "Category for lines without a hint")
	cmd.Flags().Bool("accounts", false, "Only list the accounts found in the files")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	category, _ := cmd.Flags().GetString("category")
	accountsOnly, _ := cmd.Flags().GetBool("accounts")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	if accountsOnly {
		return listAccounts(out, files)
	}

	slog.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

	parser := ofx.NewParser(category, slog.Default())
	entries := parseFiles(ctx, out, parser, files)
	if len(entries) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("Nenhuma transação encontrada nos arquivos."))
		return nil
	}

	s, err := openSession(ctx, store.Transactions)
	if err != nil {
		return err
	}

	fresh, duplicates := ofx.Dedupe(entries, s.store().Transactions())
	printImportPreview(out, fresh, duplicates, verbose)
	if len(fresh) == 0 || dryRun {
		if dryRun {
			fmt.Fprintln(out, cli.FormatInfo("Simulação concluída: nada foi salvo."))
		}
		return nil
	}

	handler := cli.NewInterruptHandler(out)
	importCtx := handler.HandleInterrupts(ctx, "As transações já enviadas foram mantidas. Rode o comando de novo para continuar.")

	bar := cli.NewProgress(cmd.ErrOrStderr(), len(fresh), "Importando")
	result, err := ofx.Import(importCtx, s.client, fresh, bar, slog.Default())
	if err != nil && !handler.WasInterrupted() {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d transações importadas", result.Created)))
	for _, f := range result.Failed {
		fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("%s %s: %s",
			f.Entry.Payload.Date, f.Entry.Payload.Description, errorLine(f.Err))))
	}
	return nil
}

// expandFiles resolves globs. A pattern without matches is kept when it
// names an existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// parseFiles parses every file, skipping the unreadable ones.
func parseFiles(ctx context.Context, out io.Writer, parser *ofx.Parser, files []string) []ofx.Entry {
	var entries []ofx.Entry
	for _, path := range files {
		f, err := os.Open(path) // #nosec G304
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}
		parsed, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}
		fmt.Fprintf(out, "  - %s: %d transações\n", filepath.Base(path), len(parsed))
		entries = append(entries, parsed...)
	}
	return entries
}

func listAccounts(out io.Writer, files []string) error {
	for _, path := range files {
		f, err := os.Open(path) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		accounts, err := ofx.Accounts(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for _, acct := range accounts {
			fmt.Fprintf(out, "%s\t%s\n", filepath.Base(path), acct)
		}
	}
	return nil
}

func printImportPreview(out io.Writer, entries []ofx.Entry, duplicates int, verbose bool) {
	income, expense := decimal.Zero, decimal.Zero
	categories := make(map[string]int)
	for _, e := range entries {
		switch e.Payload.Type {
		case model.TypeIncome:
			income = income.Add(e.Payload.Value)
		case model.TypeExpense:
			expense = expense.Add(e.Payload.Value)
		}
		categories[e.Payload.Category]++
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d novas, %d duplicadas\n", len(entries), duplicates)
	fmt.Fprintf(out, "Receitas %s · Despesas %s\n", model.FormatBRL(income), model.FormatBRL(expense))

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %d\n", name, categories[name])
	}

	if !verbose || len(entries) == 0 {
		return
	}
	t := newTable("Data", "Descrição", "Categoria", "Tipo", "Valor", "Conta")
	for _, e := range entries {
		p := e.Payload
		t.Row(p.Date.String(), p.Description, p.Category, string(p.Type), model.FormatBRL(p.Value), e.AccountID)
	}
	fmt.Fprintln(out, t.String())
}
