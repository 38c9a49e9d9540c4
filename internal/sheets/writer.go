package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"sort"
	"time"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/service"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var _ service.ReportWriter = (*Writer)(nil)

// Writer implements the ReportWriter interface for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger, opts ...option.ClientOption) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write exports the report, replacing whatever the sheet held before.
func (w *Writer) Write(ctx context.Context, report *model.Report) error {
	if report == nil {
		return fmt.Errorf("nothing to export: report is empty")
	}

	w.logger.Info("starting report export",
		"report_type", report.ReportType,
		"period", report.Data.Period,
		"transactions", len(report.Data.Transactions))

	retryOpts := service.RetryOptions{
		MaxAttempts:  max(w.config.RetryAttempts, 1),
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var spreadsheetID string
	err := common.WithRetry(ctx, func() error {
		id, getErr := w.getOrCreateSpreadsheet(ctx)
		spreadsheetID = id
		return classifyAPIError(getErr)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := ReportRows(report)

	err = common.WithRetry(ctx, func() error {
		return classifyAPIError(w.writeData(ctx, spreadsheetID, values))
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return classifyAPIError(w.applyFormatting(ctx, spreadsheetID, len(values)))
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// classifyAPIError marks client-side API failures as permanent so WithRetry
// gives up on them immediately.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		retryable := apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
		return &common.RetryableError{Err: err, Retryable: retryable}
	}
	return err
}

func createSheetsService(ctx context.Context, config Config, opts ...option.ClientOption) (*sheets.Service, error) {
	if len(opts) > 0 {
		return sheets.NewService(ctx, opts...)
	}

	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
			Locale:   "pt_BR",
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "Relatório"}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	// Later exports reuse the sheet instead of creating another one.
	w.config.SpreadsheetID = created.SpreadsheetId

	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

var reportTitles = map[model.ReportType]string{
	model.ReportFinancial:     "Relatório Financeiro",
	model.ReportCategory:      "Análise por Categoria",
	model.ReportTrends:        "Tendências",
	model.ReportQuickInsights: "Insights Rápidos",
}

var periodLabels = map[model.ReportPeriod]string{
	model.PeriodCurrentMonth: "Mês atual",
	model.PeriodLast3Months:  "Últimos 3 meses",
	model.PeriodLast6Months:  "Últimos 6 meses",
}

// ReportRows lays the report out as sheet rows: a title, the totals, the
// per-category and monthly breakdowns, the insights and the transactions
// newest first. Amounts are written as numbers so the sheet can format them.
func ReportRows(report *model.Report) [][]any {
	data := report.Data
	estimatedRows := 24 + len(data.ByCategory.Despesas) + len(data.ByCategory.Receitas) +
		len(data.Temporal.GastosMensais) + len(report.Insights) + len(report.Recommendations) + len(data.Transactions)
	values := make([][]any, 0, estimatedRows)

	title := reportTitles[report.ReportType]
	if title == "" {
		title = string(report.ReportType)
	}
	period := periodLabels[data.Period]
	if period == "" {
		period = string(data.Period)
	}

	values = append(values,
		[]any{title, fmt.Sprintf("%s · gerado em %s", period, report.GeneratedAt)},
		[]any{},
		[]any{"Resumo"},
		[]any{"Receitas", amount(data.Summary.TotalReceitas)},
		[]any{"Despesas", amount(data.Summary.TotalDespesas)},
		[]any{"Saldo", amount(data.Summary.Saldo)},
		[]any{"Transações", data.Summary.NumTransactions},
	)

	values = appendBreakdown(values, "Despesas por categoria", "Categoria", data.ByCategory.Despesas, byAmountDesc)
	values = appendBreakdown(values, "Receitas por categoria", "Categoria", data.ByCategory.Receitas, byAmountDesc)
	values = appendBreakdown(values, "Gastos mensais", "Mês", data.Temporal.GastosMensais, byKeyAsc)

	values = appendList(values, "Insights", report.Insights)
	values = appendList(values, "Recomendações", report.Recommendations)

	values = append(values,
		[]any{},
		[]any{"Detalhes das transações"},
		[]any{"Data", "Descrição", "Categoria", "Tipo", "Valor"},
	)

	txns := slices.Clone(data.Transactions)
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date.Time)
	})
	for _, tx := range txns {
		values = append(values, []any{
			tx.Date.String(),
			tx.Description,
			tx.Category,
			string(tx.Type),
			amount(tx.Value),
		})
	}

	return values
}

type keyOrder func(m map[string]decimal.Decimal) func(a, b string) int

func byAmountDesc(m map[string]decimal.Decimal) func(a, b string) int {
	return func(a, b string) int {
		if c := m[b].Cmp(m[a]); c != 0 {
			return c
		}
		return compareStrings(a, b)
	}
}

func byKeyAsc(map[string]decimal.Decimal) func(a, b string) int {
	return compareStrings
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func appendBreakdown(values [][]any, heading, label string, totals map[string]decimal.Decimal, order keyOrder) [][]any {
	if len(totals) == 0 {
		return values
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, order(totals))

	values = append(values, []any{}, []any{heading}, []any{label, "Total"})
	for _, k := range keys {
		values = append(values, []any{k, amount(totals[k])})
	}
	return values
}

func appendList(values [][]any, heading string, items []string) [][]any {
	if len(items) == 0 {
		return values
	}
	values = append(values, []any{}, []any{heading})
	for _, item := range items {
		values = append(values, []any{item})
	}
	return values
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	// Write in batches to avoid API limits
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		valueRange := &sheets.ValueRange{
			Values: batch,
		}

		rangeStr := fmt.Sprintf("A%d", i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()

		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

func currencyColumn(column int64, totalRows int) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          0,
				StartRowIndex:    2,
				EndRowIndex:      int64(totalRows),
				StartColumnIndex: column,
				EndColumnIndex:   column + 1,
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					NumberFormat: &sheets.NumberFormat{
						Type:    "CURRENCY",
						Pattern: `"R$" #,##0.00`,
					},
				},
			},
			Fields: "userEnteredFormat.numberFormat",
		},
	}
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, totalRows int) error {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   2,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold:     true,
							FontSize: 16,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    2,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 0,
					EndColumnIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		currencyColumn(1, totalRows),
		currencyColumn(4, totalRows),
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   5,
				},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: 0,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}
