package model

import "github.com/shopspring/decimal"

// ReportType selects the focus of a generated report.
type ReportType string

// Report types.
const (
	ReportFinancial     ReportType = "financial"
	ReportCategory      ReportType = "category"
	ReportTrends        ReportType = "trends"
	ReportQuickInsights ReportType = "quick_insights"
)

// ReportPeriod selects the time window of a generated report.
type ReportPeriod string

// Report periods.
const (
	PeriodCurrentMonth ReportPeriod = "current_month"
	PeriodLast3Months  ReportPeriod = "last_3_months"
	PeriodLast6Months  ReportPeriod = "last_6_months"
)

// ReportRequest is the body of a report generation call.
type ReportRequest struct {
	UserID     *int         `json:"user_id,omitempty"`
	ReportType ReportType   `json:"report_type"`
	Period     ReportPeriod `json:"period"`
	Categories []string     `json:"categories,omitempty"`
	Insights   bool         `json:"insights"`
}

// ReportSummary holds the totals of a report.
type ReportSummary struct {
	TotalReceitas   decimal.Decimal `json:"total_receitas"`
	TotalDespesas   decimal.Decimal `json:"total_despesas"`
	Saldo           decimal.Decimal `json:"saldo"`
	NumTransactions int             `json:"num_transactions"`
}

// ReportByCategory splits report totals per category.
type ReportByCategory struct {
	Despesas map[string]decimal.Decimal `json:"despesas"`
	Receitas map[string]decimal.Decimal `json:"receitas"`
}

// ReportTemporal holds the expense history keyed by "YYYY-MM".
type ReportTemporal struct {
	GastosMensais map[string]decimal.Decimal `json:"gastos_mensais"`
}

// ReportData is the body of a generated report.
type ReportData struct {
	ByCategory   ReportByCategory `json:"by_category"`
	Temporal     ReportTemporal   `json:"temporal"`
	Period       ReportPeriod     `json:"period"`
	Transactions []Transaction    `json:"transactions"`
	Summary      ReportSummary    `json:"summary"`
}

// Report is a generated report with its insights.
type Report struct {
	ReportType      ReportType `json:"report_type"`
	GeneratedAt     string     `json:"generated_at"`
	Insights        []string   `json:"insights"`
	Recommendations []string   `json:"recommendations"`
	Data            ReportData `json:"data"`
}
