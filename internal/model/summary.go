package model

import "github.com/shopspring/decimal"

// MonthData is one month of the cash-flow history.
type MonthData struct {
	Month    string          `json:"month"`
	Receitas decimal.Decimal `json:"receitas"`
	Despesas decimal.Decimal `json:"despesas"`
	Saldo    decimal.Decimal `json:"saldo"`
}

// CategoryTotal is the spending of one category in the current month.
type CategoryTotal struct {
	Categoria string          `json:"categoria"`
	Total     decimal.Decimal `json:"total"`
}

// Trends holds month-over-month percentage deltas. A nil field means no baseline.
type Trends struct {
	Saldo    *float64 `json:"saldo"`
	Receitas *float64 `json:"receitas"`
	Despesas *float64 `json:"despesas"`
	Economia *float64 `json:"economia"`
}

// DashboardSummary is the aggregate snapshot behind the dashboard cards and charts.
type DashboardSummary struct {
	Trends             Trends          `json:"trends"`
	MonthsData         []MonthData     `json:"months_data"`
	CategoriasDespesas []CategoryTotal `json:"categorias_despesas"`
	Saldo              decimal.Decimal `json:"saldo"`
	Receitas           decimal.Decimal `json:"receitas"`
	Despesas           decimal.Decimal `json:"despesas"`
	Economia           decimal.Decimal `json:"economia"`
}

// MonthlyReport is the twelve-month breakdown for the current year.
type MonthlyReport []MonthData
