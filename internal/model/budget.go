package model

import "github.com/shopspring/decimal"

// BudgetStatus classifies how much of a budget line has been consumed.
type BudgetStatus int

// Budget statuses.
const (
	BudgetOK BudgetStatus = iota
	BudgetWarning
	BudgetDanger
)

// BudgetLine is the current month's limit for one category. Category is the natural key.
type BudgetLine struct {
	Category string          `json:"category"`
	Budget   decimal.Decimal `json:"budget"`
	Spent    decimal.Decimal `json:"spent"`
	Progress float64         `json:"progress"`
}

// Status returns danger above 90% and warning above 70%.
func (b BudgetLine) Status() BudgetStatus {
	switch {
	case b.Progress > 90:
		return BudgetDanger
	case b.Progress > 70:
		return BudgetWarning
	default:
		return BudgetOK
	}
}

// Remaining is the unspent part of the budget, which may be negative.
func (b BudgetLine) Remaining() decimal.Decimal {
	return b.Budget.Sub(b.Spent)
}

// BudgetPayload is the body of both budget create and budget update calls.
type BudgetPayload struct {
	Category     string          `json:"category"`
	BudgetAmount decimal.Decimal `json:"budget_amount"`
}
