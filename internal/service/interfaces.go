// Package service defines the contracts between the client's components.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/finanmaster/internal/model"
)

// Reader fetches the backend collections.
type Reader interface {
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	ListGoals(ctx context.Context) ([]model.Goal, error)
	ListBudget(ctx context.Context) ([]model.BudgetLine, error)
	Summary(ctx context.Context) (*model.DashboardSummary, error)
	Identity(ctx context.Context) (*model.Identity, error)
}

// Writer issues the backend mutations. Every call returns the server's result
// message on success and an error otherwise.
type Writer interface {
	CreateTransaction(ctx context.Context, p model.TransactionPayload) (*model.MutationResult, error)
	UpdateTransaction(ctx context.Context, id int, p model.TransactionPayload) (*model.MutationResult, error)
	DeleteTransaction(ctx context.Context, id int) (*model.MutationResult, error)
	CreateGoal(ctx context.Context, p model.GoalPayload) (*model.MutationResult, error)
	UpdateGoalProgress(ctx context.Context, id int, p model.GoalProgressPayload) (*model.MutationResult, error)
	CreateBudget(ctx context.Context, p model.BudgetPayload) (*model.MutationResult, error)
	UpdateBudget(ctx context.Context, p model.BudgetPayload) (*model.MutationResult, error)
}

// Gateway is the full backend surface used by the dashboard.
type Gateway interface {
	Reader
	Writer
}

// MonthlyReporter fetches the twelve-month breakdown of the current year.
type MonthlyReporter interface {
	MonthlyReport(ctx context.Context) (model.MonthlyReport, error)
}

// Assistant answers free-text questions and generates reports.
type Assistant interface {
	Analyze(ctx context.Context, path string, req AssistantRequest) (*AssistantReply, error)
	GenerateReport(ctx context.Context, req model.ReportRequest) (*model.Report, error)
}

// AssistantRequest is the body of an assistant query.
type AssistantRequest struct {
	Context map[string]any `json:"context,omitempty"`
	UserID  *int           `json:"user_id,omitempty"`
	Query   string         `json:"query"`
}

// AssistantReply is the assistant's answer with the UI actions it requests.
type AssistantReply struct {
	Response   string           `json:"response"`
	Actions    model.Directives `json:"actions"`
	Confidence float64          `json:"confidence"`
}

// ReportWriter exports a generated report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, report *model.Report) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
