package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
)

// Backend paths.
const (
	pathSummary       = "/api/dashboard-data"
	pathTransactions  = "/api/transactions"
	pathGoals         = "/api/goals"
	pathBudget        = "/api/budget"
	pathMe            = "/api/me"
	pathLogin         = "/api/login"
	pathLogout        = "/api/logout"
	pathRegister      = "/api/register"
	pathPasswordHint  = "/api/password-hint"
	pathMonthlyReport = "/api/reports/monthly"
)

// transactionList accepts both a bare array and a {"transactions": [...]}
// envelope.
type transactionList []model.Transaction

func (l *transactionList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []model.Transaction
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var envelope struct {
		Transactions []model.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	*l = envelope.Transactions
	return nil
}

// ListTransactions fetches every transaction of the current user.
func (c *Client) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	var list transactionList
	if _, err := c.do(ctx, http.MethodGet, pathTransactions, nil, &list); err != nil {
		return nil, err
	}
	return []model.Transaction(list), nil
}

// ListGoals fetches the user's goals.
func (c *Client) ListGoals(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	if _, err := c.do(ctx, http.MethodGet, pathGoals, nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// ListBudget fetches the current month's budget lines.
func (c *Client) ListBudget(ctx context.Context) ([]model.BudgetLine, error) {
	var lines []model.BudgetLine
	if _, err := c.do(ctx, http.MethodGet, pathBudget, nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Summary fetches the dashboard aggregates.
func (c *Client) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	var summary model.DashboardSummary
	if _, err := c.do(ctx, http.MethodGet, pathSummary, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Identity asks the backend who the session belongs to.
func (c *Client) Identity(ctx context.Context) (*model.Identity, error) {
	var identity model.Identity
	if _, err := c.do(ctx, http.MethodGet, pathMe, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// MonthlyReport fetches the twelve-month breakdown of the current year.
func (c *Client) MonthlyReport(ctx context.Context) (model.MonthlyReport, error) {
	var report model.MonthlyReport
	if _, err := c.do(ctx, http.MethodGet, pathMonthlyReport, nil, &report); err != nil {
		return nil, err
	}
	return report, nil
}

// mutate sends a write call. A 2xx reply with success=false is still a
// failure.
func (c *Client) mutate(ctx context.Context, method, path string, body any) (*model.MutationResult, error) {
	var result model.MutationResult
	status, err := c.do(ctx, method, path, body, &result)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &common.ServerError{Status: status, Message: result.Message}
	}
	return &result, nil
}

// CreateTransaction records a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, p model.TransactionPayload) (*model.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, pathTransactions, p)
}

// UpdateTransaction replaces the fields of transaction id.
func (c *Client) UpdateTransaction(ctx context.Context, id int, p model.TransactionPayload) (*model.MutationResult, error) {
	return c.mutate(ctx, http.MethodPut, pathTransactions+"/"+strconv.Itoa(id), p)
}

// DeleteTransaction removes transaction id.
func (c *Client) DeleteTransaction(ctx context.Context, id int) (*model.MutationResult, error) {
	return c.mutate(ctx, http.MethodDelete, pathTransactions+"/"+strconv.Itoa(id), nil)
}

// CreateGoal records a new goal.
func (c *Client) CreateGoal(ctx context.Context, p model.GoalPayload) (*model.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, pathGoals, p)
}

// UpdateGoalProgress sets the saved amount of goal id.
func (c *Client) UpdateGoalProgress(ctx context.Context, id int, p model.GoalProgressPayload) (*model.MutationResult, error) {
	return c.mutate(ctx, http.MethodPut, pathGoals+"/"+strconv.Itoa(id), p)
}

// CreateBudget adds a budget line for the current month.
func (c *Client) CreateBudget(ctx context.Context, p model.BudgetPayload) (*model.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, pathBudget, p)
}

// UpdateBudget changes the amount of the current month's line for p.Category.
func (c *Client) UpdateBudget(ctx context.Context, p model.BudgetPayload) (*model.MutationResult, error) {
	return c.mutate(ctx, http.MethodPut, pathBudget, p)
}

// Login opens a session. The session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.MutationResult, error) {
	result, err := c.mutate(ctx, http.MethodPost, pathLogin, creds)
	if err != nil {
		// A rejected login is not an expired session.
		var serverErr *common.ServerError
		if errors.Is(err, common.ErrAuthRequired) && errors.As(err, &serverErr) {
			return nil, serverErr
		}
		return nil, err
	}
	if result.Message == "" {
		result.Message = "Login realizado com sucesso."
	}
	return result, nil
}

// Logout closes the session on the backend.
func (c *Client) Logout(ctx context.Context) (*model.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, pathLogout, struct{}{})
}

// Register creates an account. The backend logs the new user in.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, pathRegister, reg)
}

// PasswordHint returns the hint stored for email.
func (c *Client) PasswordHint(ctx context.Context, email string) (string, error) {
	var reply struct {
		Message string `json:"message"`
		Hint    string `json:"hint"`
		Success bool   `json:"success"`
	}
	status, err := c.do(ctx, http.MethodPost, pathPasswordHint, map[string]string{"email": email}, &reply)
	if err != nil {
		return "", err
	}
	if !reply.Success {
		return "", &common.ServerError{Status: status, Message: reply.Message}
	}
	if reply.Hint == "" {
		return "", fmt.Errorf("password hint for %s: %w", email, common.ErrNotFound)
	}
	return reply.Hint, nil
}
