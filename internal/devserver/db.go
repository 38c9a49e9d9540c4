package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// DB is the dev backend's SQLite store. Amounts are kept as decimal text.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: database path is empty", common.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func affectedOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, common.ErrNotFound)
	}
	return nil
}

type user struct {
	Username     string
	Email        string
	PasswordHash string
	Hint         sql.NullString
	ID           int
}

func (d *DB) createUser(ctx context.Context, u user) (int, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, password_hint) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.Hint)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("user %s: %w", u.Email, common.ErrDuplicateEntry)
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return int(id), nil
}

func (d *DB) userWhere(ctx context.Context, clause string, arg any) (*user, error) {
	var u user
	err := d.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, password_hint FROM users WHERE `+clause, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Hint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}

func (d *DB) userByEmail(ctx context.Context, email string) (*user, error) {
	return d.userWhere(ctx, "email = ?", email)
}

func (d *DB) userByID(ctx context.Context, id int) (*user, error) {
	return d.userWhere(ctx, "id = ?", id)
}

func (d *DB) createSession(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()
	if _, err := d.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id) VALUES (?, ?)`, token, userID); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

func (d *DB) sessionUser(ctx context.Context, token string) (int, error) {
	var userID int
	err := d.db.QueryRowContext(ctx, `SELECT user_id FROM sessions WHERE token = ?`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("session: %w", common.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load session: %w", err)
	}
	return userID, nil
}

func (d *DB) deleteSession(ctx context.Context, token string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func scanDate(raw string) (model.Date, error) {
	return model.ParseDate(raw)
}

func (d *DB) listTransactions(ctx context.Context, userID int) ([]model.Transaction, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, description, value, category, type, date
		FROM transactions
		WHERE user_id = ?
		ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	txs := []model.Transaction{}
	for rows.Next() {
		var (
			tx      model.Transaction
			typ     string
			rawDate string
		)
		if err := rows.Scan(&tx.ID, &tx.Description, &tx.Value, &tx.Category, &typ, &rawDate); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Type = model.TransactionType(typ)
		if tx.Date, err = scanDate(rawDate); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", tx.ID, err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (d *DB) transaction(ctx context.Context, userID, id int) (model.Transaction, error) {
	var (
		tx      model.Transaction
		typ     string
		rawDate string
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT id, description, value, category, type, date
		FROM transactions WHERE id = ? AND user_id = ?`, id, userID).
		Scan(&tx.ID, &tx.Description, &tx.Value, &tx.Category, &typ, &rawDate)
	if errors.Is(err, sql.ErrNoRows) {
		return tx, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return tx, fmt.Errorf("failed to load transaction: %w", err)
	}
	tx.Type = model.TransactionType(typ)
	tx.Date, err = scanDate(rawDate)
	return tx, err
}

func (d *DB) insertTransaction(ctx context.Context, userID int, p model.TransactionPayload) (int, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, description, value, category, type, date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, p.Description, p.Value, p.Category, string(p.Type), p.Date.String())
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (d *DB) updateTransaction(ctx context.Context, userID int, tx model.Transaction) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE transactions SET description = ?, value = ?, category = ?, type = ?, date = ?
		WHERE id = ? AND user_id = ?`,
		tx.Description, tx.Value, tx.Category, string(tx.Type), tx.Date.String(), tx.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return affectedOne(res, fmt.Sprintf("transaction %d", tx.ID))
}

func (d *DB) deleteTransaction(ctx context.Context, userID, id int) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return affectedOne(res, fmt.Sprintf("transaction %d", id))
}

func (d *DB) listGoals(ctx context.Context, userID int) ([]model.Goal, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, target, current, deadline, icon
		FROM goals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	goals := []model.Goal{}
	for rows.Next() {
		var (
			g       model.Goal
			rawDate string
		)
		if err := rows.Scan(&g.ID, &g.Title, &g.Target, &g.Current, &rawDate, &g.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if g.Deadline, err = scanDate(rawDate); err != nil {
			return nil, fmt.Errorf("goal %d: %w", g.ID, err)
		}
		g.Progress = percent(g.Current, g.Target)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (d *DB) insertGoal(ctx context.Context, userID int, p model.GoalPayload) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO goals (user_id, title, target, current, deadline, icon)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, p.Title, p.Target, p.Current, p.Deadline.String(), p.Icon)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}
	return nil
}

func (d *DB) setGoalCurrent(ctx context.Context, userID, id int, current decimal.Decimal) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE goals SET current = ? WHERE id = ? AND user_id = ?`, current, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return affectedOne(res, fmt.Sprintf("goal %d", id))
}

// budgetRow is a stored budget line before spending is joined in.
type budgetRow struct {
	Category string
	Amount   decimal.Decimal
}

func (d *DB) budgetRows(ctx context.Context, userID int, period time.Time) ([]budgetRow, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT category, budget_amount FROM budgets
		WHERE user_id = ? AND year = ? AND month = ?
		ORDER BY id`, userID, period.Year(), int(period.Month()))
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []budgetRow
	for rows.Next() {
		var b budgetRow
		if err := rows.Scan(&b.Category, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (d *DB) insertBudget(ctx context.Context, userID int, period time.Time, p model.BudgetPayload) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, category, budget_amount, month, year)
		VALUES (?, ?, ?, ?, ?)`,
		userID, p.Category, p.BudgetAmount, int(period.Month()), period.Year())
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// updateBudget changes the first line of the period for p.Category.
func (d *DB) updateBudget(ctx context.Context, userID int, period time.Time, p model.BudgetPayload) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE budgets SET budget_amount = ?
		WHERE id = (
			SELECT id FROM budgets
			WHERE user_id = ? AND year = ? AND month = ? AND category = ?
			ORDER BY id LIMIT 1
		)`,
		p.BudgetAmount, userID, period.Year(), int(period.Month()), p.Category)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return affectedOne(res, fmt.Sprintf("budget %q", p.Category))
}
