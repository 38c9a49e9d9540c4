// Package model defines the finance entities exchanged with the backend.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType is the income/expense discriminator. Wire values are Portuguese.
type TransactionType string

// Transaction types.
const (
	TypeIncome  TransactionType = "Receita"
	TypeExpense TransactionType = "Despesa"
)

// TransactionTypes lists every valid type in display order.
var TransactionTypes = []TransactionType{TypeIncome, TypeExpense}

// ParseTransactionType accepts the wire values and their English names, case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "receita", "income":
		return TypeIncome, nil
	case "despesa", "expense":
		return TypeExpense, nil
	}
	return "", fmt.Errorf("invalid transaction type %q: use Receita or Despesa", s)
}

// Valid reports whether t is one of the defined types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense record owned by the backend.
type Transaction struct {
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Value       decimal.Decimal `json:"value"`
	ID          int             `json:"id"`
}

// Signed returns the value with expenses negated.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Value.Neg()
	}
	return t.Value
}

// Payload returns the writable fields of t.
func (t Transaction) Payload() TransactionPayload {
	return TransactionPayload{
		Description: t.Description,
		Value:       t.Value,
		Category:    t.Category,
		Type:        t.Type,
		Date:        t.Date,
	}
}

// TransactionPayload is the body of transaction create and update calls.
type TransactionPayload struct {
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Value       decimal.Decimal `json:"value"`
}

// Hash identifies a payload for duplicate detection during imports.
func (p TransactionPayload) Hash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		p.Date.String(),
		p.Value.StringFixed(2),
		p.Type,
		strings.ToLower(p.Description))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Matches reports whether tx carries the same fields as p.
func (p TransactionPayload) Matches(tx Transaction) bool {
	return tx.Description == p.Description &&
		tx.Value.Equal(p.Value) &&
		tx.Category == p.Category &&
		tx.Type == p.Type &&
		tx.Date.Equal(p.Date.Time)
}
