package mutation

import (
	"strings"

	"github.com/Veraticus/finanmaster/internal/model"
)

// Criteria narrows the transaction list. Empty fields match everything.
type Criteria struct {
	Search   string
	Category string
	Type     model.TransactionType
}

// IsZero reports whether the criteria match every transaction.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" && c.Category == "" && c.Type == ""
}

// Matches reports whether tx satisfies the criteria. Search is a
// case-insensitive substring of the description; category and type must
// match exactly.
func (c Criteria) Matches(tx model.Transaction) bool {
	if search := strings.TrimSpace(c.Search); search != "" &&
		!strings.Contains(strings.ToLower(tx.Description), strings.ToLower(search)) {
		return false
	}
	if c.Category != "" && tx.Category != c.Category {
		return false
	}
	if c.Type != "" && tx.Type != c.Type {
		return false
	}
	return true
}

// Filter returns the transactions matching every criteria, in their
// original order. It never modifies txs.
func Filter(txs []model.Transaction, criteria ...Criteria) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
outer:
	for _, tx := range txs {
		for _, c := range criteria {
			if !c.Matches(tx) {
				continue outer
			}
		}
		out = append(out, tx)
	}
	return out
}
