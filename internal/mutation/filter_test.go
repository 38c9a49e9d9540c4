package mutation

import (
	"testing"

	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func filterFixture() []model.Transaction {
	tx := func(id int, desc, cat string, typ model.TransactionType) model.Transaction {
		return model.Transaction{ID: id, Description: desc, Category: cat, Type: typ, Value: decimal.NewFromInt(int64(id))}
	}
	return []model.Transaction{
		tx(1, "Mercado Extra", "Alimentação", model.TypeExpense),
		tx(2, "Salário março", "Salário", model.TypeIncome),
		tx(3, "mercado livre", "Compras", model.TypeExpense),
		tx(4, "Restaurante", "Alimentação", model.TypeExpense),
		tx(5, "Reembolso mercado", "Alimentação", model.TypeIncome),
	}
}

func ids(txs []model.Transaction) []int {
	out := make([]int, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []int
	}{
		{name: "zero criteria keeps all", criteria: Criteria{}, want: []int{1, 2, 3, 4, 5}},
		{name: "case-insensitive search", criteria: Criteria{Search: "MERCADO"}, want: []int{1, 3, 5}},
		{name: "category exact", criteria: Criteria{Category: "Alimentação"}, want: []int{1, 4, 5}},
		{name: "type exact", criteria: Criteria{Type: model.TypeIncome}, want: []int{2, 5}},
		{name: "all fields", criteria: Criteria{Search: "mercado", Category: "Alimentação", Type: model.TypeExpense}, want: []int{1}},
		{name: "whitespace search ignored", criteria: Criteria{Search: "   "}, want: []int{1, 2, 3, 4, 5}},
		{name: "no match", criteria: Criteria{Category: "alimentação"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(filterFixture(), tt.criteria)))
		})
	}
}

func TestFilter_IdempotentAndComposable(t *testing.T) {
	all := filterFixture()
	criteria := []Criteria{
		{},
		{Search: "mercado"},
		{Category: "Alimentação"},
		{Type: model.TypeExpense},
		{Search: "re", Type: model.TypeIncome},
	}

	for _, p1 := range criteria {
		once := Filter(all, p1)
		assert.Equal(t, once, Filter(once, p1), "filter is idempotent for %+v", p1)

		for _, p2 := range criteria {
			assert.Equal(t, Filter(all, p1, p2), Filter(Filter(all, p1), p2), "%+v then %+v", p1, p2)
		}
	}
	assert.Equal(t, filterFixture(), all, "input is never modified")
}

func TestCriteria_IsZero(t *testing.T) {
	assert.True(t, Criteria{Search: " "}.IsZero())
	assert.False(t, Criteria{Type: model.TypeExpense}.IsZero())
}
