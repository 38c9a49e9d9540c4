package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeReader returns canned data; a non-nil error field makes that call fail.
type fakeReader struct {
	txErr      error
	goalErr    error
	budgetErr  error
	summaryErr error
	identity   *model.Identity
	summary    *model.DashboardSummary
	txns       []model.Transaction
	goals      []model.Goal
	budget     []model.BudgetLine
	calls      map[string]int
	mu         sync.Mutex
}

func (f *fakeReader) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeReader) ListTransactions(context.Context) ([]model.Transaction, error) {
	f.hit("transactions")
	return f.txns, f.txErr
}

func (f *fakeReader) ListGoals(context.Context) ([]model.Goal, error) {
	f.hit("goals")
	return f.goals, f.goalErr
}

func (f *fakeReader) ListBudget(context.Context) ([]model.BudgetLine, error) {
	f.hit("budget")
	return f.budget, f.budgetErr
}

func (f *fakeReader) Summary(context.Context) (*model.DashboardSummary, error) {
	f.hit("summary")
	return f.summary, f.summaryErr
}

func (f *fakeReader) Identity(context.Context) (*model.Identity, error) {
	f.hit("identity")
	if f.identity == nil {
		return nil, common.ErrAuthRequired
	}
	return f.identity, nil
}

func sampleTxns() []model.Transaction {
	return []model.Transaction{
		{ID: 1, Description: "Mercado", Category: "Alimentação", Type: model.TypeExpense, Value: decimal.NewFromInt(100)},
		{ID: 2, Description: "Salário", Category: "Salário", Type: model.TypeIncome, Value: decimal.NewFromInt(5000)},
	}
}

func TestStore_StaleResponseDiscarded(t *testing.T) {
	s := New(quietLogger())

	older := s.Begin(Transactions)
	newer := s.Begin(Transactions)

	assert.True(t, s.State(Transactions).Loading)
	assert.True(t, s.ApplyTransactions(newer, sampleTxns()))
	assert.False(t, s.State(Transactions).Loading)

	assert.False(t, s.ApplyTransactions(older, nil), "older response must not overwrite")
	assert.Len(t, s.Transactions(), 2)
}

func TestStore_LoadingUntilLatestTicket(t *testing.T) {
	s := New(quietLogger())

	first := s.Begin(Goals)
	_ = s.Begin(Goals)

	require.True(t, s.ApplyGoals(first, []model.Goal{{ID: 1}}))
	assert.True(t, s.State(Goals).Loading, "a newer fetch is still in flight")
	assert.True(t, s.State(Goals).Loaded())
}

func TestStore_FailKeepsSnapshot(t *testing.T) {
	s := New(quietLogger())
	require.True(t, s.ApplyTransactions(s.Begin(Transactions), sampleTxns()))
	before := s.Transactions()

	boom := errors.New("boom")
	assert.True(t, s.Fail(s.Begin(Transactions), boom))

	assert.Equal(t, before, s.Transactions())
	st := s.State(Transactions)
	assert.ErrorIs(t, st.Err, boom)
	assert.False(t, st.Loading)

	require.True(t, s.ApplyTransactions(s.Begin(Transactions), sampleTxns()[:1]))
	assert.NoError(t, s.State(Transactions).Err, "a successful fetch clears the error")
}

func TestStore_FailFromStaleTicketIgnored(t *testing.T) {
	s := New(quietLogger())
	older := s.Begin(Budget)
	require.True(t, s.ApplyBudget(s.Begin(Budget), []model.BudgetLine{{Category: "Lazer"}}))

	assert.False(t, s.Fail(older, errors.New("late failure")))
	assert.NoError(t, s.State(Budget).Err)
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	s := New(quietLogger())
	require.True(t, s.ApplyTransactions(s.Begin(Transactions), sampleTxns()))

	got := s.Transactions()
	got[0].Description = "changed"

	tx, ok := s.Transaction(1)
	require.True(t, ok)
	assert.Equal(t, "Mercado", tx.Description)
}

func TestStore_Lookups(t *testing.T) {
	s := New(quietLogger())
	s.ApplyTransactions(s.Begin(Transactions), sampleTxns())
	s.ApplyGoals(s.Begin(Goals), []model.Goal{{ID: 5, Title: "Viagem"}})
	s.ApplyBudget(s.Begin(Budget), []model.BudgetLine{{Category: "Alimentação"}, {Category: "Lazer"}})

	g, ok := s.Goal(5)
	require.True(t, ok)
	assert.Equal(t, "Viagem", g.Title)

	_, ok = s.Goal(6)
	assert.False(t, ok)

	_, ok = s.BudgetLine("Lazer")
	assert.True(t, ok)

	assert.Equal(t, []string{"Alimentação", "Salário", "Lazer"}, s.Categories())
}

func TestSyncer_LoadAll_IndependentFailures(t *testing.T) {
	reader := &fakeReader{
		txns:       sampleTxns(),
		goals:      []model.Goal{{ID: 1}},
		budgetErr:  &common.ServerError{Status: 500, Message: "db down"},
		summary:    &model.DashboardSummary{Saldo: decimal.NewFromInt(4900)},
		summaryErr: nil,
	}
	s := New(quietLogger())
	syncer := NewSyncer(s, reader, quietLogger())

	err := syncer.LoadAll(context.Background())
	require.Error(t, err)

	var serverErr *common.ServerError
	assert.ErrorAs(t, err, &serverErr)

	assert.Len(t, s.Transactions(), 2)
	assert.Len(t, s.Goals(), 1)
	require.NotNil(t, s.Summary())
	assert.True(t, s.Summary().Saldo.Equal(decimal.NewFromInt(4900)))
	assert.Error(t, s.State(Budget).Err)
	assert.False(t, s.State(Budget).Loaded())

	for _, name := range []string{"transactions", "goals", "budget", "summary"} {
		assert.Equal(t, 1, reader.calls[name], name)
	}
}

func TestSyncer_FailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	reader := &fakeReader{txns: sampleTxns()}
	s := New(quietLogger())
	syncer := NewSyncer(s, reader, quietLogger())

	require.NoError(t, syncer.RefreshTransactions(context.Background()))
	before := s.Transactions()

	reader.txErr = &common.NetworkError{Method: "GET", URL: "/api/transactions", Err: errors.New("refused")}
	err := syncer.RefreshTransactions(context.Background())

	var netErr *common.NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.Equal(t, before, s.Transactions())
}

func TestSyncer_EnsureIdentity(t *testing.T) {
	userID := 7
	tests := []struct {
		identity *model.Identity
		wantErr  error
		wantUser *int
		name     string
	}{
		{name: "authenticated", identity: &model.Identity{Authenticated: true, UserID: &userID, Username: "ana"}, wantUser: &userID},
		{name: "anonymous", identity: &model.Identity{Authenticated: false}, wantErr: common.ErrAuthRequired},
		{name: "backend rejects", identity: nil, wantErr: common.ErrAuthRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(quietLogger())
			syncer := NewSyncer(s, &fakeReader{identity: tt.identity}, quietLogger())

			_, err := syncer.EnsureIdentity(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantUser, s.UserID())
		})
	}
}

func TestSyncer_RefreshUnknownCollection(t *testing.T) {
	syncer := NewSyncer(New(nil), &fakeReader{}, nil)
	assert.Error(t, syncer.Refresh(context.Background(), Collection("nope")))
}
