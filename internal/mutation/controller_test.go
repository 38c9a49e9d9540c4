package mutation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway records writes and serves reads from in-memory slices.
type fakeGateway struct {
	writeErr error
	calls    []string
	txns     []model.Transaction
	goals    []model.Goal
	budget   []model.BudgetLine
	reads    map[string]int
	mu       sync.Mutex
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) read(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reads == nil {
		f.reads = make(map[string]int)
	}
	f.reads[name]++
}

func (f *fakeGateway) ListTransactions(context.Context) ([]model.Transaction, error) {
	f.read("transactions")
	return f.txns, nil
}

func (f *fakeGateway) ListGoals(context.Context) ([]model.Goal, error) {
	f.read("goals")
	return f.goals, nil
}

func (f *fakeGateway) ListBudget(context.Context) ([]model.BudgetLine, error) {
	f.read("budget")
	return f.budget, nil
}

func (f *fakeGateway) Summary(context.Context) (*model.DashboardSummary, error) {
	f.read("summary")
	return &model.DashboardSummary{}, nil
}

func (f *fakeGateway) Identity(context.Context) (*model.Identity, error) {
	return &model.Identity{Authenticated: true}, nil
}

func (f *fakeGateway) result(call string) (*model.MutationResult, error) {
	f.record(call)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &model.MutationResult{Success: true, Message: call + " ok"}, nil
}

func (f *fakeGateway) CreateTransaction(context.Context, model.TransactionPayload) (*model.MutationResult, error) {
	return f.result("create_transaction")
}

func (f *fakeGateway) UpdateTransaction(context.Context, int, model.TransactionPayload) (*model.MutationResult, error) {
	return f.result("update_transaction")
}

func (f *fakeGateway) DeleteTransaction(context.Context, int) (*model.MutationResult, error) {
	return f.result("delete_transaction")
}

func (f *fakeGateway) CreateGoal(context.Context, model.GoalPayload) (*model.MutationResult, error) {
	return f.result("create_goal")
}

func (f *fakeGateway) UpdateGoalProgress(context.Context, int, model.GoalProgressPayload) (*model.MutationResult, error) {
	return f.result("update_goal")
}

func (f *fakeGateway) CreateBudget(context.Context, model.BudgetPayload) (*model.MutationResult, error) {
	return f.result("create_budget")
}

func (f *fakeGateway) UpdateBudget(context.Context, model.BudgetPayload) (*model.MutationResult, error) {
	return f.result("update_budget")
}

func newController(t *testing.T, gw *fakeGateway) *Controller {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	syncer := store.NewSyncer(store.New(logger), gw, logger)
	require.NoError(t, syncer.LoadAll(context.Background()))
	gw.reads = nil
	return NewController(gw, syncer, logger)
}

func seededGateway() *fakeGateway {
	return &fakeGateway{
		txns: []model.Transaction{
			{ID: 1, Description: "Mercado", Category: "Alimentação", Type: model.TypeExpense, Value: decimal.NewFromInt(100), Date: model.NewDate(2024, 3, 1)},
		},
		goals:  []model.Goal{{ID: 2, Title: "Viagem", Target: decimal.NewFromInt(1000), Current: decimal.NewFromInt(250)}},
		budget: []model.BudgetLine{{Category: "Lazer", Budget: decimal.NewFromInt(300)}},
	}
}

func validTransactionForm() TransactionForm {
	return TransactionForm{Description: "Cinema", Value: "40", Category: "Lazer", Type: "Despesa", Date: "2024-03-10"}
}

func TestController_CreateSuccess(t *testing.T) {
	gw := seededGateway()
	c := newController(t, gw)

	c.OpenCreate(KindTransaction)
	c.SetTransactionForm(validTransactionForm())

	result, err := c.Submit(context.Background(), KindTransaction)
	require.NoError(t, err)
	assert.Equal(t, "create_transaction ok", result.Message)

	st := c.State(KindTransaction)
	assert.False(t, st.Open, "modal closes on success")
	assert.NoError(t, st.Err)
	assert.Equal(t, TransactionForm{}, c.TransactionForm(), "fields reset")

	assert.Equal(t, 1, gw.reads["transactions"])
	assert.Equal(t, 1, gw.reads["budget"], "transactions move budget spending")
	assert.Equal(t, 1, gw.reads["summary"])
	assert.Zero(t, gw.reads["goals"])
}

func TestController_ValidationKeepsModalOpen(t *testing.T) {
	gw := seededGateway()
	c := newController(t, gw)

	c.OpenCreate(KindTransaction)
	form := validTransactionForm()
	form.Value = "abc"
	c.SetTransactionForm(form)

	_, err := c.Submit(context.Background(), KindTransaction)
	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)

	st := c.State(KindTransaction)
	assert.True(t, st.Open)
	assert.ErrorAs(t, st.Err, &verr)
	assert.Equal(t, form, c.TransactionForm(), "input is kept")
	assert.Empty(t, gw.calls, "nothing is sent")
}

func TestController_ServerFailureKeepsInput(t *testing.T) {
	gw := seededGateway()
	gw.writeErr = &common.ServerError{Status: 400, Message: "Data inválida."}
	c := newController(t, gw)

	c.OpenCreate(KindTransaction)
	c.SetTransactionForm(validTransactionForm())

	_, err := c.Submit(context.Background(), KindTransaction)
	require.Error(t, err)

	st := c.State(KindTransaction)
	assert.True(t, st.Open)
	assert.Equal(t, "Data inválida.", common.Message(st.Err))
	assert.Equal(t, validTransactionForm(), c.TransactionForm())
	assert.Empty(t, gw.reads, "no refetch after a failed write")
}

func TestController_EditModes(t *testing.T) {
	gw := seededGateway()
	c := newController(t, gw)
	ctx := context.Background()

	require.NoError(t, c.OpenEditTransaction(1))
	st := c.State(KindTransaction)
	assert.Equal(t, ModeEdit, st.Mode)
	assert.Equal(t, 1, st.TargetID)
	assert.Equal(t, "Mercado", c.TransactionForm().Description)
	_, err := c.Submit(ctx, KindTransaction)
	require.NoError(t, err)
	assert.Equal(t, ModeCreate, c.State(KindTransaction).Mode, "edit target cleared")

	require.NoError(t, c.OpenGoalProgress(2))
	assert.Equal(t, "250.00", c.GoalProgressForm().Current)
	c.SetGoalProgressForm(GoalProgressForm{Current: "300"})
	_, err = c.Submit(ctx, KindGoalProgress)
	require.NoError(t, err)

	require.NoError(t, c.OpenEditBudget("Lazer"))
	_, err = c.Submit(ctx, KindBudget)
	require.NoError(t, err)

	assert.Equal(t, []string{"update_transaction", "update_goal", "update_budget"}, gw.calls)

	assert.ErrorIs(t, c.OpenEditTransaction(99), common.ErrNotFound)
	assert.ErrorIs(t, c.OpenGoalProgress(99), common.ErrNotFound)
	assert.ErrorIs(t, c.OpenEditBudget("Nada"), common.ErrNotFound)
}

func TestController_BudgetCreateUpserts(t *testing.T) {
	tests := []struct {
		name     string
		category string
		wantCall string
	}{
		{name: "new category creates", category: "Transporte", wantCall: "create_budget"},
		{name: "existing category updates", category: "Lazer", wantCall: "update_budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := seededGateway()
			c := newController(t, gw)

			c.OpenCreate(KindBudget)
			c.SetBudgetForm(BudgetForm{Category: tt.category, Amount: "200"})
			_, err := c.Submit(context.Background(), KindBudget)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.wantCall}, gw.calls)
		})
	}
}

func TestController_GoalCreate(t *testing.T) {
	gw := seededGateway()
	c := newController(t, gw)

	c.OpenCreate(KindGoal)
	c.SetGoalForm(GoalForm{Title: "Reserva", Target: "10000", Deadline: "2025-06-30"})
	_, err := c.Submit(context.Background(), KindGoal)
	require.NoError(t, err)

	assert.Equal(t, []string{"create_goal"}, gw.calls)
	assert.Equal(t, 1, gw.reads["goals"])
	assert.Equal(t, 1, gw.reads["summary"])
}

func TestController_DeleteRequiresConfirmation(t *testing.T) {
	gw := seededGateway()
	c := newController(t, gw)
	ctx := context.Background()

	_, err := c.ConfirmDelete(ctx, DeleteRequest{ID: 1})
	assert.ErrorIs(t, err, ErrNoPendingDelete, "a hand-made request is rejected")
	assert.Empty(t, gw.calls)

	req, err := c.RequestDelete(1)
	require.NoError(t, err)
	assert.Equal(t, "Mercado", req.Description)

	pending, ok := c.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, req, pending)

	c.CancelDelete()
	_, err = c.ConfirmDelete(ctx, req)
	assert.ErrorIs(t, err, ErrNoPendingDelete, "cancelled requests cannot be confirmed")

	first, err := c.RequestDelete(1)
	require.NoError(t, err)
	second, err := c.RequestDelete(1)
	require.NoError(t, err)
	_, err = c.ConfirmDelete(ctx, first)
	assert.ErrorIs(t, err, ErrNoPendingDelete, "superseded requests cannot be confirmed")

	_, err = c.ConfirmDelete(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, []string{"delete_transaction"}, gw.calls)
	assert.Equal(t, 1, gw.reads["transactions"])

	_, err = c.ConfirmDelete(ctx, second)
	assert.ErrorIs(t, err, ErrNoPendingDelete, "a request is used once")

	_, err = c.RequestDelete(42)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestAffected(t *testing.T) {
	assert.Equal(t, []store.Collection{store.Transactions, store.Budget, store.Summary}, Affected(KindTransaction))
	assert.Equal(t, []store.Collection{store.Goals, store.Summary}, Affected(KindGoalProgress))
	assert.Nil(t, Affected(Kind("other")))
}
