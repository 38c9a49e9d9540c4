package devserver_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/finanmaster/internal/api"
	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/devserver"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newBackend starts a dev backend on a fresh database and returns a client
// for it.
func newBackend(t *testing.T) *api.Client {
	t.Helper()
	ctx := context.Background()

	db, err := devserver.Open(ctx, filepath.Join(t.TempDir(), "dev.db"), discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := httptest.NewServer(devserver.New(db,
		devserver.WithClock(func() time.Time { return fixedNow }),
		devserver.WithLogger(discard())).Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, api.WithLogger(discard()))
	require.NoError(t, err)
	return client
}

func register(t *testing.T, c *api.Client, email string) {
	t.Helper()
	_, err := c.Register(context.Background(), model.Registration{
		Username:     email,
		Email:        email,
		Password:     "segredo123",
		PasswordHint: "o de sempre",
	})
	require.NoError(t, err)
}

func TestAuthFlow(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()

	id, err := c.Identity(ctx)
	require.NoError(t, err)
	assert.False(t, id.Authenticated)

	_, err = c.ListTransactions(ctx)
	assert.ErrorIs(t, err, common.ErrAuthRequired)

	_, err = c.Register(ctx, model.Registration{Username: "ana"})
	assert.Equal(t, "Preencha todos os campos.", common.Message(err))

	register(t, c, "Ana@Example.com")
	id, err = c.Identity(ctx)
	require.NoError(t, err)
	assert.True(t, id.Authenticated, "registration logs in")
	require.NotNil(t, id.UserID)
	assert.Equal(t, "Ana@Example.com", id.Username)

	_, err = c.Register(ctx, model.Registration{Username: "outra", Email: "ana@example.com", Password: "x"})
	var serverErr *common.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusConflict, serverErr.Status)
	assert.Equal(t, "Usuário ou e-mail já cadastrado.", serverErr.Message)

	_, err = c.Logout(ctx)
	require.NoError(t, err)
	_, err = c.ListGoals(ctx)
	assert.ErrorIs(t, err, common.ErrAuthRequired)

	_, err = c.Login(ctx, model.Credentials{Email: "ana@example.com", Password: "errada"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrAuthRequired, "a rejected login is not an expired session")
	assert.Equal(t, "Credenciais inválidas.", common.Message(err))

	_, err = c.Login(ctx, model.Credentials{Email: "", Password: ""})
	assert.Equal(t, "Informe e-mail e senha.", common.Message(err))

	result, err := c.Login(ctx, model.Credentials{Email: " ANA@example.com ", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, "Login realizado com sucesso.", result.Message)

	hint, err := c.PasswordHint(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "o de sempre", hint)

	_, err = c.PasswordHint(ctx, "ninguem@example.com")
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusNotFound, serverErr.Status)
	assert.Equal(t, "Nenhuma dica cadastrada.", serverErr.Message)
}

func TestSessionsAreIsolated(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()

	register(t, c, "a@example.com")
	_, err := c.CreateTransaction(ctx, model.TransactionPayload{
		Description: "Mercado", Value: decimal.NewFromInt(10), Category: "Alimentação",
		Type: model.TypeExpense, Date: model.NewDate(2024, 3, 1),
	})
	require.NoError(t, err)

	_, err = c.Logout(ctx)
	require.NoError(t, err)
	register(t, c, "b@example.com")

	txs, err := c.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs, "users only see their own data")
}

func TestMutationRoundTrip(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()
	register(t, c, "rt@example.com")

	logger := discard()
	syncer := store.NewSyncer(store.New(logger), c, logger)
	require.NoError(t, syncer.LoadAll(ctx))
	ctrl := mutation.NewController(c, syncer, logger)
	st := syncer.Store()

	// Create.
	ctrl.OpenCreate(mutation.KindTransaction)
	ctrl.SetTransactionForm(mutation.TransactionForm{
		Description: "Salário", Value: "5000", Category: "Salário", Type: "Receita", Date: "2024-03-05",
	})
	result, err := ctrl.Submit(ctx, mutation.KindTransaction)
	require.NoError(t, err)
	assert.Equal(t, "Transação adicionada com sucesso!", result.Message)

	ctrl.OpenCreate(mutation.KindTransaction)
	ctrl.SetTransactionForm(mutation.TransactionForm{
		Description: "Mercado", Value: "300,50", Category: "Alimentação", Type: "Despesa", Date: "2024-03-10",
	})
	_, err = ctrl.Submit(ctx, mutation.KindTransaction)
	require.NoError(t, err)

	txs := st.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, "Mercado", txs[0].Description, "newest first")
	assert.Equal(t, "300.5", txs[0].Value.String())
	assert.Equal(t, "4699.5", st.Summary().Saldo.String())

	// Edit.
	require.NoError(t, ctrl.OpenEditTransaction(txs[0].ID))
	form := ctrl.TransactionForm()
	form.Value = "400"
	ctrl.SetTransactionForm(form)
	result, err = ctrl.Submit(ctx, mutation.KindTransaction)
	require.NoError(t, err)
	assert.Equal(t, "Transação atualizada com sucesso!", result.Message)

	edited, ok := st.Transaction(txs[0].ID)
	require.True(t, ok)
	assert.Equal(t, "400", edited.Value.String())
	assert.Equal(t, "4600", st.Summary().Saldo.String())

	// Budget create twice for one category leaves one line.
	for _, amount := range []string{"500", "800"} {
		ctrl.OpenCreate(mutation.KindBudget)
		ctrl.SetBudgetForm(mutation.BudgetForm{Category: "Alimentação", Amount: amount})
		_, err = ctrl.Submit(ctx, mutation.KindBudget)
		require.NoError(t, err)
	}
	lines := st.Budget()
	require.Len(t, lines, 1)
	assert.Equal(t, "800", lines[0].Budget.String())
	assert.Equal(t, "400", lines[0].Spent.String())
	assert.InDelta(t, 50.0, lines[0].Progress, 0.001)

	// Goals.
	ctrl.OpenCreate(mutation.KindGoal)
	ctrl.SetGoalForm(mutation.GoalForm{Title: "Viagem", Target: "2000", Deadline: "2024-12-31"})
	_, err = ctrl.Submit(ctx, mutation.KindGoal)
	require.NoError(t, err)
	goals := st.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, model.DefaultGoalIcon, goals[0].Icon)

	require.NoError(t, ctrl.OpenGoalProgress(goals[0].ID))
	ctrl.SetGoalProgressForm(mutation.GoalProgressForm{Current: "500"})
	result, err = ctrl.Submit(ctx, mutation.KindGoalProgress)
	require.NoError(t, err)
	assert.Equal(t, "Progresso atualizado com sucesso!", result.Message)
	goals = st.Goals()
	assert.InDelta(t, 25.0, goals[0].Progress, 0.001)

	// Delete.
	req, err := ctrl.RequestDelete(edited.ID)
	require.NoError(t, err)
	result, err = ctrl.ConfirmDelete(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Transação removida com sucesso!", result.Message)
	assert.Len(t, st.Transactions(), 1)
	assert.True(t, st.Budget()[0].Spent.IsZero(), "budget spending follows deletes")
	assert.Equal(t, "5000", st.Summary().Saldo.String())
}

func TestBudgetUpdateTwiceLeavesOneLine(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()
	register(t, c, "budget@example.com")

	_, err := c.UpdateBudget(ctx, model.BudgetPayload{Category: "Lazer", BudgetAmount: decimal.NewFromInt(100)})
	var serverErr *common.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusNotFound, serverErr.Status)
	assert.Equal(t, "Orçamento não encontrado para esta categoria.", serverErr.Message)

	_, err = c.CreateBudget(ctx, model.BudgetPayload{Category: "Lazer", BudgetAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	for _, amount := range []int64{200, 300} {
		result, err := c.UpdateBudget(ctx, model.BudgetPayload{Category: "Lazer", BudgetAmount: decimal.NewFromInt(amount)})
		require.NoError(t, err)
		assert.Equal(t, "Orçamento atualizado.", result.Message)
	}

	lines, err := c.ListBudget(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "300", lines[0].Budget.String())

	_, err = c.UpdateBudget(ctx, model.BudgetPayload{Category: "  ", BudgetAmount: decimal.NewFromInt(1)})
	assert.Equal(t, "Categoria é obrigatória.", common.Message(err))
}

func TestTransactionErrors(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()
	register(t, c, "err@example.com")

	_, err := c.UpdateTransaction(ctx, 999, model.TransactionPayload{Description: "x"})
	var serverErr *common.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusNotFound, serverErr.Status)

	_, err = c.DeleteTransaction(ctx, 999)
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusNotFound, serverErr.Status)

	_, err = c.CreateTransaction(ctx, model.TransactionPayload{
		Description: "Sem tipo", Value: decimal.NewFromInt(1), Category: "X",
		Type: "Outro", Date: model.NewDate(2024, 3, 1),
	})
	assert.Equal(t, "Tipo inválido. Use Receita ou Despesa.", common.Message(err))
}

func TestMonthlyReportEndpoint(t *testing.T) {
	c := newBackend(t)
	ctx := context.Background()
	register(t, c, "report@example.com")

	_, err := c.CreateTransaction(ctx, model.TransactionPayload{
		Description: "Bônus", Value: decimal.NewFromInt(700), Category: "Salário",
		Type: model.TypeIncome, Date: model.NewDate(2024, 2, 20),
	})
	require.NoError(t, err)

	report, err := c.MonthlyReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 12)
	assert.Equal(t, "Feb", report[1].Month)
	assert.Equal(t, "700", report[1].Saldo.String())
}
