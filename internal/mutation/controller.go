package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/service"
	"github.com/Veraticus/finanmaster/internal/store"
)

// Kind names a form.
type Kind string

// Form kinds.
const (
	KindTransaction  Kind = "transaction"
	KindGoal         Kind = "goal"
	KindGoalProgress Kind = "goal_progress"
	KindBudget       Kind = "budget"
)

// Mode tells whether a submit creates or updates.
type Mode int

// Form modes.
const (
	ModeCreate Mode = iota
	ModeEdit
)

// FormState is the modal state of one form kind.
type FormState struct {
	Err            error
	TargetCategory string
	TargetID       int
	Mode           Mode
	Open           bool
}

// Affected lists the collections to refetch after a successful mutation of
// kind. Transactions also move budget spending.
func Affected(kind Kind) []store.Collection {
	switch kind {
	case KindTransaction:
		return []store.Collection{store.Transactions, store.Budget, store.Summary}
	case KindGoal, KindGoalProgress:
		return []store.Collection{store.Goals, store.Summary}
	case KindBudget:
		return []store.Collection{store.Budget, store.Summary}
	default:
		return nil
	}
}

// DeleteRequest is a pending deletion. Only RequestDelete creates one, so
// nothing can be deleted without going through the confirmation step.
type DeleteRequest struct {
	Description string
	ID          int
	token       uint64
}

// Controller owns the form state of one dashboard session. It is safe for
// concurrent use: submits run off the event loop while views read state.
type Controller struct {
	writer   service.Writer
	syncer   *store.Syncer
	logger   *slog.Logger
	states   map[Kind]*FormState
	pending  *DeleteRequest
	tx       TransactionForm
	goal     GoalForm
	progress GoalProgressForm
	budget   BudgetForm
	tokens   uint64
	mu       sync.Mutex
}

// NewController creates a controller writing through writer and refetching
// through syncer.
func NewController(writer service.Writer, syncer *store.Syncer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		writer: writer,
		syncer: syncer,
		logger: logger,
		states: make(map[Kind]*FormState),
	}
	for _, k := range []Kind{KindTransaction, KindGoal, KindGoalProgress, KindBudget} {
		c.states[k] = &FormState{}
	}
	return c
}

func (c *Controller) state(kind Kind) *FormState {
	st, ok := c.states[kind]
	if !ok {
		st = &FormState{}
		c.states[kind] = st
	}
	return st
}

// State returns a copy of kind's modal state.
func (c *Controller) State(kind Kind) FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.state(kind)
}

func (c *Controller) resetFields(kind Kind) {
	switch kind {
	case KindTransaction:
		c.tx = TransactionForm{}
	case KindGoal:
		c.goal = GoalForm{}
	case KindGoalProgress:
		c.progress = GoalProgressForm{}
	case KindBudget:
		c.budget = BudgetForm{}
	}
}

// OpenCreate opens kind's modal empty, in create mode.
func (c *Controller) OpenCreate(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetFields(kind)
	*c.state(kind) = FormState{Open: true, Mode: ModeCreate}
}

// OpenEditTransaction opens the transaction modal prefilled from the snapshot.
func (c *Controller) OpenEditTransaction(id int) error {
	tx, ok := c.syncer.Store().Transaction(id)
	if !ok {
		return fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tx = TransactionFormFrom(tx)
	*c.state(KindTransaction) = FormState{Open: true, Mode: ModeEdit, TargetID: id}
	return nil
}

// OpenGoalProgress opens the progress modal for goal id with its current amount.
func (c *Controller) OpenGoalProgress(id int) error {
	g, ok := c.syncer.Store().Goal(id)
	if !ok {
		return fmt.Errorf("goal %d: %w", id, common.ErrNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = GoalProgressForm{Current: g.Current.StringFixed(2)}
	*c.state(KindGoalProgress) = FormState{Open: true, Mode: ModeEdit, TargetID: id}
	return nil
}

// OpenEditBudget opens the budget modal for the line of category.
func (c *Controller) OpenEditBudget(category string) error {
	line, ok := c.syncer.Store().BudgetLine(category)
	if !ok {
		return fmt.Errorf("budget %q: %w", category, common.ErrNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.budget = BudgetForm{Category: line.Category, Amount: line.Budget.StringFixed(2)}
	*c.state(KindBudget) = FormState{Open: true, Mode: ModeEdit, TargetCategory: category}
	return nil
}

// Close dismisses kind's modal and discards its input.
func (c *Controller) Close(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetFields(kind)
	*c.state(kind) = FormState{}
}

// TransactionForm returns the current transaction input.
func (c *Controller) TransactionForm() TransactionForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tx
}

// SetTransactionForm replaces the transaction input.
func (c *Controller) SetTransactionForm(f TransactionForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tx = f
}

// GoalForm returns the current goal input.
func (c *Controller) GoalForm() GoalForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goal
}

// SetGoalForm replaces the goal input.
func (c *Controller) SetGoalForm(f GoalForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.goal = f
}

// GoalProgressForm returns the current progress input.
func (c *Controller) GoalProgressForm() GoalProgressForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// SetGoalProgressForm replaces the progress input.
func (c *Controller) SetGoalProgressForm(f GoalProgressForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = f
}

// BudgetForm returns the current budget input.
func (c *Controller) BudgetForm() BudgetForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.budget
}

// SetBudgetForm replaces the budget input.
func (c *Controller) SetBudgetForm(f BudgetForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.budget = f
}

// call is a parsed, ready-to-send mutation.
type call func(ctx context.Context) (*model.MutationResult, error)

func (c *Controller) prepare(kind Kind) (call, error) {
	st := c.state(kind)
	switch kind {
	case KindTransaction:
		p, err := c.tx.Parse()
		if err != nil {
			return nil, err
		}
		if st.Mode == ModeEdit {
			id := st.TargetID
			return func(ctx context.Context) (*model.MutationResult, error) {
				return c.writer.UpdateTransaction(ctx, id, p)
			}, nil
		}
		return func(ctx context.Context) (*model.MutationResult, error) {
			return c.writer.CreateTransaction(ctx, p)
		}, nil

	case KindGoal:
		p, err := c.goal.Parse()
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (*model.MutationResult, error) {
			return c.writer.CreateGoal(ctx, p)
		}, nil

	case KindGoalProgress:
		p, err := c.progress.Parse()
		if err != nil {
			return nil, err
		}
		id := st.TargetID
		return func(ctx context.Context) (*model.MutationResult, error) {
			return c.writer.UpdateGoalProgress(ctx, id, p)
		}, nil

	case KindBudget:
		p, err := c.budget.Parse()
		if err != nil {
			return nil, err
		}
		_, exists := c.syncer.Store().BudgetLine(p.Category)
		// Categories are unique per month; creating an existing one updates it.
		if st.Mode == ModeEdit || exists {
			return func(ctx context.Context) (*model.MutationResult, error) {
				return c.writer.UpdateBudget(ctx, p)
			}, nil
		}
		return func(ctx context.Context) (*model.MutationResult, error) {
			return c.writer.CreateBudget(ctx, p)
		}, nil

	default:
		return nil, fmt.Errorf("unknown form %q", kind)
	}
}

// Submit parses kind's form and sends it. On any failure the modal stays
// open with its input and the error is recorded in the form state. On
// success the modal closes and the affected collections are refetched;
// refetch failures land in the store's collection state, not here.
func (c *Controller) Submit(ctx context.Context, kind Kind) (*model.MutationResult, error) {
	c.mu.Lock()
	send, err := c.prepare(kind)
	if err != nil {
		c.state(kind).Err = err
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	result, err := send(ctx)

	c.mu.Lock()
	if err != nil {
		c.state(kind).Err = err
		c.mu.Unlock()
		c.logger.Warn("mutation failed", "form", kind, "error", err)
		return nil, err
	}
	c.resetFields(kind)
	*c.state(kind) = FormState{}
	c.mu.Unlock()

	c.logger.Info("mutation applied", "form", kind, "message", result.Message)
	c.refetch(ctx, Affected(kind))
	return result, nil
}

func (c *Controller) refetch(ctx context.Context, collections []store.Collection) {
	if err := c.syncer.RefreshAll(ctx, collections...); err != nil {
		c.logger.Warn("refetch after mutation failed", "error", err)
	}
}

// RequestDelete starts the deletion of transaction id and returns the
// confirmation to show. A new request supersedes any pending one.
func (c *Controller) RequestDelete(id int) (DeleteRequest, error) {
	tx, ok := c.syncer.Store().Transaction(id)
	if !ok {
		return DeleteRequest{}, fmt.Errorf("transaction %d: %w", id, common.ErrNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens++
	req := DeleteRequest{ID: id, Description: tx.Description, token: c.tokens}
	c.pending = &req
	return req, nil
}

// PendingDelete returns the request awaiting confirmation, if any.
func (c *Controller) PendingDelete() (DeleteRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return DeleteRequest{}, false
	}
	return *c.pending, true
}

// CancelDelete drops the pending request.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// ErrNoPendingDelete is returned when a confirmation does not match the
// pending request.
var ErrNoPendingDelete = errors.New("no matching delete request pending")

// ConfirmDelete deletes the transaction of req, which must be the pending
// request, then refetches the affected collections.
func (c *Controller) ConfirmDelete(ctx context.Context, req DeleteRequest) (*model.MutationResult, error) {
	c.mu.Lock()
	if c.pending == nil || req.token == 0 || c.pending.token != req.token {
		c.mu.Unlock()
		return nil, ErrNoPendingDelete
	}
	c.pending = nil
	c.mu.Unlock()

	result, err := c.writer.DeleteTransaction(ctx, req.ID)
	if err != nil {
		c.logger.Warn("delete failed", "id", req.ID, "error", err)
		return nil, err
	}
	c.refetch(ctx, Affected(KindTransaction))
	return result, nil
}
