// Package store holds the client's last known snapshot of every backend
// collection.
//
// Snapshots are replaced wholesale, never patched. Each fetch takes a ticket
// from Begin; a response is applied only if its ticket is newer than the last
// one applied for that collection, so a slow stale response can never
// overwrite a fresher one.
package store

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/finanmaster/internal/model"
)

// Collection names one independently fetched piece of backend state.
type Collection string

// Collections.
const (
	Transactions Collection = "transactions"
	Goals        Collection = "goals"
	Budget       Collection = "budget"
	Summary      Collection = "summary"
	Identity     Collection = "identity"
)

// Collections lists every collection the dashboard loads on start.
var Collections = []Collection{Transactions, Goals, Budget, Summary}

// Ticket tags one fetch of a collection.
type Ticket struct {
	Collection Collection
	Seq        uint64
}

// State describes the freshness of a collection's snapshot.
type State struct {
	UpdatedAt time.Time
	Err       error
	Loading   bool
}

// Loaded reports whether a snapshot has ever been applied.
func (s State) Loaded() bool {
	return !s.UpdatedAt.IsZero()
}

// Store is safe for concurrent use.
type Store struct {
	logger       *slog.Logger
	now          func() time.Time
	issued       map[Collection]uint64
	applied      map[Collection]uint64
	states       map[Collection]State
	summary      *model.DashboardSummary
	identity     *model.Identity
	transactions []model.Transaction
	goals        []model.Goal
	budget       []model.BudgetLine
	mu           sync.RWMutex
}

// New creates an empty store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger:  logger,
		now:     time.Now,
		issued:  make(map[Collection]uint64),
		applied: make(map[Collection]uint64),
		states:  make(map[Collection]State),
	}
}

// Begin issues the next ticket for c and marks it loading.
func (s *Store) Begin(c Collection) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued[c]++
	st := s.states[c]
	st.Loading = true
	s.states[c] = st

	return Ticket{Collection: c, Seq: s.issued[c]}
}

// apply runs set under the write lock if t is the freshest ticket seen.
func (s *Store) apply(t Ticket, set func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq <= s.applied[t.Collection] {
		s.logger.Debug("discarding stale response",
			"collection", t.Collection,
			"seq", t.Seq,
			"applied", s.applied[t.Collection])
		return false
	}

	s.applied[t.Collection] = t.Seq
	set()
	s.states[t.Collection] = State{
		UpdatedAt: s.now(),
		Loading:   t.Seq < s.issued[t.Collection],
	}
	return true
}

// Fail records err for the collection without touching its snapshot. Errors
// from tickets older than the applied snapshot are ignored.
func (s *Store) Fail(t Ticket, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq <= s.applied[t.Collection] {
		return false
	}

	st := s.states[t.Collection]
	st.Err = err
	st.Loading = t.Seq < s.issued[t.Collection]
	s.states[t.Collection] = st
	return true
}

// State returns the freshness of c.
func (s *Store) State(c Collection) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[c]
}

// ApplyTransactions replaces the transactions snapshot.
func (s *Store) ApplyTransactions(t Ticket, txns []model.Transaction) bool {
	return s.apply(t, func() { s.transactions = txns })
}

// ApplyGoals replaces the goals snapshot.
func (s *Store) ApplyGoals(t Ticket, goals []model.Goal) bool {
	return s.apply(t, func() { s.goals = goals })
}

// ApplyBudget replaces the budget snapshot.
func (s *Store) ApplyBudget(t Ticket, lines []model.BudgetLine) bool {
	return s.apply(t, func() { s.budget = lines })
}

// ApplySummary replaces the summary snapshot.
func (s *Store) ApplySummary(t Ticket, summary *model.DashboardSummary) bool {
	return s.apply(t, func() { s.summary = summary })
}

// ApplyIdentity replaces the identity snapshot.
func (s *Store) ApplyIdentity(t Ticket, identity *model.Identity) bool {
	return s.apply(t, func() { s.identity = identity })
}

// Transactions returns a copy of the current transactions snapshot.
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// Goals returns a copy of the current goals snapshot.
func (s *Store) Goals() []model.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.goals)
}

// Budget returns a copy of the current budget snapshot.
func (s *Store) Budget() []model.BudgetLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.budget)
}

// Summary returns the current summary, or nil before the first load.
func (s *Store) Summary() *model.DashboardSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// Identity returns the current identity, or nil before the first check.
func (s *Store) Identity() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// UserID returns the authenticated user's id, if known.
func (s *Store) UserID() *int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil || !s.identity.Authenticated {
		return nil
	}
	return s.identity.UserID
}

// Transaction looks up a transaction by id in the snapshot.
func (s *Store) Transaction(id int) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tx := range s.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return model.Transaction{}, false
}

// Goal looks up a goal by id in the snapshot.
func (s *Store) Goal(id int) (model.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, true
		}
	}
	return model.Goal{}, false
}

// BudgetLine looks up the budget line for category in the snapshot.
func (s *Store) BudgetLine(category string) (model.BudgetLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, line := range s.budget {
		if line.Category == category {
			return line, true
		}
	}
	return model.BudgetLine{}, false
}

// Categories returns the distinct transaction and budget categories in
// first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, tx := range s.transactions {
		add(tx.Category)
	}
	for _, line := range s.budget {
		add(line.Category)
	}
	return out
}
