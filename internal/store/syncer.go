package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/finanmaster/internal/common"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/service"
	"golang.org/x/sync/errgroup"
)

// Syncer fetches collections through a backend reader and applies the
// results to a Store.
type Syncer struct {
	store  *Store
	reader service.Reader
	logger *slog.Logger
}

// NewSyncer creates a syncer feeding store from reader.
func NewSyncer(store *Store, reader service.Reader, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{store: store, reader: reader, logger: logger}
}

// Store returns the store the syncer feeds.
func (s *Syncer) Store() *Store {
	return s.store
}

func (s *Syncer) fail(t Ticket, err error) error {
	s.logger.Warn("failed to refresh collection",
		"collection", t.Collection,
		"seq", t.Seq,
		"error", err)
	s.store.Fail(t, err)
	return fmt.Errorf("refresh %s: %w", t.Collection, err)
}

// RefreshTransactions refetches the transactions snapshot.
func (s *Syncer) RefreshTransactions(ctx context.Context) error {
	t := s.store.Begin(Transactions)
	txns, err := s.reader.ListTransactions(ctx)
	if err != nil {
		return s.fail(t, err)
	}
	s.store.ApplyTransactions(t, txns)
	return nil
}

// RefreshGoals refetches the goals snapshot.
func (s *Syncer) RefreshGoals(ctx context.Context) error {
	t := s.store.Begin(Goals)
	goals, err := s.reader.ListGoals(ctx)
	if err != nil {
		return s.fail(t, err)
	}
	s.store.ApplyGoals(t, goals)
	return nil
}

// RefreshBudget refetches the budget snapshot.
func (s *Syncer) RefreshBudget(ctx context.Context) error {
	t := s.store.Begin(Budget)
	lines, err := s.reader.ListBudget(ctx)
	if err != nil {
		return s.fail(t, err)
	}
	s.store.ApplyBudget(t, lines)
	return nil
}

// RefreshSummary refetches the dashboard aggregates.
func (s *Syncer) RefreshSummary(ctx context.Context) error {
	t := s.store.Begin(Summary)
	summary, err := s.reader.Summary(ctx)
	if err != nil {
		return s.fail(t, err)
	}
	s.store.ApplySummary(t, summary)
	return nil
}

// Refresh refetches one collection.
func (s *Syncer) Refresh(ctx context.Context, c Collection) error {
	switch c {
	case Transactions:
		return s.RefreshTransactions(ctx)
	case Goals:
		return s.RefreshGoals(ctx)
	case Budget:
		return s.RefreshBudget(ctx)
	case Summary:
		return s.RefreshSummary(ctx)
	case Identity:
		_, err := s.EnsureIdentity(ctx)
		return err
	default:
		return fmt.Errorf("unknown collection %q", c)
	}
}

// RefreshAll refetches the given collections in parallel. A failure of one
// fetch does not cancel the others; every error is returned joined.
func (s *Syncer) RefreshAll(ctx context.Context, collections ...Collection) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, c := range collections {
		g.Go(func() error {
			if err := s.Refresh(ctx, c); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// LoadAll performs the initial load of every dashboard collection.
func (s *Syncer) LoadAll(ctx context.Context) error {
	return s.RefreshAll(ctx, Collections...)
}

// EnsureIdentity checks the session. It returns common.ErrAuthRequired when
// the backend reports no authenticated user.
func (s *Syncer) EnsureIdentity(ctx context.Context) (*model.Identity, error) {
	t := s.store.Begin(Identity)
	identity, err := s.reader.Identity(ctx)
	if err != nil {
		return nil, s.fail(t, err)
	}
	s.store.ApplyIdentity(t, identity)
	if !identity.Authenticated {
		return identity, common.ErrAuthRequired
	}
	return identity, nil
}
