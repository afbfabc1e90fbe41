// Package memstore is an in-memory implementation of the repository and
// transaction interfaces. A unit of work operates on a private copy of the
// committed state which replaces it on commit, so rollbacks discard every
// write. Concurrent units are not isolated from each other: the last
// commit wins. It backs the use-case tests.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

var (
	_ usecase.TransactionManager    = (*Store)(nil)
	_ usecase.AccountRepository     = (*AccountRepository)(nil)
	_ usecase.CategoryRepository    = (*CategoryRepository)(nil)
	_ usecase.TransactionRepository = (*TransactionRepository)(nil)
	_ usecase.LedgerRepository      = (*LedgerRepository)(nil)
	_ usecase.OutboxRepository      = (*OutboxRepository)(nil)
	_ usecase.IDGenerator           = (*SequentialIDs)(nil)
)

// ErrTxDone is returned when a finished unit of work is used again.
var ErrTxDone = errors.New("memstore: transaction already finished")

// Operation names accepted by FailOn.
const (
	OpBegin          = "Begin"
	OpCommit         = "Commit"
	OpAdjustBalance  = "AdjustBalance"
	OpSetBalance     = "SetBalance"
	OpCreateTxn      = "CreateTransaction"
	OpUpdateTxn      = "UpdateTransaction"
	OpDeleteTxn      = "DeleteTransaction"
	OpOutboxCreate   = "OutboxCreate"
	OpListForUpdate  = "ListForUpdate"
	OpBalanceChecks  = "BalanceChecks"
	OpTotalsByPeriod = "TotalsByPeriod"
)

type state struct {
	accounts     map[string]domain.Account
	categories   map[string]domain.Category
	transactions map[string]domain.Transaction
	outbox       []domain.OutboxEvent
}

func newState() *state {
	return &state{
		accounts:     make(map[string]domain.Account),
		categories:   make(map[string]domain.Category),
		transactions: make(map[string]domain.Transaction),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	c.outbox = append(c.outbox, s.outbox...)

	return c
}

// Store holds the committed state.
type Store struct {
	mu        sync.Mutex
	committed *state
	failures  map[string]error
}

// New returns an empty store.
func New() *Store {
	return &Store{
		committed: newState(),
		failures:  make(map[string]error),
	}
}

// FailOn makes the next call of op return err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)

	return err
}

// view returns the state a call should read and write. The caller must
// hold s.mu.
func (s *Store) view(tx usecase.Transaction) (*state, error) {
	if tx == nil {
		return s.committed, nil
	}

	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, fmt.Errorf("memstore: foreign transaction %T", tx)
	}
	if t.done {
		return nil, ErrTxDone
	}

	return t.work, nil
}

// Begin starts a unit of work over a snapshot of the committed state.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail(OpBegin); err != nil {
		return nil, err
	}

	return &Tx{store: s, work: s.committed.clone()}, nil
}

// Tx is a unit of work.
type Tx struct {
	store *Store
	work  *state
	done  bool
}

// Commit publishes the unit's writes.
func (t *Tx) Commit(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.done {
		return ErrTxDone
	}
	if err := t.store.fail(OpCommit); err != nil {
		t.done = true
		return err
	}

	t.store.committed = t.work
	t.done = true

	return nil
}

// Rollback discards the unit's writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	t.done = true

	return nil
}

// Accounts returns the account repository view of s.
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{s: s} }

// Categories returns the category repository view of s.
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }

// Transactions returns the transaction repository view of s.
func (s *Store) Transactions() *TransactionRepository { return &TransactionRepository{s: s} }

// Ledger returns the aggregate read view of s.
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{s: s} }

// Outbox returns the outbox view of s.
func (s *Store) Outbox() *OutboxRepository { return &OutboxRepository{s: s} }
