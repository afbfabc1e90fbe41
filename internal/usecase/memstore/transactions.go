package memstore

import (
	"context"
	"sort"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	s *Store
}

func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	return r.write(tx, OpCreateTxn, func(st *state) error {
		if _, ok := st.categories[txn.CategoryID]; !ok {
			return domain.ErrInvalidCategory
		}
		if _, ok := st.accounts[txn.AccountID]; !ok {
			return domain.ErrInvalidAccount
		}
		st.transactions[txn.ID] = stripNames(*txn)
		return nil
	})
}

func (r *TransactionRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return find(r.s.committed, ownerID, id)
}

func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, err := r.s.view(tx)
	if err != nil {
		return nil, err
	}

	return find(st, ownerID, id)
}

func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	return r.write(tx, OpUpdateTxn, func(st *state) error {
		existing, ok := st.transactions[txn.ID]
		if !ok || existing.OwnerID != txn.OwnerID {
			return domain.ErrTransactionNotFound
		}
		st.transactions[txn.ID] = stripNames(*txn)
		return nil
	})
}

func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	return r.write(tx, OpDeleteTxn, func(st *state) error {
		existing, ok := st.transactions[id]
		if !ok || existing.OwnerID != ownerID {
			return domain.ErrTransactionNotFound
		}
		delete(st.transactions, id)
		return nil
	})
}

func (r *TransactionRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := r.s.committed
	all := make([]*domain.Transaction, 0)
	for _, t := range st.transactions {
		if t.OwnerID == ownerID {
			all = append(all, withNames(st, t))
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return []*domain.Transaction{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}

	return all[offset:end], nil
}

// Count returns the number of committed transactions.
func (r *TransactionRepository) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return len(r.s.committed.transactions)
}

func (r *TransactionRepository) write(tx usecase.Transaction, op string, fn func(*state) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail(op); err != nil {
		return err
	}

	st, err := r.s.view(tx)
	if err != nil {
		return err
	}

	return fn(st)
}

func find(st *state, ownerID, id string) (*domain.Transaction, error) {
	t, ok := st.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrTransactionNotFound
	}

	return withNames(st, t), nil
}

func withNames(st *state, t domain.Transaction) *domain.Transaction {
	t.CategoryName = st.categories[t.CategoryID].Name
	t.AccountName = st.accounts[t.AccountID].Name

	return &t
}

func stripNames(t domain.Transaction) domain.Transaction {
	t.CategoryName = ""
	t.AccountName = ""

	return t
}
