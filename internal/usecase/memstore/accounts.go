package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	s *Store
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.committed.accounts[account.ID] = *account

	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	acc, ok := r.s.committed.accounts[id]
	if !ok || acc.OwnerID != ownerID {
		return nil, domain.ErrAccountNotFound
	}

	return &acc, nil
}

func (r *AccountRepository) List(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return ownedAccounts(r.s.committed, ownerID), nil
}

func (r *AccountRepository) ListForUpdate(ctx context.Context, tx usecase.Transaction, ownerID string) ([]*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail(OpListForUpdate); err != nil {
		return nil, err
	}

	st, err := r.s.view(tx)
	if err != nil {
		return nil, err
	}

	return ownedAccounts(st, ownerID), nil
}

func (r *AccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, ownerID, id string, delta decimal.Decimal, updatedAt time.Time) error {
	return r.update(tx, OpAdjustBalance, ownerID, id, func(acc *domain.Account) {
		acc.Balance = acc.ApplyDelta(delta)
		acc.UpdatedAt = updatedAt
	})
}

func (r *AccountRepository) SetBalance(ctx context.Context, tx usecase.Transaction, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return r.update(tx, OpSetBalance, ownerID, id, func(acc *domain.Account) {
		acc.Balance = balance
		acc.UpdatedAt = updatedAt
	})
}

func (r *AccountRepository) update(tx usecase.Transaction, op, ownerID, id string, fn func(*domain.Account)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail(op); err != nil {
		return err
	}

	st, err := r.s.view(tx)
	if err != nil {
		return err
	}

	acc, ok := st.accounts[id]
	if !ok || acc.OwnerID != ownerID {
		return domain.ErrAccountNotFound
	}

	fn(&acc)
	st.accounts[id] = acc

	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := r.s.committed
	acc, ok := st.accounts[id]
	if !ok || acc.OwnerID != ownerID {
		return domain.ErrAccountNotFound
	}

	for _, t := range st.transactions {
		if t.AccountID == id {
			return domain.ErrAccountInUse
		}
	}

	delete(st.accounts, id)

	return nil
}

// CorruptBalance overwrites a stored balance outside any unit of work.
// Tests use it to simulate drift.
func (r *AccountRepository) CorruptBalance(id string, balance decimal.Decimal) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	acc := r.s.committed.accounts[id]
	acc.Balance = balance
	r.s.committed.accounts[id] = acc
}

func ownedAccounts(st *state, ownerID string) []*domain.Account {
	out := make([]*domain.Account, 0)
	for _, acc := range st.accounts {
		if acc.OwnerID == ownerID {
			a := acc
			out = append(out, &a)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
