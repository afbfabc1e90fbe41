package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/infrastructure/postgres/generated"
	"github.com/iho/finledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{
		db:      db,
		queries: generated.New(db),
	}
}

// Create inserts a transaction within tx.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	return queriesFor(r.db, tx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:              txn.ID,
		OwnerID:         txn.OwnerID,
		Amount:          decimalToNumeric(txn.Amount),
		TransactionType: string(txn.Type),
		Date:            timeToPgTimestamptz(txn.Date),
		Note:            txn.Note,
		CategoryID:      txn.CategoryID,
		AccountID:       txn.AccountID,
		CreatedAt:       timeToPgTimestamptz(txn.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(txn.UpdatedAt),
	})
}

// GetByID returns the transaction joined with its category and account names.
func (r *TransactionRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, generated.GetTransactionByIDParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn := rowToTransaction(generated.Transaction{
		ID:              row.ID,
		OwnerID:         row.OwnerID,
		Amount:          row.Amount,
		TransactionType: row.TransactionType,
		Date:            row.Date,
		Note:            row.Note,
		CategoryID:      row.CategoryID,
		AccountID:       row.AccountID,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	})
	txn.CategoryName = row.CategoryName
	txn.AccountName = row.AccountName

	return txn, nil
}

// GetByIDForUpdate locks the row until tx ends.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Transaction, error) {
	row, err := queriesFor(r.db, tx).GetTransactionByIDForUpdate(ctx, generated.GetTransactionByIDForUpdateParams{
		ID:      id,
		OwnerID: ownerID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return rowToTransaction(row), nil
}

// Update overwrites every mutable field of txn.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	n, err := queriesFor(r.db, tx).UpdateTransaction(ctx, generated.UpdateTransactionParams{
		ID:              txn.ID,
		OwnerID:         txn.OwnerID,
		Amount:          decimalToNumeric(txn.Amount),
		TransactionType: string(txn.Type),
		Date:            timeToPgTimestamptz(txn.Date),
		Note:            txn.Note,
		CategoryID:      txn.CategoryID,
		AccountID:       txn.AccountID,
		UpdatedAt:       timeToPgTimestamptz(txn.UpdatedAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, ownerID, id string) error {
	n, err := queriesFor(r.db, tx).DeleteTransaction(ctx, generated.DeleteTransactionParams{ID: id, OwnerID: ownerID})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// List returns transactions newest first.
func (r *TransactionRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByOwner(ctx, generated.ListTransactionsByOwnerParams{
		OwnerID: ownerID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txn := rowToTransaction(generated.Transaction{
			ID:              row.ID,
			OwnerID:         row.OwnerID,
			Amount:          row.Amount,
			TransactionType: row.TransactionType,
			Date:            row.Date,
			Note:            row.Note,
			CategoryID:      row.CategoryID,
			AccountID:       row.AccountID,
			CreatedAt:       row.CreatedAt,
			UpdatedAt:       row.UpdatedAt,
		})
		txn.CategoryName = row.CategoryName
		txn.AccountName = row.AccountName
		txns = append(txns, txn)
	}

	return txns, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		Amount:     numericToDecimal(row.Amount),
		Type:       domain.TransactionType(row.TransactionType),
		Date:       row.Date.Time.UTC(),
		Note:       row.Note,
		CategoryID: row.CategoryID,
		AccountID:  row.AccountID,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}
