package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
)

// TransactionUseCase owns every mutation of transactions. Each mutation
// writes the transaction row, applies the resulting balance deltas and
// records an outbox event inside one unit of work.
type TransactionUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	categoryRepo    CategoryRepository
	transactionRepo TransactionRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	cache           Cache
	recorder        Recorder
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	categoryRepo CategoryRepository,
	transactionRepo TransactionRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		recorder:        NopRecorder{},
	}
}

// WithCache sets the dashboard cache invalidated after each commit.
func (uc *TransactionUseCase) WithCache(cache Cache) *TransactionUseCase {
	uc.cache = cache
	return uc
}

// WithRecorder sets the metrics recorder.
func (uc *TransactionUseCase) WithRecorder(r Recorder) *TransactionUseCase {
	uc.recorder = r
	return uc
}

// TransactionInput carries the client-editable fields of a transaction.
// The category is resolved by CategoryID when set, otherwise by name.
type TransactionInput struct {
	OwnerID    string
	Amount     decimal.Decimal
	Type       domain.TransactionType
	Date       time.Time
	Note       string
	Category   string
	CategoryID string
	AccountID  string
}

// ListTransactions returns the owner's transactions, newest first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.transactionRepo.List(ctx, ownerID, limit, offset)
}

// GetTransaction returns a single transaction.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, ownerID, id)
}

// CreateTransaction records a new transaction and applies its signed
// amount to the target account.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input TransactionInput) (*domain.Transaction, error) {
	start := time.Now()
	txn, err := uc.createTransaction(ctx, input)
	uc.recorder.MutationCompleted(OperationCreateTransaction, time.Since(start), err)

	return txn, err
}

func (uc *TransactionUseCase) createTransaction(ctx context.Context, input TransactionInput) (*domain.Transaction, error) {
	// 1. Validate inputs before starting transaction
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category, account, err := uc.resolveReferences(ctx, input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		OwnerID:      input.OwnerID,
		Amount:       input.Amount.Abs(),
		Type:         input.Type,
		Date:         dateOrNow(input.Date, now),
		Note:         input.Note,
		CategoryID:   category.ID,
		AccountID:    account.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
		CategoryName: category.Name,
		AccountName:  account.Name,
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	deltas := domain.CreateDeltas(txn)

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// 2. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 3. Write row, balances and event
	if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.applyDeltas(ctx, tx, input.OwnerID, deltas, now); err != nil {
		return nil, err
	}

	if err := uc.recordEvent(ctx, tx, domain.EventTypeTransactionCreated, txn, deltas, now); err != nil {
		return nil, err
	}

	// 4. Commit transaction
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.recorder.BalanceAdjusted(len(deltas))
	invalidateDashboard(ctx, uc.cache, input.OwnerID)

	return txn, nil
}

// UpdateTransaction replaces every editable field of an existing
// transaction and moves its balance effect accordingly.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, id string, input TransactionInput) (*domain.Transaction, error) {
	start := time.Now()
	txn, err := uc.updateTransaction(ctx, id, input)
	uc.recorder.MutationCompleted(OperationUpdateTransaction, time.Since(start), err)

	return txn, err
}

func (uc *TransactionUseCase) updateTransaction(ctx context.Context, id string, input TransactionInput) (*domain.Transaction, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the row first so concurrent edits of the same transaction
	// compute their deltas from the committed state.
	prev, err := uc.transactionRepo.GetByIDForUpdate(ctx, tx, input.OwnerID, id)
	if err != nil {
		return nil, err
	}

	category, account, err := uc.resolveReferences(ctx, input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	next := *prev
	next.Amount = input.Amount.Abs()
	next.Type = input.Type
	next.Date = dateOrNow(input.Date, prev.Date)
	next.Note = input.Note
	next.CategoryID = category.ID
	next.CategoryName = category.Name
	next.AccountID = account.ID
	next.AccountName = account.Name
	next.UpdatedAt = now

	if err := next.Validate(); err != nil {
		return nil, err
	}

	deltas := domain.UpdateDeltas(prev, &next)

	if err := uc.transactionRepo.Update(ctx, tx, &next); err != nil {
		return nil, err
	}

	if err := uc.applyDeltas(ctx, tx, input.OwnerID, deltas, now); err != nil {
		return nil, err
	}

	if err := uc.recordEvent(ctx, tx, domain.EventTypeTransactionUpdated, &next, deltas, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.recorder.BalanceAdjusted(len(deltas))
	invalidateDashboard(ctx, uc.cache, input.OwnerID)

	return &next, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	start := time.Now()
	err := uc.deleteTransaction(ctx, ownerID, id)
	uc.recorder.MutationCompleted(OperationDeleteTransaction, time.Since(start), err)

	return err
}

func (uc *TransactionUseCase) deleteTransaction(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	prev, err := uc.transactionRepo.GetByIDForUpdate(ctx, tx, ownerID, id)
	if err != nil {
		return err
	}

	deltas := domain.DeleteDeltas(prev)
	now := time.Now().UTC()

	if err := uc.transactionRepo.Delete(ctx, tx, ownerID, id); err != nil {
		return err
	}

	if err := uc.applyDeltas(ctx, tx, ownerID, deltas, now); err != nil {
		return err
	}

	if err := uc.recordEvent(ctx, tx, domain.EventTypeTransactionDeleted, prev, deltas, now); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.recorder.BalanceAdjusted(len(deltas))
	invalidateDashboard(ctx, uc.cache, ownerID)

	return nil
}

func validateInput(input TransactionInput) error {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}

	if !input.Type.IsValid() {
		return domain.ErrInvalidTransactionType
	}

	return domain.ValidateNote(input.Note)
}

// resolveReferences looks up the category and account named by input.
// Both must belong to the owner.
func (uc *TransactionUseCase) resolveReferences(ctx context.Context, input TransactionInput) (*domain.Category, *domain.Account, error) {
	var (
		category *domain.Category
		err      error
	)

	switch {
	case input.CategoryID != "":
		category, err = uc.categoryRepo.GetByID(ctx, input.OwnerID, input.CategoryID)
	case input.Category != "":
		category, err = uc.categoryRepo.GetByName(ctx, input.OwnerID, input.Category)
	default:
		err = domain.ErrCategoryNotFound
	}
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, nil, domain.ErrInvalidCategory
		}
		return nil, nil, err
	}

	if input.AccountID == "" {
		return nil, nil, domain.ErrInvalidAccount
	}

	account, err := uc.accountRepo.GetByID(ctx, input.OwnerID, input.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, nil, domain.ErrInvalidAccount
		}
		return nil, nil, err
	}

	return category, account, nil
}

func (uc *TransactionUseCase) applyDeltas(ctx context.Context, tx Transaction, ownerID string, deltas []domain.BalanceDelta, now time.Time) error {
	for _, d := range deltas {
		err := uc.accountRepo.AdjustBalance(ctx, tx, ownerID, d.AccountID, d.Amount, now)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return domain.ErrInvalidAccount
			}
			return err
		}
	}

	return nil
}

func (uc *TransactionUseCase) recordEvent(ctx context.Context, tx Transaction, eventType string, txn *domain.Transaction, deltas []domain.BalanceDelta, now time.Time) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload:       domain.ToPayload(domain.NewTransactionEvent(txn, deltas, now)),
		CreatedAt:     now,
	})
}

func dateOrNow(date, fallback time.Time) time.Time {
	if date.IsZero() {
		return fallback
	}

	return date.UTC()
}

// invalidateDashboard bumps the owner's cache generation after a committed
// change. Dashboards that were assembled from earlier reads can then only be
// stored under the old generation. The mutation has already succeeded, so a
// cache failure is only logged.
func invalidateDashboard(ctx context.Context, cache Cache, ownerID string) {
	if cache == nil {
		return
	}

	generation, err := cache.Incr(ctx, dashboardGenerationKey(ownerID))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("owner_id", ownerID).Msg("failed to invalidate dashboard cache")
		return
	}

	if err := cache.Delete(ctx, dashboardCacheKey(ownerID, generation-1)); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("owner_id", ownerID).Msg("failed to drop previous dashboard snapshot")
	}
}
