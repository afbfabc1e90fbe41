package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
)

// ReconciliationUseCase verifies that every stored balance equals the sum
// of its account's signed transaction amounts, and repairs drift.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	cache       Cache
	recorder    Recorder
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		recorder:    NopRecorder{},
	}
}

// WithCache sets the dashboard cache invalidated after a repair.
func (uc *ReconciliationUseCase) WithCache(cache Cache) *ReconciliationUseCase {
	uc.cache = cache
	return uc
}

// WithRecorder sets the metrics recorder.
func (uc *ReconciliationUseCase) WithRecorder(r Recorder) *ReconciliationUseCase {
	uc.recorder = r
	return uc
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	AccountName       string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
}

// ReconciliationReport summarises a check over all of an owner's accounts.
type ReconciliationReport struct {
	OwnerID            string
	TotalAccounts      int
	ReconciledAccounts int
	Repaired           int
	Consistent         bool
	CheckedAt          time.Time
	Accounts           []ReconciliationResult
}

// Reconcile compares stored and derived balances without changing them.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, ownerID string) (*ReconciliationReport, error) {
	checks, err := uc.ledgerRepo.BalanceChecks(ctx, nil, ownerID)
	if err != nil {
		return nil, err
	}

	report := buildReport(ownerID, checks, time.Now().UTC())
	uc.recorder.Reconciled(report.TotalAccounts - report.ReconciledAccounts)

	return report, nil
}

// Repair locks the owner's accounts, recomputes each balance from its
// transactions and overwrites the ones that drifted, all in one unit of
// work. The returned report describes the state before the repair.
func (uc *ReconciliationUseCase) Repair(ctx context.Context, ownerID string) (*ReconciliationReport, error) {
	start := time.Now()
	report, err := uc.repair(ctx, ownerID)
	uc.recorder.MutationCompleted(OperationRepairBalances, time.Since(start), err)

	return report, err
}

func (uc *ReconciliationUseCase) repair(ctx context.Context, ownerID string) (*ReconciliationReport, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := uc.accountRepo.ListForUpdate(ctx, tx, ownerID); err != nil {
		return nil, err
	}

	checks, err := uc.ledgerRepo.BalanceChecks(ctx, tx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := buildReport(ownerID, checks, now)

	var repaired []domain.RepairedBalance
	for _, c := range checks {
		if c.Reconciled() {
			continue
		}

		if err := uc.accountRepo.SetBalance(ctx, tx, ownerID, c.AccountID, c.Calculated, now); err != nil {
			return nil, err
		}

		repaired = append(repaired, domain.RepairedBalance{
			AccountID: c.AccountID,
			Previous:  c.Recorded.String(),
			Current:   c.Calculated.String(),
		})
	}

	if len(repaired) == 0 {
		return report, nil
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   ownerID,
		AggregateType: domain.AggregateTypeOwner,
		EventType:     domain.EventTypeBalancesRepaired,
		Payload: domain.ToPayload(domain.BalancesRepairedEvent{
			OwnerID:  ownerID,
			Accounts: repaired,
			EventAt:  now.Format(time.RFC3339Nano),
		}),
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	report.Repaired = len(repaired)
	uc.recorder.BalancesRepaired(len(repaired))
	invalidateDashboard(ctx, uc.cache, ownerID)

	return report, nil
}

func buildReport(ownerID string, checks []domain.BalanceCheck, at time.Time) *ReconciliationReport {
	report := &ReconciliationReport{
		OwnerID:       ownerID,
		TotalAccounts: len(checks),
		CheckedAt:     at,
		Accounts:      make([]ReconciliationResult, 0, len(checks)),
	}

	for _, c := range checks {
		ok := c.Reconciled()
		if ok {
			report.ReconciledAccounts++
		}

		report.Accounts = append(report.Accounts, ReconciliationResult{
			AccountID:         c.AccountID,
			AccountName:       c.AccountName,
			RecordedBalance:   c.Recorded,
			CalculatedBalance: c.Calculated,
			Difference:        c.Difference(),
			IsReconciled:      ok,
		})
	}

	report.Consistent = report.ReconciledAccounts == report.TotalAccounts

	return report
}
