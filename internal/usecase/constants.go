package usecase

import (
	"strconv"
	"time"
)

const (
	// DefaultTransactionTimeout bounds a single unit of work
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultDashboardCacheTTL applies when no TTL is configured
	DefaultDashboardCacheTTL = 5 * time.Minute

	dashboardCacheKeyPrefix   = "dashboard:"
	dashboardGenerationPrefix = "dashboard-gen:"

	recentTransactionsLimit = 5
	topCategoriesLimit      = 5
	monthlySummaryLimit     = 6
)

// IdempotencyProcessing is the value IdempotencyStore.CheckAndSet reports
// while the request that claimed a key has not finished.
const IdempotencyProcessing = "processing"

// Operation names reported to the Recorder.
const (
	OperationCreateTransaction = "create_transaction"
	OperationUpdateTransaction = "update_transaction"
	OperationDeleteTransaction = "delete_transaction"
	OperationRepairBalances    = "repair_balances"
)

// dashboardCacheKey names the snapshot built while the owner's generation
// was generation. Every committed change bumps the generation, so a
// snapshot assembled from older reads lands under a key nobody asks for.
func dashboardCacheKey(ownerID string, generation int64) string {
	return dashboardCacheKeyPrefix + ownerID + ":" + strconv.FormatInt(generation, 10)
}

func dashboardGenerationKey(ownerID string) string {
	return dashboardGenerationPrefix + ownerID
}
