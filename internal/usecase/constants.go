package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// ReadModelTTL bounds how long cached account and party views live.
	ReadModelTTL = 5 * time.Minute

	// maxLockAttempts bounds how often a mutation re-reads a row whose
	// account or party moved between planning and locking.
	maxLockAttempts = 3
)

func accountLockKey(ownerID, id string) string { return "ledger:account:" + ownerID + ":" + id }
func partyLockKey(ownerID, id string) string   { return "ledger:party:" + ownerID + ":" + id }
func invoiceLockKey(ownerID, id string) string { return "ledger:invoice:" + ownerID + ":" + id }

func accountCacheKey(ownerID, id string) string { return "account:" + ownerID + ":" + id }
func partyCacheKey(ownerID, id string) string   { return "party:" + ownerID + ":" + id }
