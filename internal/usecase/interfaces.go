package usecase

import (
	"context"
	"time"

	"github.com/seltzer/splitledger/internal/domain"
)

// SnapshotRepository defines data access for balance snapshots. Snapshots
// are partitioned by the owning user's id; FindOne addresses a single
// record by (id=participantID, partition=userID).
type SnapshotRepository interface {
	FindAll(ctx context.Context, userID string) ([]*domain.BalanceSnapshot, error)
	FindOne(ctx context.Context, participantID, userID string) (*domain.BalanceSnapshot, error)
	SaveAll(ctx context.Context, snapshots []*domain.BalanceSnapshot) error
}

// TransactionRepository defines data access for ledger transactions.
// SaveAll appends a batch; ids must be assigned by the caller.
type TransactionRepository interface {
	SaveAll(ctx context.Context, txns []*domain.Transaction) error
	ListByPair(ctx context.Context, userID, participantID string, limit, offset int) ([]*domain.Transaction, error)
}

// SaltSource produces the per-record salt mixed into transaction id
// derivation. Implementations must return a distinct value per call.
type SaltSource interface {
	Salt() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
