package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seltzer/splitledger/internal/domain"
)

// SnapshotRepository implements usecase.SnapshotRepository. Snapshots are
// keyed by (user_id, participant_id); user_id is the partition column.
type SnapshotRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

// FindAll retrieves every snapshot partitioned under one owner.
func (r *SnapshotRepository) FindAll(ctx context.Context, userID string) ([]*domain.BalanceSnapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, participant_id, balance, currency
		 FROM balance_snapshots
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.BalanceSnapshot
	for rows.Next() {
		s := &domain.BalanceSnapshot{}
		if err := rows.Scan(&s.UserID, &s.ParticipantID, &s.Balance, &s.Currency); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// FindOne retrieves a single snapshot by (id=participantID, partition=userID).
func (r *SnapshotRepository) FindOne(ctx context.Context, participantID, userID string) (*domain.BalanceSnapshot, error) {
	s := &domain.BalanceSnapshot{}

	err := r.pool.QueryRow(ctx,
		`SELECT user_id, participant_id, balance, currency
		 FROM balance_snapshots
		 WHERE user_id = $1 AND participant_id = $2`,
		userID, participantID,
	).Scan(&s.UserID, &s.ParticipantID, &s.Balance, &s.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	return s, nil
}

// SaveAll upserts a batch of snapshots in one round trip.
func (r *SnapshotRepository) SaveAll(ctx context.Context, snapshots []*domain.BalanceSnapshot) error {
	return r.retrier.Retry(ctx, func() error {
		batch := &pgx.Batch{}
		for _, s := range snapshots {
			batch.Queue(
				`INSERT INTO balance_snapshots (user_id, participant_id, balance, currency, updated_at)
				 VALUES ($1, $2, $3, $4, now())
				 ON CONFLICT (user_id, participant_id)
				 DO UPDATE SET balance = EXCLUDED.balance, currency = EXCLUDED.currency, updated_at = now()`,
				s.UserID, s.ParticipantID, s.Balance, s.Currency,
			)
		}

		results := r.pool.SendBatch(ctx, batch)
		defer results.Close()

		for range snapshots {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("upsert snapshot: %w", err)
			}
		}

		return nil
	})
}
