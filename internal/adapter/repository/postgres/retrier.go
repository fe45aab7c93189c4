package postgres

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres aborts one side of a deadlock or serialization conflict with
// a retryable SQLSTATE; everything else is treated as permanent.
const (
	sqlstateDeadlockDetected     = "40P01"
	sqlstateSerializationFailure = "40001"
)

// Retrier re-runs the batched snapshot and transaction writes when
// postgres reports a transient conflict.
type Retrier struct {
	attempts int
	logger   *slog.Logger
}

// NewRetrier creates a Retrier with the default write policy.
func NewRetrier() *Retrier {
	return &Retrier{
		attempts: 3,
		logger:   slog.Default(),
	}
}

// Retry executes op, backing off exponentially between attempts. The
// whole write batch is re-issued; individual statements are not retried
// in isolation.
func (r *Retrier) Retry(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = time.Second
	policy.MaxElapsedTime = 10 * time.Second

	tries := 0

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}

		tries++
		if tries > r.attempts {
			return backoff.Permanent(err)
		}

		r.logger.Warn("transient database conflict, retrying write",
			"error", err,
			"attempt", tries,
		)

		return err
	}, backoff.WithContext(policy, ctx))
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == sqlstateDeadlockDetected || pgErr.Code == sqlstateSerializationFailure
}
