package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/seltzer/splitledger/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository. The log
// is append-only; ids are assigned by the caller and never generated here.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

// paymentRecord is the stored JSONB shape of a domain.Payment.
type paymentRecord struct {
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Settlement bool            `json:"settlement,omitempty"`
}

func marshalPayment(p *domain.Payment) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(paymentRecord{
		UserID:     p.UserID,
		Amount:     p.Money.Amount,
		Currency:   string(p.Money.Currency),
		Settlement: p.Settlement,
	})
}

func unmarshalPayment(raw []byte) (*domain.Payment, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var rec paymentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}

	return &domain.Payment{
		UserID:     rec.UserID,
		Money:      domain.NewMoney(rec.Amount, domain.Currency(rec.Currency)),
		Settlement: rec.Settlement,
	}, nil
}

// SaveAll appends a batch of transactions in one round trip.
func (r *TransactionRepository) SaveAll(ctx context.Context, txns []*domain.Transaction) error {
	return r.retrier.Retry(ctx, func() error {
		batch := &pgx.Batch{}
		for _, t := range txns {
			paidTo, err := marshalPayment(t.PaidTo)
			if err != nil {
				return fmt.Errorf("marshal paid_to: %w", err)
			}

			receivedFrom, err := marshalPayment(t.ReceivedFrom)
			if err != nil {
				return fmt.Errorf("marshal received_from: %w", err)
			}

			batch.Queue(
				`INSERT INTO transactions (id, partition_key, user_id, paid_to, received_from, created_at)
				 VALUES ($1, $2, $3, $4, $5, now())`,
				t.ID, t.PartitionKey, t.UserID, paidTo, receivedFrom,
			)
		}

		results := r.pool.SendBatch(ctx, batch)
		defer results.Close()

		for range txns {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
		}

		return nil
	})
}

// ListByPair range-scans one pair's co-located history via the partition
// group key, newest first.
func (r *TransactionRepository) ListByPair(ctx context.Context, userID, participantID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, partition_key, user_id, paid_to, received_from
		 FROM transactions
		 WHERE partition_key = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		domain.PairKey(userID, participantID), limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		var (
			t               domain.Transaction
			paidToRaw       []byte
			receivedFromRaw []byte
		)

		if err := rows.Scan(&t.ID, &t.PartitionKey, &t.UserID, &paidToRaw, &receivedFromRaw); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		paidTo, err := unmarshalPayment(paidToRaw)
		if err != nil {
			return nil, fmt.Errorf("unmarshal paid_to: %w", err)
		}

		receivedFrom, err := unmarshalPayment(receivedFromRaw)
		if err != nil {
			return nil, fmt.Errorf("unmarshal received_from: %w", err)
		}

		t.PaidTo, t.ReceivedFrom = paidTo, receivedFrom

		txns = append(txns, &t)
	}

	return txns, rows.Err()
}
