package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/seltzer/splitledger/internal/domain"
)

// Payment directions accepted on the record endpoint.
const (
	DirectionPaid     = "paid"
	DirectionReceived = "received"
)

// RecordPaymentRequest represents one directional payment event: the user
// either paid the counterparty or received money from them.
type RecordPaymentRequest struct {
	UserID         string          `json:"user_id"`
	CounterpartyID string          `json:"counterparty_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Direction      string          `json:"direction"`
	Settlement     bool            `json:"settlement,omitempty"`
}

// ToDomain converts the request into a domain transaction.
func (r *RecordPaymentRequest) ToDomain() (*domain.Transaction, error) {
	payment := &domain.Payment{
		UserID:     r.CounterpartyID,
		Money:      domain.NewMoney(r.Amount, domain.Currency(r.Currency)),
		Settlement: r.Settlement,
	}

	txn := &domain.Transaction{UserID: r.UserID}

	switch r.Direction {
	case DirectionPaid:
		txn.PaidTo = payment
	case DirectionReceived:
		txn.ReceivedFrom = payment
	default:
		return nil, fmt.Errorf("unknown direction %q", r.Direction)
	}

	return txn, nil
}
