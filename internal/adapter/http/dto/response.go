package dto

import (
	"github.com/shopspring/decimal"

	"github.com/seltzer/splitledger/internal/domain"
)

// BalanceResponse represents a balance snapshot in API responses.
type BalanceResponse struct {
	UserID        string          `json:"user_id"`
	ParticipantID string          `json:"participant_id"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
}

// BalanceFromDomain converts a domain snapshot to a response.
func BalanceFromDomain(s *domain.BalanceSnapshot) *BalanceResponse {
	return &BalanceResponse{
		UserID:        s.UserID,
		ParticipantID: s.ParticipantID,
		Balance:       s.Balance,
		Currency:      string(s.Currency),
	}
}

// BalancesFromDomain converts domain snapshots to responses.
func BalancesFromDomain(snapshots []*domain.BalanceSnapshot) []*BalanceResponse {
	result := make([]*BalanceResponse, len(snapshots))
	for i, s := range snapshots {
		result[i] = BalanceFromDomain(s)
	}
	return result
}

// PaymentResponse represents one side of a transaction in API responses.
type PaymentResponse struct {
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Settlement bool            `json:"settlement,omitempty"`
}

// TransactionResponse represents a ledger transaction in API responses.
type TransactionResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	PartitionKey string           `json:"partition_key"`
	PaidTo       *PaymentResponse `json:"paid_to,omitempty"`
	ReceivedFrom *PaymentResponse `json:"received_from,omitempty"`
}

func paymentFromDomain(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		UserID:     p.UserID,
		Amount:     p.Money.Amount,
		Currency:   string(p.Money.Currency),
		Settlement: p.Settlement,
	}
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		PartitionKey: t.PartitionKey,
		PaidTo:       paymentFromDomain(t.PaidTo),
		ReceivedFrom: paymentFromDomain(t.ReceivedFrom),
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
