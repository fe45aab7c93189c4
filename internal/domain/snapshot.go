package domain

import "github.com/shopspring/decimal"

// BalanceSnapshot is the materialized net balance between a user and one
// counterparty. A positive balance means the participant owes the user; a
// negative balance means the user owes the participant. For every pair
// the snapshot in one direction is the arithmetic negative of the other;
// the reconciliation engine enforces that on every write.
//
// Snapshots carry no history. The transaction log records how a balance
// got to its current value.
type BalanceSnapshot struct {
	UserID        string
	ParticipantID string
	Balance       decimal.Decimal
	Currency      Currency
}

// Money returns the snapshot's balance as an unsigned amount in the
// snapshot's currency.
func (s *BalanceSnapshot) Money() Money {
	return Money{Amount: s.Balance.Abs(), Currency: s.Currency}
}
