package domain

import "fmt"

// Transaction is an append-only ledger record owned by one user. Exactly
// one of PaidTo or ReceivedFrom is set; a record with both or neither is
// rejected by Validate. Transactions are created once and never mutated
// or deleted.
type Transaction struct {
	PartitionKey string
	UserID       string
	ID           string
	PaidTo       *Payment
	ReceivedFrom *Payment
}

// Validate checks that exactly one payment direction is set.
func (t *Transaction) Validate() error {
	if (t.PaidTo == nil) == (t.ReceivedFrom == nil) {
		return fmt.Errorf("%w: %s", ErrInvalidTransaction, t)
	}
	return nil
}

// CounterpartyID returns the user on the other side of the transaction.
func (t *Transaction) CounterpartyID() string {
	if t.PaidTo != nil {
		return t.PaidTo.UserID
	}
	if t.ReceivedFrom != nil {
		return t.ReceivedFrom.UserID
	}
	return ""
}

// SetPartitionKey stamps the group key that co-locates the full history
// of a user pair for range scans. Must be called before the record is
// handed to the persistence layer.
func (t *Transaction) SetPartitionKey() {
	t.PartitionKey = PairKey(t.UserID, t.CounterpartyID())
}

// PairKey derives the partition group key for an ordered user pair.
func PairKey(userID, participantID string) string {
	return userID + "_" + participantID
}

func (t *Transaction) String() string {
	return fmt.Sprintf("transaction(partition=%s owner=%s id=%s paid_to=%s received_from=%s)",
		t.PartitionKey, t.UserID, t.ID, t.PaidTo, t.ReceivedFrom)
}
