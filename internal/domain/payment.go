package domain

import "fmt"

// Payment is one side of a transaction, always expressed from the
// perspective of the transaction's owning user. UserID names the
// counterparty on the other side of the payment.
type Payment struct {
	UserID     string
	Money      Money
	Settlement bool
}

func (p *Payment) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("payment(user=%s money=%s settlement=%t)", p.UserID, p.Money, p.Settlement)
}
