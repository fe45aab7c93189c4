package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 style currency code.
type Currency string

// Supported currency codes.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	INR Currency = "INR"
)

// Money is an immutable amount and currency pair.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

// NewMoney creates a Money value.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount, m.Currency)
}
