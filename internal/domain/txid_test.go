package domain

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func sampleTransaction() Transaction {
	return Transaction{
		UserID: "user-1",
		PaidTo: &Payment{UserID: "user-2", Money: NewMoney(decimal.NewFromInt(100), USD)},
	}
}

func TestDeriveID_Deterministic(t *testing.T) {
	txn := sampleTransaction()

	a := DeriveID(txn, "salt-1")
	b := DeriveID(txn, "salt-1")

	if a != b {
		t.Errorf("same content and salt must hash identically: %s != %s", a, b)
	}
	if !hexDigest.MatchString(a) {
		t.Errorf("expected 64 hex characters, got %q", a)
	}
}

func TestDeriveID_SaltBreaksTies(t *testing.T) {
	txn := sampleTransaction()

	a := DeriveID(txn, "salt-1")
	b := DeriveID(txn, "salt-2")

	if a == b {
		t.Error("identical content with different salts must produce distinct ids")
	}
}

func TestDeriveID_ContentAddressed(t *testing.T) {
	a := sampleTransaction()
	b := sampleTransaction()
	b.PaidTo = &Payment{UserID: "user-2", Money: NewMoney(decimal.NewFromInt(101), USD)}

	if DeriveID(a, "salt-1") == DeriveID(b, "salt-1") {
		t.Error("different content must produce distinct ids")
	}
}

func TestDeriveID_DoesNotMutateInput(t *testing.T) {
	txn := sampleTransaction()
	txn.ID = "original"

	DeriveID(txn, "salt-1")

	if txn.ID != "original" {
		t.Errorf("DeriveID must not mutate its argument, id became %q", txn.ID)
	}
}
