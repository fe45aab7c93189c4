package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/seltzer/splitledger/internal/domain"
)

// LedgerUseCase reconciles directional payment events into the append-only
// transaction log and the materialized balance snapshots. For every
// submitted transaction it derives the mirror-image record owned by the
// counterparty and updates both sides' snapshots so that the net balance
// of A toward B stays the arithmetic negative of B toward A.
//
// The use case holds no state between calls; all mutable state lives in
// the repositories. It exclusively owns the snapshot write path.
type LedgerUseCase struct {
	snapshotRepo SnapshotRepository
	txnRepo      TransactionRepository
	salts        SaltSource
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(snapshotRepo SnapshotRepository, txnRepo TransactionRepository, salts SaltSource) *LedgerUseCase {
	return &LedgerUseCase{
		snapshotRepo: snapshotRepo,
		txnRepo:      txnRepo,
		salts:        salts,
	}
}

// RecordTransaction records one directional payment event together with
// its mirror transaction and the two updated balance snapshots. The
// submitted record is stamped in place with its partition key, its
// content-derived id and, for settlements, the actually recorded amount,
// so the caller holds the persisted record on return.
//
// A transaction with zero or two payment directions fails with
// domain.ErrInvalidTransaction before any write is issued. Repository
// failures are propagated as-is: the log write and the snapshot write are
// two independent batched calls with no cross-write transaction, so a
// failure between them leaves whatever already landed.
func (uc *LedgerUseCase) RecordTransaction(ctx context.Context, txn *domain.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	if txn.PaidTo != nil {
		return uc.recordPaid(ctx, txn)
	}

	return uc.recordReceived(ctx, txn)
}

// recordPaid handles "owner paid counterparty". A settlement payment
// discards the caller-supplied amount: the recorded amount becomes the
// outstanding balance owed to the owner, read before this update, and
// both snapshots are zeroed.
func (uc *LedgerUseCase) recordPaid(ctx context.Context, txn *domain.Transaction) error {
	payment := txn.PaidTo
	participantID := payment.UserID

	self, participant, err := uc.loadPair(ctx, txn.UserID, participantID, payment.Money.Currency)
	if err != nil {
		return err
	}

	recorded := payment.Money
	selfBalance := self.Balance.Add(payment.Money.Amount)
	participantBalance := participant.Balance.Sub(payment.Money.Amount)

	if payment.Settlement {
		recorded = self.Money()
		selfBalance = decimal.Zero
		participantBalance = decimal.Zero
	}

	txn.PaidTo = &domain.Payment{UserID: participantID, Money: recorded, Settlement: payment.Settlement}

	mirror := &domain.Transaction{
		UserID:       participantID,
		ReceivedFrom: &domain.Payment{UserID: txn.UserID, Money: recorded},
	}

	snapshots := []*domain.BalanceSnapshot{
		{UserID: txn.UserID, ParticipantID: participantID, Balance: selfBalance, Currency: payment.Money.Currency},
		{UserID: participantID, ParticipantID: txn.UserID, Balance: participantBalance, Currency: payment.Money.Currency},
	}

	return uc.persist(ctx, []*domain.Transaction{txn, mirror}, snapshots)
}

// recordReceived handles "owner received from counterparty". There is no
// settlement special case on this side: a settlement is only honored when
// expressed as a paid transaction with the settlement flag.
func (uc *LedgerUseCase) recordReceived(ctx context.Context, txn *domain.Transaction) error {
	payment := txn.ReceivedFrom
	participantID := payment.UserID

	self, participant, err := uc.loadPair(ctx, txn.UserID, participantID, payment.Money.Currency)
	if err != nil {
		return err
	}

	mirror := &domain.Transaction{
		UserID: participantID,
		PaidTo: &domain.Payment{UserID: txn.UserID, Money: payment.Money},
	}

	snapshots := []*domain.BalanceSnapshot{
		{UserID: txn.UserID, ParticipantID: participantID, Balance: self.Balance.Sub(payment.Money.Amount), Currency: payment.Money.Currency},
		{UserID: participantID, ParticipantID: txn.UserID, Balance: participant.Balance.Add(payment.Money.Amount), Currency: payment.Money.Currency},
	}

	return uc.persist(ctx, []*domain.Transaction{txn, mirror}, snapshots)
}

// loadPair fetches the snapshots for both directions of a user pair,
// substituting zero-balance defaults with the triggering transaction's
// currency when a side has no snapshot yet.
func (uc *LedgerUseCase) loadPair(ctx context.Context, userID, participantID string, currency domain.Currency) (self, participant *domain.BalanceSnapshot, err error) {
	self, err = uc.findOrDefault(ctx, participantID, userID, currency)
	if err != nil {
		return nil, nil, err
	}

	participant, err = uc.findOrDefault(ctx, userID, participantID, currency)
	if err != nil {
		return nil, nil, err
	}

	return self, participant, nil
}

func (uc *LedgerUseCase) findOrDefault(ctx context.Context, participantID, userID string, currency domain.Currency) (*domain.BalanceSnapshot, error) {
	snap, err := uc.snapshotRepo.FindOne(ctx, participantID, userID)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		return &domain.BalanceSnapshot{
			UserID:        userID,
			ParticipantID: participantID,
			Balance:       decimal.Zero,
			Currency:      currency,
		}, nil
	}

	if err != nil {
		return nil, err
	}

	return snap, nil
}

// persist assigns final ids and partition keys, then issues the two
// batched writes. The persisted id is always recomputed from the final
// record content, even when the caller supplied one.
func (uc *LedgerUseCase) persist(ctx context.Context, txns []*domain.Transaction, snapshots []*domain.BalanceSnapshot) error {
	for _, t := range txns {
		t.SetPartitionKey()
		t.ID = domain.DeriveID(*t, uc.salts.Salt())
	}

	if err := uc.txnRepo.SaveAll(ctx, txns); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}

	// No rollback of the log write if this fails; the log and the
	// materialized view diverge until reconciled out of band.
	if err := uc.snapshotRepo.SaveAll(ctx, snapshots); err != nil {
		return fmt.Errorf("save snapshots: %w", err)
	}

	return nil
}

// AmountsOwedToUser returns every snapshot where the counterparty
// currently owes the user, unmodified.
func (uc *LedgerUseCase) AmountsOwedToUser(ctx context.Context, userID string) ([]*domain.BalanceSnapshot, error) {
	snapshots, err := uc.snapshotRepo.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	var owed []*domain.BalanceSnapshot
	for _, s := range snapshots {
		if s.Balance.IsPositive() {
			owed = append(owed, s)
		}
	}

	return owed, nil
}

// AmountsUserOwes returns every snapshot where the user currently owes
// the counterparty. Balances are reported as absolute values: a returned
// snapshot with balance 80 means the user owes 80, not that 80 is owed
// to them.
func (uc *LedgerUseCase) AmountsUserOwes(ctx context.Context, userID string) ([]*domain.BalanceSnapshot, error) {
	snapshots, err := uc.snapshotRepo.FindAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	var owes []*domain.BalanceSnapshot
	for _, s := range snapshots {
		if s.Balance.IsNegative() {
			owes = append(owes, &domain.BalanceSnapshot{
				UserID:        s.UserID,
				ParticipantID: s.ParticipantID,
				Balance:       s.Balance.Abs(),
				Currency:      s.Currency,
			})
		}
	}

	return owes, nil
}

// ListPairTransactionsInput represents input for listing a pair's history.
type ListPairTransactionsInput struct {
	UserID        string
	ParticipantID string
	Limit         int
	Offset        int
}

// ListPairTransactions lists the co-located transaction history for one
// user pair.
func (uc *LedgerUseCase) ListPairTransactions(ctx context.Context, input ListPairTransactionsInput) ([]*domain.Transaction, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.txnRepo.ListByPair(ctx, input.UserID, input.ParticipantID, input.Limit, input.Offset)
}
