package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/seltzer/splitledger/internal/domain"
	"github.com/seltzer/splitledger/internal/usecase"
	"github.com/seltzer/splitledger/internal/usecase/mocks"
)

func TestAmountsOwedToUser_Projection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snapshotRepo := mocks.NewMockSnapshotRepository(ctrl)
	snapshotRepo.EXPECT().FindAll(gomock.Any(), "user-1").Return([]*domain.BalanceSnapshot{
		{UserID: "user-1", ParticipantID: "user-2", Balance: decimal.NewFromInt(100), Currency: domain.USD},
		{UserID: "user-1", ParticipantID: "user-3", Balance: decimal.NewFromInt(200), Currency: domain.USD},
	}, nil)

	uc := usecase.NewLedgerUseCase(snapshotRepo, mocks.NewMockTransactionRepository(ctrl), mocks.NewMockSaltSource(ctrl))

	owed, err := uc.AmountsOwedToUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(owed) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(owed))
	}
}

func TestAmountsUserOwes_Projection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	snapshotRepo := mocks.NewMockSnapshotRepository(ctrl)
	snapshotRepo.EXPECT().FindAll(gomock.Any(), "user-1").Return([]*domain.BalanceSnapshot{
		{UserID: "user-1", ParticipantID: "user-2", Balance: decimal.NewFromInt(100), Currency: domain.USD},
		{UserID: "user-1", ParticipantID: "user-3", Balance: decimal.NewFromInt(-80), Currency: domain.USD},
	}, nil)

	uc := usecase.NewLedgerUseCase(snapshotRepo, mocks.NewMockTransactionRepository(ctrl), mocks.NewMockSaltSource(ctrl))

	owes, err := uc.AmountsUserOwes(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(owes) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(owes))
	}

	if !owes[0].Balance.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected absolute balance 80, got %s", owes[0].Balance)
	}
}

func TestListPairTransactions_ClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txnRepo := mocks.NewMockTransactionRepository(ctrl)
	txnRepo.EXPECT().ListByPair(gomock.Any(), "user-1", "user-2", 20, 0).Return(nil, nil)
	txnRepo.EXPECT().ListByPair(gomock.Any(), "user-1", "user-2", 100, 0).Return(nil, nil)

	uc := usecase.NewLedgerUseCase(mocks.NewMockSnapshotRepository(ctrl), txnRepo, mocks.NewMockSaltSource(ctrl))

	if _, err := uc.ListPairTransactions(context.Background(), usecase.ListPairTransactionsInput{
		UserID: "user-1", ParticipantID: "user-2", Limit: 0,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.ListPairTransactions(context.Background(), usecase.ListPairTransactionsInput{
		UserID: "user-1", ParticipantID: "user-2", Limit: 500,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
