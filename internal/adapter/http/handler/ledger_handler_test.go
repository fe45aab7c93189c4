package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seltzer/splitledger/internal/adapter/http/dto"
	"github.com/seltzer/splitledger/internal/adapter/http/handler"
	"github.com/seltzer/splitledger/internal/domain"
	"github.com/seltzer/splitledger/internal/infrastructure/metrics"
	"github.com/seltzer/splitledger/internal/usecase"
)

// Shared across tests: promauto registers against the default registry and
// a second New() in the same binary would panic.
var testMetrics = metrics.New()

type fakeSnapshotRepository struct {
	snapshots map[string]*domain.BalanceSnapshot
}

func newFakeSnapshotRepository() *fakeSnapshotRepository {
	return &fakeSnapshotRepository{snapshots: make(map[string]*domain.BalanceSnapshot)}
}

func (f *fakeSnapshotRepository) seed(userID, participantID, balance string, currency domain.Currency) {
	f.snapshots[userID+"/"+participantID] = &domain.BalanceSnapshot{
		UserID:        userID,
		ParticipantID: participantID,
		Balance:       decimal.RequireFromString(balance),
		Currency:      currency,
	}
}

func (f *fakeSnapshotRepository) FindAll(ctx context.Context, userID string) ([]*domain.BalanceSnapshot, error) {
	var result []*domain.BalanceSnapshot
	for _, s := range f.snapshots {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSnapshotRepository) FindOne(ctx context.Context, participantID, userID string) (*domain.BalanceSnapshot, error) {
	s, ok := f.snapshots[userID+"/"+participantID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSnapshotRepository) SaveAll(ctx context.Context, snapshots []*domain.BalanceSnapshot) error {
	for _, s := range snapshots {
		copied := *s
		f.snapshots[s.UserID+"/"+s.ParticipantID] = &copied
	}
	return nil
}

type fakeTransactionRepository struct {
	saved []*domain.Transaction
}

func (f *fakeTransactionRepository) SaveAll(ctx context.Context, txns []*domain.Transaction) error {
	f.saved = append(f.saved, txns...)
	return nil
}

func (f *fakeTransactionRepository) ListByPair(ctx context.Context, userID, participantID string, limit, offset int) ([]*domain.Transaction, error) {
	key := domain.PairKey(userID, participantID)
	var result []*domain.Transaction
	for _, t := range f.saved {
		if t.PartitionKey == key {
			result = append(result, t)
		}
	}
	return result, nil
}

type fixedSaltSource struct{ salt string }

func (f fixedSaltSource) Salt() string { return f.salt }

func newTestRouter(snapshots *fakeSnapshotRepository, txns *fakeTransactionRepository) http.Handler {
	uc := usecase.NewLedgerUseCase(snapshots, txns, fixedSaltSource{salt: "salt-1"})
	h := handler.NewLedgerHandler(uc, testMetrics)

	r := chi.NewRouter()
	r.Post("/api/v1/payments", h.Record)
	r.Get("/api/v1/users/{id}/receivable", h.Receivable)
	r.Get("/api/v1/users/{id}/payable", h.Payable)
	r.Get("/api/v1/users/{id}/transactions/{participantID}", h.History)

	return r
}

func TestLedgerHandler_RecordPaid(t *testing.T) {
	snapshots := newFakeSnapshotRepository()
	txns := &fakeTransactionRepository{}
	router := newTestRouter(snapshots, txns)

	body := `{"user_id":"alice","counterparty_id":"bob","amount":"100","currency":"USD","direction":"paid"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.TransactionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "alice", resp.UserID)
	assert.Len(t, resp.ID, 64)
	require.NotNil(t, resp.PaidTo)
	assert.Equal(t, "bob", resp.PaidTo.UserID)
	assert.Nil(t, resp.ReceivedFrom)

	// Both sides of the pair were written
	assert.Len(t, txns.saved, 2)

	owed, err := snapshots.FindOne(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.True(t, owed.Balance.Equal(decimal.NewFromInt(100)))
}

func TestLedgerHandler_RecordInvalidBody(t *testing.T) {
	router := newTestRouter(newFakeSnapshotRepository(), &fakeTransactionRepository{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLedgerHandler_RecordUnknownDirection(t *testing.T) {
	router := newTestRouter(newFakeSnapshotRepository(), &fakeTransactionRepository{})

	body := `{"user_id":"alice","counterparty_id":"bob","amount":"100","currency":"USD","direction":"sideways"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLedgerHandler_Receivable(t *testing.T) {
	snapshots := newFakeSnapshotRepository()
	snapshots.seed("alice", "bob", "75", domain.USD)
	snapshots.seed("alice", "carol", "-30", domain.USD)
	router := newTestRouter(snapshots, &fakeTransactionRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/alice/receivable", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []*dto.BalanceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "bob", resp[0].ParticipantID)
	assert.True(t, resp[0].Balance.Equal(decimal.NewFromInt(75)))
}

func TestLedgerHandler_PayableReturnsAbsoluteAmounts(t *testing.T) {
	snapshots := newFakeSnapshotRepository()
	snapshots.seed("alice", "bob", "75", domain.USD)
	snapshots.seed("alice", "carol", "-30", domain.USD)
	router := newTestRouter(snapshots, &fakeTransactionRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/alice/payable", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []*dto.BalanceResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "carol", resp[0].ParticipantID)
	assert.True(t, resp[0].Balance.Equal(decimal.NewFromInt(30)))
}

func TestLedgerHandler_History(t *testing.T) {
	snapshots := newFakeSnapshotRepository()
	txns := &fakeTransactionRepository{}
	router := newTestRouter(snapshots, txns)

	body := `{"user_id":"alice","counterparty_id":"bob","amount":"40","currency":"EUR","direction":"received"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/alice/transactions/bob?limit=10", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []*dto.TransactionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	require.NotNil(t, resp[0].ReceivedFrom)
	assert.Equal(t, "bob", resp[0].ReceivedFrom.UserID)
}
