package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seltzer/splitledger/internal/adapter/http/dto"
	"github.com/seltzer/splitledger/internal/infrastructure/metrics"
	"github.com/seltzer/splitledger/internal/usecase"
)

// LedgerHandler handles payment recording and balance query requests.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
	metrics  *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, metrics: m}
}

// Record records one directional payment event.
func (h *LedgerHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid direction", err.Error())
		return
	}

	start := time.Now()
	if err := h.ledgerUC.RecordTransaction(r.Context(), txn); err != nil {
		status := mapDomainError(err)
		if status == http.StatusBadRequest {
			h.metrics.InvalidTransactions.Inc()
		}
		writeError(w, status, "failed to record payment", err.Error())

		return
	}

	h.metrics.RecordDuration.Observe(time.Since(start).Seconds())
	h.metrics.PaymentsRecorded.WithLabelValues(req.Direction).Inc()
	amount, _ := req.Amount.Float64()
	h.metrics.RecordedAmount.Observe(amount)
	if req.Settlement {
		h.metrics.SettlementsRecorded.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Receivable lists the balances other users owe this user.
func (h *LedgerHandler) Receivable(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	h.metrics.BalanceQueries.WithLabelValues("receivable").Inc()

	snapshots, err := h.ledgerUC.AmountsOwedToUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list receivable balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(snapshots))
}

// Payable lists the balances this user owes others. Amounts come back as
// absolute values.
func (h *LedgerHandler) Payable(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	h.metrics.BalanceQueries.WithLabelValues("payable").Inc()

	snapshots, err := h.ledgerUC.AmountsUserOwes(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payable balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(snapshots))
}

// History lists one pair's transaction history.
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	participantID := chi.URLParam(r, "participantID")
	if userID == "" || participantID == "" {
		writeError(w, http.StatusBadRequest, "missing user or participant ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.ledgerUC.ListPairTransactions(r.Context(), usecase.ListPairTransactionsInput{
		UserID:        userID,
		ParticipantID: participantID,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}
