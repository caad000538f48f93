// internal/api/handler/transaction.go
package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/omer1kenan/backend/internal/service"
	"github.com/omer1kenan/backend/internal/util"
)

// TransactionHandler handles HTTP requests for credit transactions.
type TransactionHandler struct {
	responder
	service service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(svc service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		responder: responder{logger: logger.With(zap.String("component", "transaction_handler"))},
		service:   svc,
	}
}

// CreateTransactionRequest represents the request body for a new transaction.
// ContactID is only read when the contactId query parameter is absent.
type CreateTransactionRequest struct {
	ContactID *int64          `json:"contactId"`
	Total     decimal.Decimal `json:"total"`
	Date      *time.Time      `json:"date"`
}

// CreateTransaction handles POST /Users/{userId}/transactions?contactId=
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req CreateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	var contactID int64
	if raw := r.URL.Query().Get("contactId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondWithError(w, r, fmt.Errorf("%w: contactId must be an integer, got %q", util.ErrInvalidInput, raw))
			return
		}
		contactID = id
	} else if req.ContactID != nil {
		contactID = *req.ContactID
	} else {
		h.respondWithError(w, r, fmt.Errorf("%w: contactId is required", util.ErrInvalidInput))
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	transaction, err := h.service.CreateTransaction(r.Context(), userID, contactID, req.Total, date)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%s/transactions/%d", usersBase(r), userID, transaction.ID))
	h.respondWithJSON(w, http.StatusCreated, transaction)
}

// ListTransactions handles GET /Users/{userId}/transactions
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.ListTransactions(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET /Users/{userId}/transactions/{transactionId}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "transactionId")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	transaction, err := h.service.GetTransaction(r.Context(), chi.URLParam(r, "userId"), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, transaction)
}

// ListTransactionsByContact handles GET /Users/{userId}/transactions/by-contact/{contactId}
func (h *TransactionHandler) ListTransactionsByContact(w http.ResponseWriter, r *http.Request) {
	contactID, err := int64Param(r, "contactId")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	transactions, err := h.service.ListTransactionsByContact(r.Context(), chi.URLParam(r, "userId"), contactID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, transactions)
}
