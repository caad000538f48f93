// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/omer1kenan/backend/internal/api/types"
	"github.com/omer1kenan/backend/internal/util"
)

// DefaultTimeout bounds request handling when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// responder holds the JSON helpers shared by all handlers.
type responder struct {
	logger *zap.Logger
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrInvalidAmount),
		util.IsError(err, util.ErrInsufficientCredit),
		util.IsError(err, util.ErrWeakPassword),
		util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusBadRequest
		message = clientMessage(err)
	case util.IsError(err, util.ErrUserNotFound),
		util.IsError(err, util.ErrContactNotFound),
		util.IsError(err, util.ErrTransactionNotFound),
		util.IsError(err, util.ErrNoTransactions),
		util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = clientMessage(err)
	default:
		h.logger.Error("Unhandled service error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Message: message})
}

// clientErrors are the sentinels whose messages are safe to return to callers.
var clientErrors = []error{
	util.ErrInvalidInput, util.ErrInvalidAmount, util.ErrInsufficientCredit, util.ErrWeakPassword, util.ErrDuplicateEntry,
	util.ErrUserNotFound, util.ErrContactNotFound, util.ErrTransactionNotFound, util.ErrNoTransactions, util.ErrNotFound,
}

// clientMessage strips the "operation: " prefixes services add for logging. The message
// starts at the first client sentinel and keeps the detail that follows it.
func clientMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range clientErrors {
		if !errors.Is(err, sentinel) {
			continue
		}
		if i := strings.Index(msg, sentinel.Error()); i >= 0 {
			return msg[i:]
		}
		return sentinel.Error()
	}
	return msg
}

// decodeJSON reads a JSON body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", util.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", util.ErrInvalidInput, err)
	}
	return nil
}

// int64Param parses a numeric chi URL parameter.
func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", util.ErrInvalidInput, name, raw)
	}
	return id, nil
}
