package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/registry"
)

// Machine-readable error codes.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Error bodies look like {"error": {"code": "...", "message": "..."}}.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{
		Error: errorDetail{Code: code, Message: message},
	})
}

func validationError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, CodeValidationError, message)
}

// serviceError maps a registry error onto a response.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, registry.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, common.UserMessage(err))
	case errors.Is(err, common.ErrStoreUnavailable):
		h.logger.ErrorContext(r.Context(), "store request failed", "error", err)
		writeError(w, http.StatusBadGateway, CodeStoreUnavailable, common.UserMessage(err))
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
