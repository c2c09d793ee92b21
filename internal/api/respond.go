package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/revobank/revobank/internal/auth"
	"github.com/revobank/revobank/internal/interfaces"
	"github.com/revobank/revobank/internal/ledger"
)

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func httpError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// domainError maps engine and store errors to HTTP responses. Unknown errors
// come back as 500 with a generic message; the caller logs the detail.
func (a *API) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		httpError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, interfaces.ErrAccountNotFound),
		errors.Is(err, interfaces.ErrTransactionNotFound),
		errors.Is(err, interfaces.ErrUserNotFound):
		httpError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrValidation),
		errors.Is(err, ledger.ErrSameAccount),
		errors.Is(err, ledger.ErrNonZeroBalance),
		errors.Is(err, auth.ErrMissingFields):
		httpError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUsernameTaken),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, interfaces.ErrDuplicateUser):
		httpError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		httpError(w, http.StatusUnauthorized, err.Error())
	default:
		a.logger.Error("request failed", "err", err)
		httpError(w, http.StatusInternalServerError, "internal server error")
	}
}
