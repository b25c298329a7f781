package v1

import (
	"errors"
	"net/http"

	"github.com/mirrorbank/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
}

// status returns the appropriate status for an error
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrStoreUnavailable):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

var (
	errLimitMissing     = errors.New("the limitAmount must be set")
	errBalanceMissing   = errors.New("the balance must be set")
	errTransactionType  = errors.New("the types parameter must only contain 'debit' and 'credit'")
	errDateRangeInvalid = errors.New("the from date must not be after the to date")
)
