package models

import (
	"errors"
)

// Error kinds. Every error returned by this package wraps exactly one of these,
// so callers can classify with errors.Is.
var (
	ErrValidation       = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// kindError is an error with its own message that still matches its kind with errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string {
	return e.msg
}

func (e kindError) Unwrap() error {
	return e.kind
}

func newError(kind error, msg string) error {
	return kindError{kind: kind, msg: msg}
}

var (
	ErrGeneral          = newError(ErrStoreUnavailable, "an error occurred on the server during your request")
	ErrResourceNotFound = newError(ErrNotFound, "there is no")
	ErrReferenceMissing = newError(ErrNotFound, "there is no resource for the ID you specified in the reference to another resource")
)

var (
	ErrAmountNotPositive     = newError(ErrValidation, "the amount must be larger than zero")
	ErrAmountPrecision       = newError(ErrValidation, "amounts must not have more than 15 digits and 8 decimal places")
	ErrLimitNotPositive      = newError(ErrValidation, "the budget limit must be larger than zero")
	ErrTargetNotPositive     = newError(ErrValidation, "the goal target must be larger than zero")
	ErrCategoryEmpty         = newError(ErrValidation, "the category must not be empty")
	ErrNameEmpty             = newError(ErrValidation, "the name must not be empty")
	ErrPeriodInvalid         = newError(ErrValidation, "the period must be one of 'weekly' or 'monthly'")
	ErrStartDateMissing      = newError(ErrValidation, "the start date must be set")
	ErrTransactionTypeBad    = newError(ErrValidation, "the transaction type must be one of 'debit' or 'credit'")
	ErrAccountTypeBad        = newError(ErrValidation, "the account type must be one of 'checking', 'savings', 'credit' or 'wallet'")
	ErrAccountMissing        = newError(ErrValidation, "the transaction must reference an account")
	ErrThresholdNegative     = newError(ErrValidation, "the low balance threshold must not be negative")
	ErrRecommendationEmpty   = newError(ErrValidation, "the recommendation type and message must not be empty")
	ErrCategoryRuleMatch     = newError(ErrValidation, "the match pattern must not be empty")
	ErrAlertPolicyInvalid    = newError(ErrValidation, "alert thresholds must be positive and the warning threshold must not exceed the exceeded threshold")
	ErrRecurringOptionsBad   = newError(ErrValidation, "the window must be at least one day and the minimum count at least one")
	ErrCheckFailed           = newError(ErrValidation, "a value violates a constraint of the database")
	ErrBudgetNotUnique       = newError(ErrConflict, "a budget for this category, period and start date already exists")
	ErrCategoryRuleNotUnique = newError(ErrConflict, "a category rule for this pattern already exists")
)
