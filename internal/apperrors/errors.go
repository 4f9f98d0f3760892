package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrRateUnavailable indicates that no exchange rate could be resolved for a pair and date,
// even after inverse and backward lookups.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrRateProvider indicates that the live rate provider failed or timed out.
var ErrRateProvider = errors.New("rate provider error")

// ErrMaterializationConflict indicates that a transaction already exists for a recurring occurrence.
// It is a no-op skip, not a failure.
var ErrMaterializationConflict = errors.New("occurrence already materialized")

// ErrPersistence indicates a write failure against the store.
var ErrPersistence = errors.New("persistence error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError wraps ErrValidation with a message.
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewPersistenceError wraps ErrPersistence together with the driver error.
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Code: 500, Message: message, Err: errors.Join(ErrPersistence, err)}
}

// RateUnavailableError identifies the pair and date that could not be resolved.
type RateUnavailableError struct {
	FromCurrencyID int64
	ToCurrencyID   int64
	Date           time.Time
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no exchange rate for %d -> %d on or before %s",
		e.FromCurrencyID, e.ToCurrencyID, e.Date.Format(time.DateOnly))
}

// Is lets errors.Is(err, ErrRateUnavailable) match.
func (e *RateUnavailableError) Is(target error) bool {
	return target == ErrRateUnavailable
}
