package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates the requested transition is not legal from the
// batch's current status.
var ErrInvalidState = errors.New("operation not allowed in current status")

// ErrConcurrentModification indicates a compare-and-swap status update found
// the row in a different status than expected. The caller must re-fetch the
// batch and decide whether to retry.
var ErrConcurrentModification = errors.New("batch was modified concurrently")

// ErrPeriodClosed indicates the accounting period covering the batch date is
// closed, or that no period exists for that date.
var ErrPeriodClosed = errors.New("accounting period is closed")

// ErrAlreadyPosted indicates a post was attempted on a batch that is already posted.
var ErrAlreadyPosted = errors.New("batch is already posted")

// ErrAlreadyReversed indicates the batch already has a reversal; at most one
// reversal per batch is permitted.
var ErrAlreadyReversed = errors.New("batch already has a reversal")

// ErrNotPosted indicates a reversal was requested for a batch that is not posted.
var ErrNotPosted = errors.New("batch is not posted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-ish status code and a
// message suitable for logging. errors.Is/Unwrap reach the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping the given cause (may be nil).
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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
