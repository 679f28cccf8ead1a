package errs

import (
	"errors"
	"fmt"
)

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// Reason codes carried by ValidationError and StateConflictError.
const (
	ReasonInsufficientHistory = "InsufficientHistory"

	ReasonAlreadyLoan         = "AlreadyLoan"
	ReasonRequestPending      = "RequestPending"
	ReasonActiveLoanExists    = "ActiveLoanExists"
	ReasonNoPendingRequest    = "NoPendingRequest"
	ReasonDuplicateActiveLoan = "DuplicateActiveLoan"
	ReasonPlanNotActive       = "PlanNotActive"
	ReasonPlanClosed          = "PlanClosed"
	ReasonRequestNotPending   = "RequestNotPending"
	ReasonWithdrawalPending   = "WithdrawalPending"
)

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
	Reason string
}

type StateConflictError struct {
	ErrorMessage
	Reason string
}

type InsufficientFundsError struct {
	ErrorMessage
	Requested float64
	Available float64
}

type ForbiddenError struct {
	ErrorMessage
}

// DatabaseError is a store or transaction failure. It is never caller-fixable.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationErrorWithReason(reason, message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
		Reason:       reason,
	}
}

func NewStateConflictError(reason, message string) *StateConflictError {
	return &StateConflictError{
		ErrorMessage: ErrorMessage{Message: message},
		Reason:       reason,
	}
}

func NewInsufficientFundsError(requested, available float64) *InsufficientFundsError {
	return &InsufficientFundsError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf(
			"insufficient available balance: requested %.2f, available %.2f", requested, available)},
		Requested: requested,
		Available: available,
	}
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

// IsCallerError reports whether err is one the caller can act on, as opposed
// to an opaque persistence failure.
func IsCallerError(err error) bool {
	var (
		nf *NotFoundError
		ve *ValidationError
		sc *StateConflictError
		fe *InsufficientFundsError
		fb *ForbiddenError
	)
	return errors.As(err, &nf) || errors.As(err, &ve) || errors.As(err, &sc) ||
		errors.As(err, &fe) || errors.As(err, &fb)
}

// HasReason reports whether err is a validation or state conflict error with the given reason.
func HasReason(err error, reason string) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason == reason
	}
	var sc *StateConflictError
	if errors.As(err, &sc) {
		return sc.Reason == reason
	}
	return false
}
