package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrClaimNotFound         = errors.New("claim not found")
	ErrNotScheduleOwner      = errors.New("actor is not the schedule owner")
	ErrNotClaimOwner         = errors.New("actor is not the claim owner")
	ErrDuplicatePendingClaim = errors.New("a pending claim already exists for this schedule")
	ErrScheduleCancelled     = errors.New("schedule is cancelled and can no longer change")
	ErrClaimNotPending       = errors.New("claim has already been decided")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrInvalidFrequency      = errors.New("invalid payment frequency")
	ErrInvalidStatus         = errors.New("invalid status value")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeCacheError        = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapValidation(message string, err error) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, err)
}

func WrapScheduleNotFound(scheduleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Schedule with ID %s not found", scheduleID),
		ErrScheduleNotFound,
	)
}

func WrapClaimNotFound(claimID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Claim with ID %s not found", claimID),
		ErrClaimNotFound,
	)
}

// WrapForbidden is deliberately generic so non-owners learn nothing about the record.
func WrapForbidden(err error) *BusinessError {
	return NewBusinessError(ErrCodeForbidden, "action not allowed", err)
}

func WrapDuplicatePendingClaim(scheduleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeConflict,
		fmt.Sprintf("A request is already pending for schedule %s", scheduleID),
		ErrDuplicatePendingClaim,
	)
}

func WrapScheduleCancelled(scheduleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTransition,
		fmt.Sprintf("Schedule %s is cancelled and can no longer be changed", scheduleID),
		ErrScheduleCancelled,
	)
}

func WrapClaimNotPending(claimID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTransition,
		fmt.Sprintf("Claim %s can no longer be changed", claimID),
		ErrClaimNotPending,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// CodeOf extracts the business error code, or empty string for plain errors.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
