package errors

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services. Callers match them
// with errors.Is; the wrapped cause stays reachable through Unwrap.
var (
	// ErrDataUnavailable marks a failed or timed-out store call. The operation
	// made no partial mutation and may be retried.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidArgument rejects malformed input before any store call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConstraintViolation would mean a storage invariant broke (for example
	// a second match row for one pair). It is never expected at runtime.
	ErrConstraintViolation = errors.New("constraint violation")
)

// opError carries the failing operation name alongside the sentinel and cause.
type opError struct {
	op       string
	sentinel error
	cause    error
}

func (e *opError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %v", e.op, e.sentinel)
	}
	return fmt.Sprintf("%s: %v: %v", e.op, e.sentinel, e.cause)
}

func (e *opError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.sentinel}
	}
	return []error{e.sentinel, e.cause}
}

// Unavailable wraps a store failure. Nil stays nil, and errors that already
// carry a sentinel from this package are returned unchanged.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}
	return &opError{op: op, sentinel: ErrDataUnavailable, cause: err}
}

// Invalid builds an ErrInvalidArgument with a human readable reason.
func Invalid(reason string) error {
	return &opError{op: reason, sentinel: ErrInvalidArgument}
}

// NotFound builds an ErrUserNotFound for the given user id.
func NotFound(userID uint64) error {
	return &opError{op: fmt.Sprintf("user %d", userID), sentinel: ErrUserNotFound}
}

// Violation wraps a broken storage invariant.
func Violation(op string, err error) error {
	return &opError{op: op, sentinel: ErrConstraintViolation, cause: err}
}

// IsTimeout reports whether the failure was caused by a deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func isClassified(err error) bool {
	return errors.Is(err, ErrDataUnavailable) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrConstraintViolation)
}
