// Package core holds the error taxonomy shared by the registration engine
// and the attendance tracker. Services wrap these sentinels with context;
// handlers map them to HTTP statuses via pkg/response.
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigDisabled means registration is globally switched off.
	ErrConfigDisabled = errors.New("registration is currently disabled")
	// ErrAssemblyClosed means the registration window is closed or the
	// deadline has passed.
	ErrAssemblyClosed = errors.New("registration for this assembly is closed")
	// ErrNotFound means the assembly, modality or registration does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers duplicate registrations and full capacity.
	ErrConflict = errors.New("conflict")
	// ErrIneligible means the eligibility rules rejected the applicant.
	// Always wrapped with a category-specific reason.
	ErrIneligible = errors.New("participant not eligible")
	// ErrIllegalTransition means the registration is not in a state that
	// allows the requested transition.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrValidation means a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
)

// Ineligible wraps ErrIneligible with the user-facing reason required by
// the caller. Each eligibility branch produces a distinct reason.
func Ineligible(reason string) error {
	return fmt.Errorf("%w: %s", ErrIneligible, reason)
}

// Conflictf wraps ErrConflict with a descriptive message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConflict}, args...)...)
}

// IllegalTransitionf wraps ErrIllegalTransition with the offending states.
func IllegalTransitionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrIllegalTransition}, args...)...)
}

// Validationf wraps ErrValidation with the offending field.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound naming the missing entity.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}
