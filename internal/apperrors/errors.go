package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError carries the full list of violated business rules for a
// request. All violations are collected before returning, never just the
// first one.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidation builds a ValidationError from one or more messages.
func NewValidation(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// DuplicateShiftError is the "shift already active" case. It is handled like
// any other validation failure but kept as its own type so callers and tests
// can distinguish it.
type DuplicateShiftError struct {
	Date        string
	ShiftNumber int
}

func (e *DuplicateShiftError) Error() string {
	return fmt.Sprintf("shift %d on %s is already active", e.ShiftNumber, e.Date)
}

// PersistenceError wraps a storage failure. The wrapped driver error is kept
// for logs; handlers must never send it to the client.
type PersistenceError struct {
	Op  string // operation name, e.g. "shifts.create"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a PersistenceError for the named operation.
func Persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IntegrationError marks a failure talking to the external card-lookup
// system. Read paths degrade to "not found"; write-back paths log and move on.
type IntegrationError struct {
	Op  string
	Err error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("external %s: %v", e.Op, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }

// Integration wraps err as an IntegrationError for the named operation.
func Integration(op string, err error) *IntegrationError {
	return &IntegrationError{Op: op, Err: err}
}

// IsValidation reports whether err is a validation-class error (including
// duplicate shift) and returns the user-facing messages.
func IsValidation(err error) ([]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages, true
	}
	var de *DuplicateShiftError
	if errors.As(err, &de) {
		return []string{de.Error()}, true
	}
	return nil, false
}
