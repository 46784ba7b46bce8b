package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the structured failure code the HTTP layer dispatches on.
// Callers must never pattern-match on message text.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "invalid_input"
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindQuotaExhausted     ErrorKind = "quota_exhausted"
	KindBackendUnavailable ErrorKind = "backend_unavailable"
	KindContractViolation  ErrorKind = "contract_violation"
	KindPersistenceFailure ErrorKind = "persistence_failure"
)

// Error is the typed failure returned by the scoring request service.
// Field is set for contract violations to name the offending field.
type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func contractViolation(field, message string) *Error {
	return &Error{Kind: KindContractViolation, Message: message, Field: field}
}

// KindOf extracts the structured kind from an error chain, or "" if the
// error did not originate in this package.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ""
}
