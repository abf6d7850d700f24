package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ledger operation failure so callers can branch
// without parsing messages.
type ErrorKind string

const (
	ErrKindNotFound               ErrorKind = "not_found"
	ErrKindUnauthorized           ErrorKind = "unauthorized"
	ErrKindInvalidAmount          ErrorKind = "invalid_amount"
	ErrKindInsufficientBalance    ErrorKind = "insufficient_balance"
	ErrKindInsufficientCredit     ErrorKind = "insufficient_credit"
	ErrKindBannedAccount          ErrorKind = "banned_account"
	ErrKindAlreadySettled         ErrorKind = "already_settled"
	ErrKindConcurrentModification ErrorKind = "concurrent_modification"
)

// Error carries a machine-readable kind plus a human-readable description.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so errors.Is works against kind sentinels.
func (e *Error) Is(target error) bool {
	var de *Error
	if errors.As(target, &de) {
		return de.Kind == e.Kind && (de.Message == "" || de.Message == e.Message)
	}
	return false
}

// NewError creates a domain error with the given kind and formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates a domain error wrapping an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the error kind, or empty string for non-domain errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsConcurrentModification reports whether err is a retryable lock conflict.
func IsConcurrentModification(err error) bool {
	return IsKind(err, ErrKindConcurrentModification)
}
