package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across client layers.
type ErrorCode string

const (
	ErrCodeUnreachable  ErrorCode = "UNREACHABLE"
	ErrCodeRejected     ErrorCode = "REJECTED"
	ErrCodeUnexpected   ErrorCode = "UNEXPECTED_RESPONSE"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalid      ErrorCode = "INVALID"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrUnexpectedResponse flags a reply whose shape the backend contract does
// not allow.
var ErrUnexpectedResponse = NewError(ErrCodeUnexpected, "unexpected response from server")

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
