// Package apperr defines the error kinds shared by the service layer and the
// HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kinds. Compare with errors.Is.
var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrInsufficientCredits   = errors.New("insufficient credits")
	ErrAnalysisService       = errors.New("analysis service error")
	ErrCreditDeductionFailed = errors.New("credit deduction failed")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrNotFoundOrForbidden   = errors.New("not found or forbidden")
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation error")
	ErrInternal              = errors.New("internal error")
)

var kinds = []error{
	ErrUnauthenticated,
	ErrInsufficientCredits,
	ErrAnalysisService,
	ErrCreditDeductionFailed,
	ErrInvalidStatus,
	ErrNotFoundOrForbidden,
	ErrNotFound,
	ErrValidation,
	ErrInternal,
}

// Error carries a kind, a caller-safe message and an optional internal cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// New builds an *Error of the given kind.
func New(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Unauthenticated() *Error {
	return New(ErrUnauthenticated, "sign in required", nil)
}

func Validation(message string) *Error {
	return New(ErrValidation, message, nil)
}

func Internal(cause error) *Error {
	return New(ErrInternal, "unexpected server error", cause)
}

func NotFoundOrForbidden() *Error {
	return New(ErrNotFoundOrForbidden, "record not found", nil)
}

// KindOf returns the first known kind err matches, or ErrInternal.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// Message returns the caller-safe message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return KindOf(err).Error()
}
