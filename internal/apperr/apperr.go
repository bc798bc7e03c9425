// Package apperr carries typed error kinds so handlers can map failures to
// HTTP statuses without matching on message text.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindPaymentVerification
	KindAuth
	KindForbidden
	KindUpstream
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// PaymentVerification failures carry a deliberately generic user-facing
// message; the underlying cause stays server-side.
func PaymentVerification(err error) *Error {
	return &Error{Kind: KindPaymentVerification, Message: "payment could not be verified", Err: err}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf reports the kind attached to err, unwrapping as needed.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation, KindPaymentVerification:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for err. Anything without a typed
// kind is reported opaquely.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUpstream {
		return e.Message
	}
	return "internal server error"
}
