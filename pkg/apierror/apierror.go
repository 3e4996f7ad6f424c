package apierror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindAuth       Kind = "AUTH_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindForbidden  Kind = "FORBIDDEN"
	KindConfig     Kind = "CONFIG_ERROR"
	KindUnknown    Kind = "UNKNOWN_ERROR"
)

// Error is the tagged error returned by services. Kind selects the transport
// status, Code narrows it for clients, Message is safe to show to users.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func New(kind Kind, code string, message string) *Error {
	if code == "" {
		code = string(kind)
	}
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches cause for errors.Is/As. The cause never reaches Message.
func Wrap(kind Kind, code string, message string, cause error) *Error {
	e := New(kind, code, message)
	e.cause = cause
	return e
}

func Validation(code string, message string) *Error {
	return New(KindValidation, code, message)
}

func Auth(code string, message string) *Error {
	return New(KindAuth, code, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, "", message)
}

func Conflict(message string) *Error {
	return New(KindConflict, "", message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, "", message)
}

func Config(message string, cause error) *Error {
	return Wrap(KindConfig, "", message, cause)
}

func Unknown(message string, cause error) *Error {
	return Wrap(KindUnknown, "", message, cause)
}

// KindOf reports the kind of err, or KindUnknown for errors outside the taxonomy.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}
