package apperror

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindUnconfigured Kind = "unconfigured"
	KindUpstream     Kind = "upstream"
	KindInternal     Kind = "internal"
)

// Error is a failure that knows the HTTP status it should be reported with
type Error struct {
	Status  int
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func New(status int, kind Kind, msg string) *Error {
	return &Error{Status: status, Kind: kind, Message: msg}
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, KindNotFound, msg)
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, KindForbidden, msg)
}

func BadRequest(msg string) *Error {
	return New(http.StatusBadRequest, KindBadRequest, msg)
}

func Unauthorized(msg string) *Error {
	return New(http.StatusUnauthorized, KindUnauthorized, msg)
}

// Validation carries a field -> message map and is reported as 422
func Validation(fields map[string]string) *Error {
	e := New(http.StatusUnprocessableEntity, KindValidation, "Validation failed!")
	e.Fields = fields
	return e
}

func Conflict(msg string) *Error {
	return New(http.StatusConflict, KindConflict, msg)
}

func Unconfigured(msg string) *Error {
	return New(http.StatusNotImplemented, KindUnconfigured, msg)
}

// Upstream wraps a payment gateway or video host failure. The upstream message
// is appended to msg. Payments report 400, video calls report 500.
func Upstream(status int, msg string, err error) *Error {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	e := New(status, KindUpstream, msg)
	e.Err = err
	return e
}

func Internal(msg string, err error) *Error {
	e := New(http.StatusInternalServerError, KindInternal, msg)
	e.Err = err
	return e
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries an *Error of the given kind
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
