// Package apperr defines the error taxonomy shared by all services.
// Handlers map a Kind to its HTTP status; services never touch status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Validation is missing or malformed input (HTTP 400).
	Validation Kind = iota + 1
	// NotFound is an unknown id or entity (HTTP 404).
	NotFound
	// Conflict is a uniqueness violation such as a duplicate SKU (HTTP 400).
	Conflict
	// Forbidden is a disabled account (HTTP 403).
	Forbidden
	// Storage is an unexpected persistence failure (HTTP 500).
	Storage
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the Kind carried by err. Errors without one are treated
// as Storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Storage
}

// Message returns the user-facing message for err without any wrapped
// storage detail.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
