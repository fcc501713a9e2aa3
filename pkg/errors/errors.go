// ================== pkg/errors/errors.go =================
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrDuplicate    = errors.New("resource already exists")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("state conflict")
	ErrExpired      = errors.New("donation has expired")
	ErrBanned       = errors.New("account is banned")
)

// Is re-exports errors.Is so callers importing this package under its
// default name don't also need the stdlib one.
func Is(err, target error) bool { return errors.Is(err, target) }

// kindError carries a user-facing message while matching one of the sentinels.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Wrap returns an error whose message is msg and which matches kind under Is.
func Wrap(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func Wrapf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
