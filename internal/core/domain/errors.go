package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Authorization and transaction-boundary outcomes.
var (
	ErrConfiguration          = errors.New("configuration error")
	ErrInvalidToken           = errors.New("invalid token")
	ErrUnauthenticated        = errors.New("not authenticated")
	ErrTokenExpired           = errors.New("authorisation token expired")
	ErrInsufficientPermission = errors.New("insufficient permission")
	ErrInvalidCredentials     = errors.New("incorrect username or password")
	ErrIntegrityConflict      = errors.New("integrity conflict")
	ErrNestedTransaction      = errors.New("nested transaction scope")
)

// Kinds of the closed error set shared by repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Error is a tagged domain error. errors.Is matches its Kind; errors.As
// exposes the Detail meant for clients.
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Detail
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// NotFound builds an ErrNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Detail: fmt.Sprintf(format, args...)}
}

// Conflict builds an ErrConflict error.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Detail: fmt.Sprintf(format, args...)}
}

// Invalid builds an ErrInvalidInput error.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidInput, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to e and returns it.
func (e *Error) Wrap(cause error) *Error {
	e.Err = cause
	return e
}

// ConstraintError is an integrity violation a store could attribute to one
// field. It matches ErrIntegrityConflict. Field is "" when the backend could
// not tell which constraint fired.
type ConstraintError struct {
	Field string
	Err   error
}

func (e *ConstraintError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", ErrIntegrityConflict, e.Err)
	}
	return fmt.Sprintf("%s on %s: %v", ErrIntegrityConflict, e.Field, e.Err)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrIntegrityConflict }

func (e *ConstraintError) Unwrap() error { return e.Err }

// Unique user fields a ConstraintError can name.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
)

// ConstraintField picks the unique user field named in a driver message or
// constraint name, or "" when none is.
func ConstraintField(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, FieldEmail):
		return FieldEmail
	case strings.Contains(msg, FieldUsername):
		return FieldUsername
	default:
		return ""
	}
}
