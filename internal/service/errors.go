package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")

	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrUsernameTaken      = fmt.Errorf("%w: username already taken", ErrConflict)
)

// ValidationError reports a rejected input field. It unwraps to ErrValidation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// checkRange validates an integer query parameter before any data access.
func checkRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return invalidf(field, "must be between %d and %d", lo, hi)
	}
	return nil
}
