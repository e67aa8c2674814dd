// Package apperr holds the error taxonomy shared by the payroll and approval domains.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDataIntegrity     = errors.New("data integrity violation")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// InvalidTransitionError names the action that was refused and the status it was attempted from.
type InvalidTransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s %s in status %s", e.Action, e.Entity, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type RoleMismatchError struct {
	Expected string
	Got      string
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("expected role %s, got %s", e.Expected, e.Got)
}

func (e *RoleMismatchError) Unwrap() error {
	return ErrPermissionDenied
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

func Integrity(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataIntegrity, fmt.Sprintf(format, args...))
}

func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, fmt.Sprintf(format, args...))
}
