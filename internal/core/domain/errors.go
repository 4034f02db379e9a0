package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these,
// so the transport layer can map it with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrAuthFailure = errors.New("authentication failed")
	ErrValidation  = errors.New("validation failed")
	ErrStorage     = errors.New("storage failure")
)

var (
	ErrIdentityNotFound   = fmt.Errorf("identity %w", ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuthFailure)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrAuthFailure)
	ErrUsernameTaken      = fmt.Errorf("%w: username already exists", ErrValidation)
	ErrUnknownRole        = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrRoleMismatch       = fmt.Errorf("%w: profile does not match role", ErrValidation)
	ErrResumeRequired     = fmt.Errorf("%w: job seeker registration requires a resume", ErrValidation)
	ErrResumeNotPDF       = fmt.Errorf("%w: resume must be a PDF document", ErrValidation)
	ErrEmptyFile          = fmt.Errorf("%w: uploaded file is empty", ErrValidation)
	ErrNotAnImage         = fmt.Errorf("%w: uploaded file must be an image", ErrValidation)
)

// Invalid builds a validation error with a caller-supplied message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StorageFailure wraps a persistence or file-system error so that it is
// classified as ErrStorage while keeping the cause inspectable.
func StorageFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
