package service

import "errors"

// Failure taxonomy surfaced to the HTTP layer. Handlers translate these with
// errors.Is; everything else is an internal error.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrCorruptData        = errors.New("stored collection is corrupt")
	ErrValidation         = errors.New("validation failed")
)
