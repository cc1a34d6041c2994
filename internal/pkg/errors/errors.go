package errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalid       = errors.New("invalid")
	ErrConflict      = errors.New("conflict")
	ErrTooMany       = errors.New("too many requests")
	ErrNotConfigured = errors.New("not configured")
	ErrFileTooLarge  = errors.New("file too large")
	ErrInvalidFile   = errors.New("invalid file")
)
