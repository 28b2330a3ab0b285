package library

import "errors"

var (
	// ErrInvalidSnapshot indicates a snapshot document failed to parse or validate.
	ErrInvalidSnapshot = errors.New("invalid library snapshot")
	// ErrNotFound indicates the configured snapshot source has no snapshot.
	ErrNotFound = errors.New("library snapshot not found")
)
