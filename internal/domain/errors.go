package domain

import "errors"

// Sentinel errors returned by the Database. Callers match them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrInvalidTag      = errors.New("invalid tag")
	ErrInvalidHash     = errors.New("invalid image hash")
	ErrInvalidLocation = errors.New("invalid location")
)
