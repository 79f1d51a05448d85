package application

import (
	"fmt"

	"bite/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound        = domain.ErrNotFound
	ErrDuplicateKey    = domain.ErrDuplicateKey
	ErrInvalidTag      = domain.ErrInvalidTag
	ErrInvalidHash     = domain.ErrInvalidHash
	ErrInvalidLocation = domain.ErrInvalidLocation
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ImportError records a tag an import could not apply
type ImportError struct {
	Hash   string
	Tag    string
	Reason string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("cannot import %s for %s: %s", e.Tag, e.Hash, e.Reason)
}

func (e *ImportError) Is(target error) bool {
	return target == ErrInvalidTag
}
