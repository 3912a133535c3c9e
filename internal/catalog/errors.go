package catalog

import "errors"

// Catalog file validation errors.
var (
	ErrEmpty        = errors.New("catalog is empty")
	ErrInvalidID    = errors.New("movie id must be positive")
	ErrMissingTitle = errors.New("movie title is required")
	ErrDuplicateID  = errors.New("duplicate movie id")
)
