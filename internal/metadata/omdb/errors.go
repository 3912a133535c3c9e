package omdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for OMDb operations.
var (
	ErrNotFound        = errors.New("omdb: not found")
	ErrUnauthorized    = errors.New("omdb: api key rejected or quota exhausted")
	ErrRateLimited     = errors.New("omdb: rate limited by server")
	ErrServer          = errors.New("omdb: server error")
	ErrUnexpected      = errors.New("omdb: unexpected status")
	ErrMalformed       = errors.New("omdb: malformed response")
	ErrTooManyResults  = errors.New("omdb: query matches too many titles")
	ErrInvalidIMDbID   = errors.New("omdb: invalid IMDb identifier")
	ErrDecoderPanicked = errors.New("omdb: decoder panicked")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // "title", "id" or "search"
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("omdb %s [%s]: %v", e.Op, e.Query, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, query string, err error) error {
	return &Error{Op: op, Query: query, Err: err}
}
