// Package metadata defines the normalized outcome of an external title lookup.
//
// Lookups never fail with a Go error: every call yields a Result that is
// either found, not found, or unavailable. Callers decide what to do with
// each case; the recommendation engine skips both failure kinds.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Reason explains why a lookup did not produce metadata.
type Reason int

const (
	// ReasonNone is set on found results.
	ReasonNone Reason = iota
	// ReasonNotFound means the service answered and has no such title.
	ReasonNotFound
	// ReasonUnavailable means the service could not be consulted: timeout,
	// transport error, bad status, malformed payload or an open breaker.
	ReasonUnavailable
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNotFound:
		return "not_found"
	case ReasonUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Result is the normalized answer to one lookup. Treat it as a value.
type Result struct {
	Found  bool
	Reason Reason
	// Err carries diagnostic detail for failures. Nil on success.
	Err error

	Title  string
	Year   string
	Poster string
	Plot   string
	// Genres is the comma-split, trimmed genre list in service order.
	Genres []string
	IMDbID string
	Raw    json.RawMessage
}

// Found builds a successful result.
func Found(r Result) Result {
	r.Found = true
	r.Reason = ReasonNone
	r.Err = nil
	return r
}

// NotFound builds a not-found result.
func NotFound(err error) Result {
	return Result{Reason: ReasonNotFound, Err: err}
}

// Unavailable builds an unavailable result.
func Unavailable(err error) Result {
	return Result{Reason: ReasonUnavailable, Err: err}
}

// HasGenre reports whether genre is an exact member of the genre list.
func (r Result) HasGenre(genre string) bool {
	for _, g := range r.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// ParseGenres splits a service genre string like "Action, Crime" into its
// trimmed members, dropping empties and "N/A".
func ParseGenres(s string) []string {
	if s == "" || s == NotAvailable {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" && part != NotAvailable {
			out = append(out, part)
		}
	}
	return out
}

// NotAvailable is the placeholder lookup services use for missing fields.
const NotAvailable = "N/A"

// Candidate is one hit from a search-mode lookup.
type Candidate struct {
	Title  string `json:"title"`
	Year   string `json:"year"`
	IMDbID string `json:"imdb_id"`
	Type   string `json:"type"`
	Poster string `json:"poster"`
}

// Fetcher resolves titles to metadata.
type Fetcher interface {
	FetchByTitle(ctx context.Context, title string) Result
}

// Client is the full lookup surface: title, identifier and search modes.
type Client interface {
	Fetcher
	FetchByID(ctx context.Context, imdbID string) Result
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, title string) Result

// FetchByTitle calls f.
func (f FetcherFunc) FetchByTitle(ctx context.Context, title string) Result {
	return f(ctx, title)
}
