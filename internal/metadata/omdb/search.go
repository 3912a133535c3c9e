package omdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
	"github.com/popcornpicks/popcornpicks-server/internal/metrics"
)

// Search returns the titles matching query. A query with no matches yields
// an empty slice and no error. Transport failures are returned as *Error.
func (c *Client) Search(ctx context.Context, query string) ([]metadata.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []metadata.Candidate{}, nil
	}

	start := time.Now()
	candidates, err := c.search(ctx, query)

	result := "found"
	switch {
	case err != nil:
		result = metadata.ReasonUnavailable.String()
		c.logger.Warn("metadata search failed", "query", query, "error", err)
	case len(candidates) == 0:
		result = metadata.ReasonNotFound.String()
	}
	metrics.RecordLookup(modeSearch, result, time.Since(start))

	return candidates, err
}

// search performs one bounded request. A panic while decoding becomes an
// ErrDecoderPanicked error.
func (c *Client) search(ctx context.Context, query string) (out []metadata.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, wrapError(modeSearch, query, fmt.Errorf("%w: %v", ErrDecoderPanicked, r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.doRequest(ctx, url.Values{"s": {query}})
	if err != nil {
		return nil, wrapError(modeSearch, query, err)
	}

	var raw rawSearch
	if err := c.decode(body, &raw); err != nil {
		return nil, wrapError(modeSearch, query, fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	if raw.Response == responseFalse {
		if raw.Error == errTooManyResultsMsg {
			return nil, wrapError(modeSearch, query, ErrTooManyResults)
		}
		return []metadata.Candidate{}, nil
	}

	out = make([]metadata.Candidate, 0, len(raw.Search))
	for _, item := range raw.Search {
		out = append(out, metadata.Candidate{
			Title:  item.Title,
			Year:   cleanField(item.Year),
			IMDbID: item.IMDbID,
			Type:   item.Type,
			Poster: cleanField(item.Poster),
		})
	}
	return out, nil
}
