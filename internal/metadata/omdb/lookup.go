package omdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
	"github.com/popcornpicks/popcornpicks-server/internal/metrics"
)

const (
	modeTitle  = "title"
	modeID     = "id"
	modeSearch = "search"
)

var _ metadata.Client = (*Client)(nil)

var imdbIDPattern = regexp.MustCompile(`^tt\d{7,10}$`)

// ValidIMDbID reports whether s looks like an IMDb title identifier.
func ValidIMDbID(s string) bool {
	return imdbIDPattern.MatchString(s)
}

// FetchByTitle looks up a movie by exact title.
func (c *Client) FetchByTitle(ctx context.Context, title string) metadata.Result {
	title = strings.TrimSpace(title)
	if title == "" {
		return metadata.NotFound(wrapError(modeTitle, title, ErrNotFound))
	}
	return c.lookup(ctx, modeTitle, title, url.Values{"t": {title}})
}

// FetchByID looks up a movie by IMDb identifier and asks for the full plot.
func (c *Client) FetchByID(ctx context.Context, imdbID string) metadata.Result {
	imdbID = strings.TrimSpace(imdbID)
	if !ValidIMDbID(imdbID) {
		return metadata.NotFound(wrapError(modeID, imdbID, ErrInvalidIMDbID))
	}
	return c.lookup(ctx, modeID, imdbID, url.Values{"i": {imdbID}, "plot": {"full"}})
}

// lookup runs attempts until one is not unavailable or the retry budget is
// spent. Not-found answers are final.
func (c *Client) lookup(ctx context.Context, mode, query string, params url.Values) metadata.Result {
	start := time.Now()

	var res metadata.Result
	for attempt := 0; ; attempt++ {
		res = c.attempt(ctx, mode, query, params)
		if res.Reason != metadata.ReasonUnavailable || attempt >= c.maxRetries || !c.retryable(ctx, res.Err) {
			break
		}
		metrics.MetadataRetries.Inc()
		if !sleepCtx(ctx, c.backoff<<attempt) {
			break
		}
	}

	metrics.RecordLookup(mode, outcome(res), time.Since(start))
	switch res.Reason {
	case metadata.ReasonNotFound:
		c.logger.Debug("metadata not found", "mode", mode, "query", query, "error", res.Err)
	case metadata.ReasonUnavailable:
		c.logger.Warn("metadata lookup unavailable", "mode", mode, "query", query, "error", res.Err)
	}
	return res
}

// attempt performs a single bounded request and maps it to a result. A panic
// anywhere in decoding is converted to an unavailable result.
func (c *Client) attempt(ctx context.Context, mode, query string, params url.Values) (res metadata.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = metadata.Unavailable(wrapError(mode, query, fmt.Errorf("%w: %v", ErrDecoderPanicked, r)))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return metadata.Unavailable(wrapError(mode, query, err))
	}

	var raw rawTitle
	if err := c.decode(body, &raw); err != nil {
		return metadata.Unavailable(wrapError(mode, query, fmt.Errorf("%w: %v", ErrMalformed, err)))
	}

	switch raw.Response {
	case responseTrue:
		return metadata.Found(metadata.Result{
			Title:  raw.Title,
			Year:   cleanField(raw.Year),
			Poster: cleanField(raw.Poster),
			Plot:   normalizePlot(cleanField(raw.Plot)),
			Genres: metadata.ParseGenres(raw.Genre),
			IMDbID: raw.IMDbID,
			Raw:    json.RawMessage(bytes.Clone(body)),
		})
	case responseFalse:
		return metadata.NotFound(wrapError(mode, query, fmt.Errorf("%w: %s", ErrNotFound, raw.Error)))
	default:
		return metadata.Unavailable(wrapError(mode, query, fmt.Errorf("%w: Response=%q", ErrMalformed, raw.Response)))
	}
}

// retryable is false once the caller is gone or the breaker refuses calls.
func (c *Client) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func outcome(r metadata.Result) string {
	if r.Found {
		return "found"
	}
	return r.Reason.String()
}

// cleanField maps the service's "N/A" placeholder to empty.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if s == metadata.NotAvailable {
		return ""
	}
	return s
}
