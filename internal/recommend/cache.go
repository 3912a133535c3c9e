package recommend

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
	"github.com/popcornpicks/popcornpicks-server/internal/metrics"
)

// RequestCache memoizes lookups by title for the lifetime of one computation.
// Concurrent callers asking for the same title share one in-flight fetch, so
// the fetcher sees each distinct title at most once. Do not reuse a cache
// across requests.
type RequestCache struct {
	fetcher metadata.Fetcher

	mu      sync.Mutex
	results map[string]metadata.Result
	group   singleflight.Group
}

// NewRequestCache creates an empty cache in front of fetcher.
func NewRequestCache(fetcher metadata.Fetcher) *RequestCache {
	return &RequestCache{
		fetcher: fetcher,
		results: make(map[string]metadata.Result),
	}
}

// Resolve returns the cached result for title, fetching it on first use.
// Surrounding whitespace is not part of the key; the fetcher trims it too.
func (c *RequestCache) Resolve(ctx context.Context, title string) metadata.Result {
	title = strings.TrimSpace(title)
	if res, ok := c.lookup(title); ok {
		metrics.RequestCacheHits.Inc()
		return res
	}

	v, _, _ := c.group.Do(title, func() (any, error) {
		// A caller that lost the race to an earlier flight lands here after
		// the result was stored.
		if res, ok := c.lookup(title); ok {
			return res, nil
		}
		metrics.RequestCacheMisses.Inc()
		res := c.fetcher.FetchByTitle(ctx, title)

		c.mu.Lock()
		c.results[title] = res
		c.mu.Unlock()
		return res, nil
	})
	return v.(metadata.Result) //nolint:forcetypeassert // the flight only ever returns metadata.Result
}

// Len returns the number of distinct titles resolved so far.
func (c *RequestCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func (c *RequestCache) lookup(title string) (metadata.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.results[title]
	return res, ok
}
