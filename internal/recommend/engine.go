// Package recommend turns a user's favorites into genre-based
// recommendations over a movie catalog, and enriches catalog searches.
//
// Each computation gets its own RequestCache, so a title is fetched at most
// once per call no matter how many favorites or catalog entries share it.
// The catalog passed in is treated as read-only; every returned movie is a
// private copy.
package recommend

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
	"github.com/popcornpicks/popcornpicks-server/internal/metrics"
)

// DefaultConcurrency caps parallel lookups within one computation.
const DefaultConcurrency = 4

// Engine computes recommendations and enriched searches.
type Engine struct {
	fetcher     metadata.Fetcher
	concurrency int
	logger      *slog.Logger
}

// NewEngine creates an engine resolving titles through fetcher with at most
// concurrency lookups in flight per computation.
func NewEngine(fetcher metadata.Fetcher, concurrency int, logger *slog.Logger) *Engine {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{fetcher: fetcher, concurrency: concurrency, logger: logger}
}

// Recommend picks the dominant genre across favorites and returns the catalog
// movies in that genre, enriched. It never fails: when there is nothing to
// personalize on, the catalog comes back unchanged with a fallback outcome.
func (e *Engine) Recommend(ctx context.Context, favorites []domain.Favorite, catalog []domain.Movie) Result {
	start := time.Now()
	res := e.recommend(ctx, favorites, catalog)
	metrics.RecordRecommendation(string(res.Outcome), time.Since(start))

	e.logger.Debug("recommendation computed",
		"outcome", res.Outcome,
		"dominant_genre", res.DominantGenre,
		"favorites", len(favorites),
		"movies", len(res.Movies),
		"duration", time.Since(start),
	)
	return res
}

func (e *Engine) recommend(ctx context.Context, favorites []domain.Favorite, catalog []domain.Movie) Result {
	if len(favorites) == 0 {
		return fallback(OutcomeNoFavorites, MessageNoFavorites, catalog, nil)
	}

	cache := NewRequestCache(e.fetcher)

	var hist Histogram
	hist.Accumulate(e.resolveAll(ctx, cache, domain.Titles(favorites)))
	e.logger.Debug("favorite genres counted", "favorites", len(favorites), "genres", hist.Len())

	dominant, ok := hist.Dominant()
	if !ok {
		return fallback(OutcomeNoGenreData, MessageNoGenreData, catalog, nil)
	}

	titles := make([]string, len(catalog))
	for i, m := range catalog {
		titles[i] = m.Title
	}
	resolved := e.resolveAll(ctx, cache, titles)
	e.logger.Debug("catalog resolved", "dominant_genre", dominant, "distinct_titles", cache.Len())

	var matches []domain.Movie
	for i, m := range catalog {
		if r := resolved[i]; r.Found && r.HasGenre(dominant) {
			matches = append(matches, Enrich(m, r))
		}
	}

	if len(matches) == 0 {
		return fallback(OutcomeNoMatches, MessageNoMatches, catalog, hist.Counts())
	}
	return success(matches, dominant, hist.Counts())
}

// Search returns the catalog movies whose title contains query, ignoring
// case, each enriched when its lookup succeeds. An empty query matches
// nothing; callers reject it before getting here.
func (e *Engine) Search(ctx context.Context, query string, catalog []domain.Movie) []domain.Movie {
	matches := Filter(query, catalog)
	if len(matches) == 0 {
		metrics.RecordSearch(0)
		return []domain.Movie{}
	}

	titles := make([]string, len(matches))
	for i, m := range matches {
		titles[i] = m.Title
	}
	resolved := e.resolveAll(ctx, NewRequestCache(e.fetcher), titles)

	out := make([]domain.Movie, len(matches))
	for i, m := range matches {
		out[i] = Enrich(m, resolved[i])
	}
	metrics.RecordSearch(len(out))
	return out
}

// Filter returns copies of the catalog entries whose title contains query
// under Unicode case folding, in catalog order.
func Filter(query string, catalog []domain.Movie) []domain.Movie {
	if query == "" {
		return nil
	}
	// A Caser keeps state, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(query)

	var out []domain.Movie
	for _, m := range catalog {
		if strings.Contains(fold.String(m.Title), needle) {
			out = append(out, m.Bare())
		}
	}
	return out
}

// resolveAll looks up titles with bounded parallelism. Results land in the
// slot matching their title, so callers see input order regardless of which
// lookup finished first.
func (e *Engine) resolveAll(ctx context.Context, cache *RequestCache, titles []string) []metadata.Result {
	results := make([]metadata.Result, len(titles))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, title := range titles {
		g.Go(func() error {
			results[i] = cache.Resolve(ctx, title)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	return results
}
