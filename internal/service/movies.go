package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/popcornpicks/popcornpicks-server/internal/catalog"
	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	domainerrors "github.com/popcornpicks/popcornpicks-server/internal/errors"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
	"github.com/popcornpicks/popcornpicks-server/internal/recommend"
)

// Movie and search messages.
const (
	MsgMovieNotFound = "Movie not found"
	MsgNoQuery       = "No query provided"
	MsgNoResults     = "No Results Found"
)

// MovieService exposes the catalog.
type MovieService struct {
	catalog *catalog.Catalog
	fetcher metadata.Fetcher
	engine  *recommend.Engine
	logger  *slog.Logger
}

// NewMovieService creates a movie service.
func NewMovieService(cat *catalog.Catalog, fetcher metadata.Fetcher, engine *recommend.Engine, logger *slog.Logger) *MovieService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MovieService{catalog: cat, fetcher: fetcher, engine: engine, logger: logger}
}

// List returns a private copy of the catalog, un-enriched.
func (s *MovieService) List() []domain.Movie {
	return domain.CloneMovies(s.catalog.Movies())
}

// Get returns one catalog movie. With enrich set the movie carries metadata
// when the lookup succeeds; a failed lookup still returns the bare movie.
func (s *MovieService) Get(ctx context.Context, movieID int, enrich bool) (domain.Movie, error) {
	m, ok := s.catalog.Get(movieID)
	if !ok {
		return domain.Movie{}, domainerrors.NotFound(MsgMovieNotFound)
	}
	if !enrich {
		return m, nil
	}

	res := recommend.NewRequestCache(s.fetcher).Resolve(ctx, m.Title)
	if !res.Found {
		s.logger.Debug("movie detail served without enrichment",
			"movie_id", m.ID,
			"reason", res.Reason.String(),
		)
	}
	return recommend.Enrich(m, res), nil
}

// Search returns the catalog movies whose title contains query, enriched.
// Surrounding whitespace in query is ignored.
func (s *MovieService) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation(MsgNoQuery)
	}
	results := s.engine.Search(ctx, query, s.catalog.Movies())
	if len(results) == 0 {
		return nil, domainerrors.NotFound(MsgNoResults)
	}
	return results, nil
}
