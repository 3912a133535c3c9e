package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
)

func (s *Server) registerMovieRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies",
		Summary:     "List movies",
		Description: "Returns the trending catalog without metadata",
		Tags:        []string{"Movies"},
	}, s.handleListMovies)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovie",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Get movie",
		Description: "Returns one catalog movie, optionally enriched with external metadata",
		Tags:        []string{"Movies"},
	}, s.handleGetMovie)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search movies",
		Description: "Case-insensitive title search over the catalog. Matches are enriched when metadata is available.",
		Tags:        []string{"Movies"},
	}, s.handleSearchMovies)
}

// === DTOs ===

// MovieResponse is a catalog movie with its enrichment flattened in.
// Enriched tells a lookup that found only "N/A" fields apart from no lookup
// at all.
type MovieResponse struct {
	ID          int     `json:"id" doc:"Catalog ID"`
	Title       string  `json:"title" doc:"Title"`
	Rating      float64 `json:"rating" doc:"Rating out of 10"`
	Description string  `json:"description" doc:"Short description"`
	Enriched    bool    `json:"enriched" doc:"Whether external metadata is attached"`
	Poster      string  `json:"poster,omitempty" doc:"Poster URL, when enriched"`
	Plot        string  `json:"plot,omitempty" doc:"Plot summary, when enriched"`
	Year        string  `json:"year,omitempty" doc:"Release year, when enriched"`
	Genre       string  `json:"genre,omitempty" doc:"Comma-separated genres, when enriched"`
}

// MovieListOutput wraps a list of movies for Huma.
type MovieListOutput struct {
	Body []MovieResponse
}

// GetMovieInput contains parameters for getting a movie.
type GetMovieInput struct {
	ID     int  `path:"id" doc:"Catalog ID"`
	Enrich bool `query:"enrich" doc:"Attach external metadata"`
}

// MovieOutput wraps a movie for Huma.
type MovieOutput struct {
	Body MovieResponse
}

// SearchMoviesInput contains search parameters.
type SearchMoviesInput struct {
	Q     string `query:"q" doc:"Title substring"`
	Query string `query:"query" doc:"Alias of q"`
}

// === Handlers ===

func (s *Server) handleListMovies(_ context.Context, _ *struct{}) (*MovieListOutput, error) {
	return &MovieListOutput{Body: mapMovies(s.services.Movies.List())}, nil
}

func (s *Server) handleGetMovie(ctx context.Context, input *GetMovieInput) (*MovieOutput, error) {
	movie, err := s.services.Movies.Get(ctx, input.ID, input.Enrich)
	if err != nil {
		return nil, err
	}
	return &MovieOutput{Body: mapMovie(movie)}, nil
}

func (s *Server) handleSearchMovies(ctx context.Context, input *SearchMoviesInput) (*MovieListOutput, error) {
	q := input.Q
	if q == "" {
		q = input.Query
	}

	movies, err := s.services.Movies.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	return &MovieListOutput{Body: mapMovies(movies)}, nil
}

func mapMovie(m domain.Movie) MovieResponse {
	resp := MovieResponse{
		ID:          m.ID,
		Title:       m.Title,
		Rating:      m.Rating,
		Description: m.Description,
	}
	if e := m.Enrichment; e != nil {
		resp.Enriched = true
		resp.Poster = e.Poster
		resp.Plot = e.Plot
		resp.Year = e.Year
		resp.Genre = e.Genre
	}
	return resp
}

func mapMovies(movies []domain.Movie) []MovieResponse {
	out := make([]MovieResponse, len(movies))
	for i, m := range movies {
		out[i] = mapMovie(m)
	}
	return out
}
