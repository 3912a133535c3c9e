package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
	"github.com/popcornpicks/popcornpicks-server/internal/service"
)

func (s *Server) registerMetadataRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "lookupMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/metadata/lookup",
		Summary:     "Look up title metadata",
		Description: "Fetches metadata for one title by name or IMDb ID from the external lookup service",
		Tags:        []string{"Metadata"},
		Security:    bearerSecurity,
	}, s.handleLookupMetadata)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/metadata/search",
		Summary:     "Search external titles",
		Description: "Lists candidate titles with their external identifiers",
		Tags:        []string{"Metadata"},
		Security:    bearerSecurity,
	}, s.handleSearchMetadata)
}

// === DTOs ===

// LookupMetadataInput selects a title by name or IMDb ID.
type LookupMetadataInput struct {
	Title  string `query:"title" doc:"Exact title"`
	IMDbID string `query:"imdb_id" doc:"IMDb ID, e.g. tt0133093"`
}

// MetadataResponse is the normalized metadata of one title.
type MetadataResponse struct {
	Title  string   `json:"title" doc:"Title"`
	Year   string   `json:"year,omitempty" doc:"Release year"`
	IMDbID string   `json:"imdb_id,omitempty" doc:"IMDb ID"`
	Poster string   `json:"poster,omitempty" doc:"Poster URL"`
	Plot   string   `json:"plot,omitempty" doc:"Plot summary"`
	Genre  string   `json:"genre,omitempty" doc:"Comma-separated genres"`
	Genres []string `json:"genres" doc:"Genre list in service order"`
}

// MetadataOutput wraps metadata for Huma.
type MetadataOutput struct {
	Body MetadataResponse
}

// SearchMetadataInput contains the search query.
type SearchMetadataInput struct {
	Q string `query:"q" doc:"Search query"`
}

// CandidateListOutput wraps search candidates for Huma.
type CandidateListOutput struct {
	Body []metadata.Candidate
}

// === Handlers ===

func (s *Server) handleLookupMetadata(ctx context.Context, input *LookupMetadataInput) (*MetadataOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	res, err := s.services.Metadata.Lookup(ctx, service.LookupRequest{
		Title:  input.Title,
		IMDbID: input.IMDbID,
	})
	if err != nil {
		return nil, err
	}

	genres := res.Genres
	if genres == nil {
		genres = []string{}
	}

	return &MetadataOutput{
		Body: MetadataResponse{
			Title:  res.Title,
			Year:   res.Year,
			IMDbID: res.IMDbID,
			Poster: res.Poster,
			Plot:   res.Plot,
			Genre:  domain.JoinGenres(res.Genres),
			Genres: genres,
		},
	}, nil
}

func (s *Server) handleSearchMetadata(ctx context.Context, input *SearchMetadataInput) (*CandidateListOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	candidates, err := s.services.Metadata.Search(ctx, input.Q)
	if err != nil {
		return nil, err
	}
	return &CandidateListOutput{Body: candidates}, nil
}
