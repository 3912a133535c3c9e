package service

import (
	"context"
	"errors"
	"strings"

	domainerrors "github.com/popcornpicks/popcornpicks-server/internal/errors"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata/omdb"
	"github.com/popcornpicks/popcornpicks-server/internal/validation"
)

// MetadataService exposes the lookup service directly: by title, by
// identifier and in search mode.
type MetadataService struct {
	client    metadata.Client
	validator *validation.Validator
}

// NewMetadataService creates a metadata service.
func NewMetadataService(client metadata.Client, v *validation.Validator) *MetadataService {
	return &MetadataService{client: client, validator: v}
}

// LookupRequest selects one title, by name or by IMDb ID.
type LookupRequest struct {
	Title  string `json:"title,omitempty" validate:"max=256"`
	IMDbID string `json:"imdb_id,omitempty" validate:"omitempty,imdbid"`
}

// Lookup resolves a single title.
func (s *MetadataService) Lookup(ctx context.Context, req LookupRequest) (metadata.Result, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.IMDbID = strings.TrimSpace(req.IMDbID)

	if (req.Title == "") == (req.IMDbID == "") {
		return metadata.Result{}, domainerrors.Validation("exactly one of title or imdb_id is required")
	}
	if err := s.validator.Validate(req); err != nil {
		return metadata.Result{}, err
	}

	var res metadata.Result
	if req.IMDbID != "" {
		res = s.client.FetchByID(ctx, req.IMDbID)
	} else {
		res = s.client.FetchByTitle(ctx, req.Title)
	}

	switch res.Reason {
	case metadata.ReasonNone:
		return res, nil
	case metadata.ReasonNotFound:
		return metadata.Result{}, domainerrors.NotFound(MsgMovieNotFound)
	default:
		return metadata.Result{}, domainerrors.Unavailable("metadata service unavailable").WithCause(res.Err)
	}
}

// Search lists candidate titles matching query.
func (s *MetadataService) Search(ctx context.Context, query string) ([]metadata.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation(MsgNoQuery)
	}

	candidates, err := s.client.Search(ctx, query)
	if err != nil {
		if errors.Is(err, omdb.ErrTooManyResults) {
			return nil, domainerrors.Validation("query matches too many titles, be more specific")
		}
		return nil, domainerrors.Unavailable("metadata service unavailable").WithCause(err)
	}
	if len(candidates) == 0 {
		return nil, domainerrors.NotFound(MsgNoResults)
	}
	return candidates, nil
}
