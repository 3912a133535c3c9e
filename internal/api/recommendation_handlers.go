package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/recommend"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getRecommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations",
		Summary:     "Get recommendations",
		Description: "Recommends catalog movies sharing the dominant genre of the user's favorites. " +
			"Falls back to the trending catalog, with a message, when no genre can be determined.",
		Tags:     []string{"Recommendations"},
		Security: bearerSecurity,
	}, s.handleGetRecommendations)
}

// RecommendationResponse is the outcome of a recommendation request.
type RecommendationResponse struct {
	Message         string                 `json:"message" doc:"Human-readable reason for the result"`
	Recommendations []MovieResponse        `json:"recommendations" doc:"Recommended or trending movies"`
	Outcome         string                 `json:"outcome" enum:"success,no_favorites,no_genre_data,no_matches" doc:"Result kind"`
	DominantGenre   string                 `json:"dominant_genre,omitempty" doc:"Favorite genre, on success"`
	Genres          []recommend.GenreCount `json:"genres" doc:"Genre histogram of the user's favorites"`
}

// RecommendationOutput wraps the recommendations for Huma.
type RecommendationOutput struct {
	Body RecommendationResponse
}

func (s *Server) handleGetRecommendations(ctx context.Context, _ *struct{}) (*RecommendationOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Recommendations.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	genres := res.Genres
	if genres == nil {
		genres = []recommend.GenreCount{}
	}

	return &RecommendationOutput{
		Body: RecommendationResponse{
			Message:         res.Message,
			Recommendations: mapMovies(res.Movies),
			Outcome:         string(res.Outcome),
			DominantGenre:   res.DominantGenre,
			Genres:          genres,
		},
	}, nil
}
