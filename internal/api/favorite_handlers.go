package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/service"
)

func (s *Server) registerFavoriteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List favorites",
		Description: "Returns the authenticated user's favorite movies in the order they were added",
		Tags:        []string{"Favorites"},
		Security:    bearerSecurity,
	}, s.handleListFavorites)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addFavorite",
		Method:        http.MethodPost,
		Path:          "/api/v1/favorites",
		Summary:       "Add favorite",
		Description:   "Saves a movie to the authenticated user's favorites",
		Tags:          []string{"Favorites"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleAddFavorite)
}

// === DTOs ===

// FavoriteResponse is one saved movie.
type FavoriteResponse struct {
	MovieID    int       `json:"movie_id" doc:"Catalog ID"`
	MovieTitle string    `json:"movie_title" doc:"Movie title"`
	CreatedAt  time.Time `json:"created_at" doc:"When the favorite was added"`
}

// FavoriteListOutput wraps the favorites for Huma.
type FavoriteListOutput struct {
	Body []FavoriteResponse
}

// AddFavoriteRequest is the request body for adding a favorite.
type AddFavoriteRequest struct {
	MovieID    int    `json:"movie_id,omitempty" doc:"Catalog ID"`
	MovieTitle string `json:"movie_title,omitempty" doc:"Movie title"`
}

// AddFavoriteInput wraps the add favorite request for Huma.
type AddFavoriteInput struct {
	Body AddFavoriteRequest
}

// AddFavoriteResponse confirms a saved favorite.
type AddFavoriteResponse struct {
	Message  string           `json:"message" doc:"Status message"`
	Favorite FavoriteResponse `json:"favorite" doc:"Saved favorite"`
}

// AddFavoriteOutput wraps the add favorite response for Huma.
type AddFavoriteOutput struct {
	Body AddFavoriteResponse
}

// === Handlers ===

func (s *Server) handleListFavorites(ctx context.Context, _ *struct{}) (*FavoriteListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	favs, err := s.services.Favorites.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]FavoriteResponse, len(favs))
	for i, f := range favs {
		out[i] = FavoriteResponse{MovieID: f.MovieID, MovieTitle: f.MovieTitle, CreatedAt: f.CreatedAt}
	}
	return &FavoriteListOutput{Body: out}, nil
}

func (s *Server) handleAddFavorite(ctx context.Context, input *AddFavoriteInput) (*AddFavoriteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	fav, err := s.services.Favorites.Add(ctx, userID, service.AddFavoriteRequest{
		MovieID:    input.Body.MovieID,
		MovieTitle: input.Body.MovieTitle,
	})
	if err != nil {
		return nil, err
	}

	return &AddFavoriteOutput{
		Body: AddFavoriteResponse{
			Message: service.MsgFavoriteAdded,
			Favorite: FavoriteResponse{
				MovieID:    fav.MovieID,
				MovieTitle: fav.MovieTitle,
				CreatedAt:  fav.CreatedAt,
			},
		},
	}, nil
}
