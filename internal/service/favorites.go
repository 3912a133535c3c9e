package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	domainerrors "github.com/popcornpicks/popcornpicks-server/internal/errors"
	"github.com/popcornpicks/popcornpicks-server/internal/store"
)

// Favorite messages.
const (
	MsgFavoriteRequired = "Movie ID and title required"
	MsgFavoriteExists   = "Movie already in favorites"
	MsgFavoriteAdded    = "Movie added to favorites"
	MsgFavoritesFailed  = "Could not load favorites"
	MsgFavoriteFailed   = "Could not save favorite"
)

// FavoriteService manages each user's saved movies.
type FavoriteService struct {
	store  store.Favorites
	logger *slog.Logger
}

// NewFavoriteService creates a favorites service.
func NewFavoriteService(favs store.Favorites, logger *slog.Logger) *FavoriteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FavoriteService{store: favs, logger: logger}
}

// AddFavoriteRequest names the movie to save. The title is what drives
// metadata lookups, so it is kept verbatim.
type AddFavoriteRequest struct {
	MovieID    int    `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
}

// List returns the user's favorites in the order they were added.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	favs, err := s.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, MsgFavoritesFailed)
	}
	return favs, nil
}

// Add saves a movie for the user.
func (s *FavoriteService) Add(ctx context.Context, userID string, req AddFavoriteRequest) (*domain.Favorite, error) {
	if req.MovieID <= 0 || strings.TrimSpace(req.MovieTitle) == "" {
		return nil, domainerrors.Validation(MsgFavoriteRequired)
	}

	fav := &domain.Favorite{
		UserID:     userID,
		MovieID:    req.MovieID,
		MovieTitle: req.MovieTitle,
	}
	if err := s.store.AddFavorite(ctx, fav); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, domainerrors.AlreadyExists(MsgFavoriteExists)
		case errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.TokenInvalid(MsgTokenInvalid)
		default:
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, MsgFavoriteFailed)
		}
	}

	s.logger.Debug("favorite added", "user_id", userID, "movie_id", fav.MovieID)
	return fav, nil
}
