// Package store defines the persistence interface for the PopcornPicks server.
package store

import (
	"context"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	Users
	Favorites
}

// Users persists registered accounts.
type Users interface {
	// CreateUser inserts user. Returns ErrEmailExists if the email is taken,
	// compared case-insensitively.
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// Favorites persists the movies each user saved.
type Favorites interface {
	// ListFavorites returns the user's favorites oldest first.
	ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error)
	// AddFavorite stores fav. Returns ErrFavoriteExists if the user already
	// saved fav.MovieID.
	AddFavorite(ctx context.Context, fav *domain.Favorite) error
}
