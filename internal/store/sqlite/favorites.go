package sqlite

import (
	"context"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/id"
	"github.com/popcornpicks/popcornpicks-server/internal/store"
)

// ListFavorites returns a user's favorites in the order they were added.
func (s *Store) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, movie_id, movie_title, created_at
		FROM favorites
		WHERE user_id = ?
		ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favs := []domain.Favorite{}
	for rows.Next() {
		var (
			f         domain.Favorite
			createdAt string
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.MovieID, &f.MovieTitle, &createdAt); err != nil {
			return nil, err
		}
		if f.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// AddFavorite stores a favorite, assigning its ID and timestamp when unset.
// Returns store.ErrFavoriteExists if the user already saved the movie and
// store.ErrNotFound if the user does not exist.
func (s *Store) AddFavorite(ctx context.Context, fav *domain.Favorite) error {
	if fav.ID == "" {
		favID, err := id.NewUUID()
		if err != nil {
			return err
		}
		fav.ID = favID
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (id, user_id, movie_id, movie_title, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		fav.ID, fav.UserID, fav.MovieID, fav.MovieTitle, formatTime(fav.CreatedAt),
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return store.ErrFavoriteExists
	case isForeignKeyViolation(err):
		return store.ErrNotFound.WithMessage("user not found")
	default:
		return err
	}
}
