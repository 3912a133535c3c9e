package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/logger"
	"github.com/popcornpicks/popcornpicks-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createUser(t *testing.T, s *Store, id, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Email: email, PasswordHash: "$argon2id$fake"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	for _, table := range []string{"users", "favorites"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}

	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, logger.Discard())
	require.NoError(t, err)
	createUser(t, s, "usr-1", "a@example.com")
	require.NoError(t, s.Close())

	s, err = Open(path, logger.Discard())
	require.NoError(t, err)
	defer s.Close()

	u, err := s.GetUser(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := createUser(t, s, "usr-1", "Alice@Example.com")
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice@Example.com", got.Email)
	assert.Equal(t, "$argon2id$fake", got.PasswordHash)
	assert.True(t, got.LastLoginAt.IsZero())
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)

	byEmail, err := s.GetUserByEmail(ctx, "  alice@EXAMPLE.com ")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", byEmail.ID)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	createUser(t, s, "usr-1", "bob@example.com")

	err := s.CreateUser(context.Background(), &domain.User{ID: "usr-2", Email: "BOB@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUserByEmail(context.Background(), "nope@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.TouchLastLogin(context.Background(), "nope"), store.ErrNotFound)
}

func TestTouchLastLogin(t *testing.T) {
	s := newTestStore(t)
	createUser(t, s, "usr-1", "c@example.com")

	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return stamp }

	require.NoError(t, s.TouchLastLogin(context.Background(), "usr-1"))

	got, err := s.GetUser(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.True(t, stamp.Equal(got.LastLoginAt))
	assert.True(t, stamp.Equal(got.UpdatedAt))
}

func TestFavorites_AddAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createUser(t, s, "usr-1", "d@example.com")
	createUser(t, s, "usr-2", "e@example.com")

	empty, err := s.ListFavorites(ctx, "usr-1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, f := range []domain.Favorite{
		{UserID: "usr-1", MovieID: 3, MovieTitle: "The Matrix"},
		{UserID: "usr-1", MovieID: 1, MovieTitle: "John Wick"},
		{UserID: "usr-2", MovieID: 2, MovieTitle: "Inception"},
	} {
		require.NoError(t, s.AddFavorite(ctx, &f))
		assert.NotEmpty(t, f.ID)
	}

	favs, err := s.ListFavorites(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"The Matrix", "John Wick"}, domain.Titles(favs), "insertion order")
	assert.Equal(t, 3, favs[0].MovieID)
	assert.Equal(t, "usr-1", favs[0].UserID)
}

func TestFavorites_Duplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createUser(t, s, "usr-1", "f@example.com")
	createUser(t, s, "usr-2", "g@example.com")

	require.NoError(t, s.AddFavorite(ctx, &domain.Favorite{UserID: "usr-1", MovieID: 1, MovieTitle: "John Wick"}))

	err := s.AddFavorite(ctx, &domain.Favorite{UserID: "usr-1", MovieID: 1, MovieTitle: "John Wick"})
	assert.ErrorIs(t, err, store.ErrFavoriteExists)

	// Same movie for another user is fine.
	assert.NoError(t, s.AddFavorite(ctx, &domain.Favorite{UserID: "usr-2", MovieID: 1, MovieTitle: "John Wick"}))
}

func TestFavorites_UnknownUser(t *testing.T) {
	s := newTestStore(t)

	err := s.AddFavorite(context.Background(), &domain.Favorite{UserID: "ghost", MovieID: 1, MovieTitle: "Heat"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFavorites_ConcurrentAdds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createUser(t, s, "usr-1", "h@example.com")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.AddFavorite(ctx, &domain.Favorite{UserID: "usr-1", MovieID: 42, MovieTitle: "Heat"})
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, store.ErrFavoriteExists)
	}
	assert.Equal(t, 1, ok)
}
