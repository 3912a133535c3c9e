package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/metadata"
)

func TestRegister(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "ana@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var env testEnvelope[RegisterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, MsgUserRegistered, env.Data.Message)
	assert.Equal(t, "ana@example.com", env.Data.User.Email)
	assert.NotEmpty(t, env.Data.User.ID)
	assert.NotContains(t, resp.Body.String(), "password")
}

func TestRegister_Errors(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.login(t, "taken@example.com")

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
		msg    string
	}{
		{"missing password", map[string]any{"email": "a@example.com"}, http.StatusBadRequest, "VALIDATION", "Email and password required"},
		{"empty body", map[string]any{}, http.StatusBadRequest, "VALIDATION", "Email and password required"},
		{"duplicate", map[string]any{"email": "taken@example.com", "password": "x"}, http.StatusConflict, "ALREADY_EXISTS", "User already exists"},
		{"bad email", map[string]any{"email": "not-an-email", "password": "x"}, http.StatusBadRequest, "VALIDATION", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/register", tt.body)

			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
			env := decodeError(t, resp.Body.Bytes())
			assert.Equal(t, tt.code, env.Code)
			assert.False(t, env.Success)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, env.Message)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.login(t, "ben@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ben@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var env testEnvelope[LoginResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.NotEmpty(t, env.Data.Token)
	assert.Equal(t, "Bearer", env.Data.TokenType)
	assert.False(t, env.Data.ExpiresAt.IsZero())
	assert.NotNil(t, env.Data.User.LastLoginAt)

	claims, err := ts.tokens.Verify(env.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, env.Data.User.ID, claims.UserID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.login(t, "ben@example.com")

	for _, body := range []map[string]any{
		{"email": "ben@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "hunter22"},
	} {
		resp := ts.api.Post("/api/v1/auth/login", body)

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		env := decodeError(t, resp.Body.Bytes())
		assert.Equal(t, "INVALID_CREDENTIALS", env.Code)
		assert.Equal(t, "Invalid credentials", env.Message)
	}
}

func TestAuthRateLimit(t *testing.T) {
	ts := setupTestServer(t, Options{AuthRPS: 0.001, AuthBurst: 2})
	body := map[string]any{"email": "x@example.com", "password": "nope"}

	for range 2 {
		resp := ts.api.Post("/api/v1/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/api/v1/auth/login", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp.Body.Bytes()).Code)

	// Other routes are not limited.
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/movies").Code)
}

func TestProtectedRoutes_TokenErrors(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name   string
		header []any
		code   string
		msg    string
	}{
		{"missing", nil, "TOKEN_MISSING", "Token is missing!"},
		{"garbage", []any{"Authorization: Bearer not-a-token"}, "TOKEN_INVALID", "Token is invalid!"},
		{"wrong scheme", []any{"Authorization: Basic abc"}, "TOKEN_MISSING", "Token is missing!"},
	}
	for _, tt := range tests {
		for _, path := range []string{"/api/v1/users/me", "/api/v1/favorites", "/api/v1/recommendations"} {
			t.Run(tt.name+" "+path, func(t *testing.T) {
				resp := ts.api.Get(path, tt.header...)

				assert.Equal(t, http.StatusUnauthorized, resp.Code)
				env := decodeError(t, resp.Body.Bytes())
				assert.Equal(t, tt.code, env.Code)
				assert.Equal(t, tt.msg, env.Message)
			})
		}
	}
}

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "cleo@example.com")

	resp := ts.api.Get("/api/v1/users/me", bearer)
	require.Equal(t, http.StatusOK, resp.Code)

	var env testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.Equal(t, "cleo@example.com", env.Data.Email)
}

func TestListMovies(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/movies")
	require.Equal(t, http.StatusOK, resp.Code)

	var env testEnvelope[[]MovieResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	require.Len(t, env.Data, 3)
	assert.Equal(t, "John Wick", env.Data[0].Title)
	assert.Equal(t, 7.4, env.Data[0].Rating)
	assert.Empty(t, env.Data[0].Genre)
}

func TestGetMovie(t *testing.T) {
	ts := setupTestServer(t, Options{})

	t.Run("bare", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/movies/1")
		require.Equal(t, http.StatusOK, resp.Code)

		var env testEnvelope[MovieResponse]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
		assert.Equal(t, "John Wick", env.Data.Title)
		assert.False(t, env.Data.Enriched)
		assert.Empty(t, env.Data.Poster)
	})

	t.Run("enriched", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/movies/1?enrich=true")
		require.Equal(t, http.StatusOK, resp.Code)

		var env testEnvelope[MovieResponse]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
		assert.True(t, env.Data.Enriched)
		assert.Equal(t, "wick.jpg", env.Data.Poster)
		assert.Equal(t, "2014", env.Data.Year)
		assert.Equal(t, "Action, Crime, Thriller", env.Data.Genre)
		assert.Equal(t, 7.4, env.Data.Rating)
	})

	t.Run("not found", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/movies/42")
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "Movie not found", decodeError(t, resp.Body.Bytes()).Message)
	})

	t.Run("non numeric id", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/movies/abc")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.Bytes()).Code)
	})
}

func TestSearchMovies(t *testing.T) {
	ts := setupTestServer(t, Options{})

	t.Run("matches are enriched", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?q=MATRIX")
		require.Equal(t, http.StatusOK, resp.Code)

		var env testEnvelope[[]MovieResponse]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
		require.Len(t, env.Data, 1)
		assert.Equal(t, "The Matrix", env.Data[0].Title)
		assert.Equal(t, "Action, Sci-Fi", env.Data[0].Genre)
	})

	t.Run("query alias", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?query=john")
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("no query", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "No query provided", decodeError(t, resp.Body.Bytes()).Message)
	})

	t.Run("no results", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?q=zzz")
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "No Results Found", decodeError(t, resp.Body.Bytes()).Message)
	})
}

func TestFavorites(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "dora@example.com")

	resp := ts.api.Get("/api/v1/favorites", bearer)
	require.Equal(t, http.StatusOK, resp.Code)
	var empty testEnvelope[[]FavoriteResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &empty))
	assert.Empty(t, empty.Data)

	resp = ts.api.Post("/api/v1/favorites", bearer, map[string]any{"movie_id": 3, "movie_title": "The Matrix"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var added testEnvelope[AddFavoriteResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &added))
	assert.Equal(t, "Movie added to favorites", added.Data.Message)

	resp = ts.api.Post("/api/v1/favorites", bearer, map[string]any{"movie_id": 1, "movie_title": "John Wick"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/favorites", bearer)
	var list testEnvelope[[]FavoriteResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, "The Matrix", list.Data[0].MovieTitle)
	assert.Equal(t, 1, list.Data[1].MovieID)
}

func TestAddFavorite_Errors(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "eve@example.com")

	resp := ts.api.Post("/api/v1/favorites", bearer, map[string]any{"movie_id": 1, "movie_title": "John Wick"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Post("/api/v1/favorites", bearer, map[string]any{"movie_id": 1, "movie_title": "John Wick"})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "Movie already in favorites", decodeError(t, resp.Body.Bytes()).Message)

	resp = ts.api.Post("/api/v1/favorites", bearer, map[string]any{"movie_title": "John Wick"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Movie ID and title required", decodeError(t, resp.Body.Bytes()).Message)
}

func TestRecommendations(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "finn@example.com")

	t.Run("no favorites falls back to trending", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/recommendations", bearer)
		require.Equal(t, http.StatusOK, resp.Code)

		var env testEnvelope[RecommendationResponse]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
		assert.Equal(t, "no_favorites", env.Data.Outcome)
		assert.Len(t, env.Data.Recommendations, 3)
		assert.Empty(t, env.Data.DominantGenre)
		assert.NotContains(t, resp.Body.String(), "dominant_genre")
	})

	t.Run("dominant genre", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/favorites", bearer, map[string]any{"movie_id": 1, "movie_title": "John Wick"})
		require.Equal(t, http.StatusCreated, resp.Code)

		resp = ts.api.Get("/api/v1/recommendations", bearer)
		require.Equal(t, http.StatusOK, resp.Code)

		var env testEnvelope[RecommendationResponse]
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
		assert.Equal(t, "success", env.Data.Outcome)
		assert.Equal(t, "Action", env.Data.DominantGenre)
		require.Len(t, env.Data.Recommendations, 3)
		assert.Equal(t, "Action, Crime, Thriller", env.Data.Recommendations[0].Genre)
		assert.NotEmpty(t, env.Data.Genres)
	})
}

func TestRecommendations_NoMatches(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "gus@example.com")

	resp := ts.api.Post("/api/v1/favorites", bearer, map[string]any{"movie_id": 99, "movie_title": "Amelie"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/recommendations", bearer)
	require.Equal(t, http.StatusOK, resp.Code)

	var env testEnvelope[RecommendationResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.Equal(t, "no_matches", env.Data.Outcome)
	assert.Len(t, env.Data.Recommendations, 3)
	assert.Empty(t, env.Data.Recommendations[0].Genre)
}

func TestMetadataLookup(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "hal@example.com")

	resp := ts.api.Get("/api/v1/metadata/lookup?imdb_id=tt0133093", bearer)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var env testEnvelope[MetadataResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.Equal(t, "The Matrix", env.Data.Title)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, env.Data.Genres)
	assert.Equal(t, "Action, Sci-Fi", env.Data.Genre)

	resp = ts.api.Get("/api/v1/metadata/lookup?title=Nope", bearer)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/metadata/lookup", bearer)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Get("/api/v1/metadata/lookup?title=Heat")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMetadataSearch(t *testing.T) {
	ts := setupTestServer(t, Options{})
	bearer := ts.login(t, "ivy@example.com")

	resp := ts.api.Get("/api/v1/metadata/search?q=matrix", bearer)
	require.Equal(t, http.StatusOK, resp.Code)

	var env testEnvelope[[]metadata.Candidate]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "tt0133093", env.Data[0].IMDbID)
}

func TestMapMovie_EnrichedWithEmptyFields(t *testing.T) {
	base := domain.Movie{ID: 7, Title: "Obscure Short", Rating: 6.1}

	bare := mapMovie(base)
	assert.False(t, bare.Enriched)

	empty := mapMovie(base.WithEnrichment(domain.Enrichment{}))
	assert.True(t, empty.Enriched)
	assert.Empty(t, empty.Poster)
	assert.Empty(t, empty.Genre)
	assert.Equal(t, "Obscure Short", empty.Title)
}
