package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainerrors "github.com/popcornpicks/popcornpicks-server/internal/errors"
	"github.com/popcornpicks/popcornpicks-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// authKey is the context key for the bearer verification outcome.
const authKey ctxKey = "auth"

// authState is what authMiddleware learned about the caller.
type authState struct {
	userID string
	err    error
}

// GetUserID returns the authenticated user ID from context.
// Returns the token error when the request carried a bad token, and
// TOKEN_MISSING when it carried none.
func GetUserID(ctx context.Context) (string, error) {
	state, ok := ctx.Value(authKey).(authState)
	if !ok {
		return "", domainerrors.TokenMissing(service.MsgTokenMissing)
	}
	if state.err != nil {
		return "", state.err
	}
	return state.userID, nil
}

// authMiddleware validates Bearer tokens and records the outcome in context.
// Requests always continue; handlers call GetUserID to require a user.
func authMiddleware(auth *service.AuthService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				raw = ""
			}

			var state authState
			user, _, err := auth.VerifyAccessToken(r.Context(), strings.TrimSpace(raw))
			if err != nil {
				state.err = err
				if !isAuthError(err) {
					logger.Warn("token verification failed", "path", r.URL.Path, "error", err)
				}
			} else {
				state.userID = user.ID
			}

			ctx := context.WithValue(r.Context(), authKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isAuthError separates bad tokens from failures while checking them.
func isAuthError(err error) bool {
	var de *domainerrors.Error
	return errors.As(err, &de) && de.Code.IsAuthError()
}
