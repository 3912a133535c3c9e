package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/popcornpicks/popcornpicks-server/internal/errors"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.CodeNotFound, http.StatusNotFound},
		{errors.CodeAlreadyExists, http.StatusConflict},
		{errors.CodeValidation, http.StatusBadRequest},
		{errors.CodeInvalidCredentials, http.StatusUnauthorized},
		{errors.CodeTokenMissing, http.StatusUnauthorized},
		{errors.CodeTokenInvalid, http.StatusUnauthorized},
		{errors.CodeTokenExpired, http.StatusUnauthorized},
		{errors.CodeRateLimited, http.StatusTooManyRequests},
		{errors.CodeUnavailable, http.StatusServiceUnavailable},
		{errors.CodeInternal, http.StatusInternalServerError},
		{errors.Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCode_IsAuthError(t *testing.T) {
	assert.True(t, errors.CodeTokenMissing.IsAuthError())
	assert.True(t, errors.CodeTokenInvalid.IsAuthError())
	assert.True(t, errors.CodeTokenExpired.IsAuthError())
	assert.False(t, errors.CodeInvalidCredentials.IsAuthError())
	assert.False(t, errors.CodeValidation.IsAuthError())
}

func TestError_IsComparesCode(t *testing.T) {
	err := errors.NotFound("Movie not found")

	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.NotErrorIs(t, err, errors.ErrValidation)
	assert.ErrorIs(t, fmt.Errorf("handler: %w", err), errors.ErrNotFound)
}

func TestError_WithCause(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := errors.Wrap(cause, errors.CodeInternal, "save failed")

	assert.Equal(t, "save failed: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))

	detailed := err.WithDetails(map[string]string{"field": "x"})
	assert.ErrorIs(t, detailed, cause)
	assert.Equal(t, map[string]string{"field": "x"}, detailed.Details)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *errors.Error
		code errors.Code
		msg  string
	}{
		{"not found", errors.NotFound("Movie not found"), errors.CodeNotFound, "Movie not found"},
		{"not found formatted", errors.NotFoundf("movie %d not found", 7), errors.CodeNotFound, "movie 7 not found"},
		{"already exists", errors.AlreadyExists("User already exists"), errors.CodeAlreadyExists, "User already exists"},
		{"validation", errors.Validation("No query provided"), errors.CodeValidation, "No query provided"},
		{"invalid credentials", errors.InvalidCredentials("Invalid credentials"), errors.CodeInvalidCredentials, "Invalid credentials"},
		{"unavailable", errors.Unavailable("lookup service unavailable"), errors.CodeUnavailable, "lookup service unavailable"},
		{"token missing", errors.TokenMissing("Token is missing!"), errors.CodeTokenMissing, "Token is missing!"},
		{"token invalid", errors.TokenInvalid("Token is invalid!"), errors.CodeTokenInvalid, "Token is invalid!"},
		{"token expired", errors.TokenExpired("Token expired!"), errors.CodeTokenExpired, "Token expired!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}

func TestError_GetStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, errors.NotFound("gone").GetStatus())
	assert.Equal(t, http.StatusServiceUnavailable, errors.Unavailable("down").GetStatus())
	assert.Equal(t, http.StatusUnauthorized, errors.TokenExpired("Token expired!").GetStatus())
}
