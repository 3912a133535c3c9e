package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/popcornpicks/popcornpicks-server/internal/errors"
	"github.com/popcornpicks/popcornpicks-server/internal/store"
)

func marshalMap(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "1"})
	require.NoError(t, err)

	out := marshalMap(t, result)
	assert.Equal(t, float64(EnvelopeVersion), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Equal(t, map[string]any{"id": "1"}, out["data"])
	assert.NotContains(t, out, "error")
}

func TestEnvelopeTransformer_APIError(t *testing.T) {
	apiErr := &APIError{status: http.StatusConflict, Code: "ALREADY_EXISTS", Message: "Movie already in favorites"}

	result, err := EnvelopeTransformer(nil, "409", apiErr)
	require.NoError(t, err)

	env, ok := result.(APIErrorEnvelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, "ALREADY_EXISTS", env.Code)
	assert.Equal(t, "Movie already in favorites", env.Message)
	assert.Equal(t, env.Message, env.Error)
}

func TestEnvelopeTransformer_PlainError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "500", errors.New("boom"))
	require.NoError(t, err)

	env, ok := result.(APIEnvelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, "boom", env.Error)
}

func TestEnvelopeTransformer_AlreadyWrapped(t *testing.T) {
	in := APIEnvelope{Version: EnvelopeVersion, Success: true, Data: 1}
	result, err := EnvelopeTransformer(nil, "200", in)
	require.NoError(t, err)
	assert.Equal(t, in, result)
}

func TestRegisterErrorHandler(t *testing.T) {
	RegisterErrorHandler()

	tests := []struct {
		name   string
		err    huma.StatusError
		status int
		code   string
	}{
		{"domain", huma.NewError(http.StatusInternalServerError, "x", domainerrors.TokenExpired("Token expired!")), http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"wrapped domain", huma.NewError(http.StatusInternalServerError, "x", errors.Join(errors.New("ctx"), domainerrors.Unavailable("down"))), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"store", huma.NewError(http.StatusInternalServerError, "x", store.ErrEmailExists), http.StatusConflict, "ALREADY_EXISTS"},
		{"huma validation", huma.NewError(http.StatusUnprocessableEntity, "validation failed"), http.StatusUnprocessableEntity, "VALIDATION"},
		{"teapot", huma.NewError(http.StatusTeapot, "short and stout"), http.StatusTeapot, "HTTP_418"},
		{"unknown", huma.NewError(http.StatusInternalServerError, "unexpected", errors.New("secret")), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr, ok := tt.err.(*APIError)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.GetStatus())
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestRegisterErrorHandler_HidesInternalDetails(t *testing.T) {
	RegisterErrorHandler()

	apiErr, ok := huma.NewError(http.StatusInternalServerError, "unexpected", errors.New("dsn=secret")).(*APIError)
	require.True(t, ok)
	assert.Nil(t, apiErr.Details)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:5000", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2"}, "10.0.0.1:5000", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.9:41000", "192.0.2.9"},
		{"ipv6 remote", nil, "[::1]:8080", "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodGet, "/", nil)
			require.NoError(t, err)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}

func TestEnvelopeTransformer_DomainAndStoreErrors(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "401", domainerrors.TokenExpired("Token expired!"))
	require.NoError(t, err)
	env, ok := result.(APIErrorEnvelope)
	require.True(t, ok)
	assert.Equal(t, "TOKEN_EXPIRED", env.Code)
	assert.Equal(t, "Token expired!", env.Message)

	result, err = EnvelopeTransformer(nil, "409", store.ErrFavoriteExists)
	require.NoError(t, err)
	env, ok = result.(APIErrorEnvelope)
	require.True(t, ok)
	assert.Equal(t, "ALREADY_EXISTS", env.Code)
	assert.Equal(t, "Movie already in favorites", env.Message)
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, isAuthError(domainerrors.TokenExpired("Token expired!")))
	assert.True(t, isAuthError(domainerrors.TokenMissing("Token is missing!")))
	assert.False(t, isAuthError(domainerrors.Wrap(errors.New("database is closed"), domainerrors.CodeInternal, "lookup failed")))
	assert.False(t, isAuthError(errors.New("get user: boom")))
}
