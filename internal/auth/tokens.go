package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/errors"
	"github.com/popcornpicks/popcornpicks-server/internal/id"
)

const (
	tokenIssuer   = "popcornpicks-server"
	tokenAudience = "popcornpicks-client"
)

// Claims is what an access token vouches for.
type Claims struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues and verifies v4.local access tokens.
type TokenService struct {
	key      paseto.V4SymmetricKey
	duration time.Duration
	now      func() time.Time
}

// NewTokenService creates a token service from a 32-byte key.
func NewTokenService(key []byte, duration time.Duration) (*TokenService, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("PASETO v4 key must be %d bytes, got %d", KeySize, len(key))
	}
	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("create PASETO key: %w", err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("token duration must be positive, got %s", duration)
	}
	return &TokenService{key: k, duration: duration, now: time.Now}, nil
}

// Duration returns the configured token lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}

// Issue creates an encrypted access token for user and returns its expiry.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.duration)

	jti, err := id.Generate("tok")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token ID: %w", err)
	}

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(user.ID)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(exp)
	token.SetJti(jti)
	token.SetString("email", user.Email)

	return token.V4Encrypt(s.key, nil), exp, nil
}

// Verify decrypts and checks raw. It returns errors.ErrTokenMissing for an
// empty string, errors.ErrTokenExpired when the token is authentic but past
// its expiry, and errors.ErrTokenInvalid for anything else.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, errors.ErrTokenMissing
	}

	// Expiry is checked by hand below so an authentic but stale token can be
	// told apart from a forged one.
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.key, raw, nil)
	if err != nil {
		return nil, errors.ErrTokenInvalid.WithCause(err)
	}

	exp, err := token.GetExpiration()
	if err != nil {
		return nil, errors.ErrTokenInvalid.WithCause(err)
	}
	if !s.now().Before(exp) {
		return nil, errors.ErrTokenExpired
	}

	sub, err := token.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.ErrTokenInvalid.WithCause(fmt.Errorf("missing subject: %w", err))
	}
	email, _ := token.GetString("email") //nolint:errcheck // optional claim
	jti, _ := token.GetJti()             //nolint:errcheck // optional claim

	return &Claims{UserID: sub, Email: email, TokenID: jti, ExpiresAt: exp}, nil
}
