// Package service implements the PopcornPicks use cases on top of the store,
// the catalog, the metadata client and the recommendation engine. Handlers
// call services; services return domain errors the API layer maps to HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/popcornpicks/popcornpicks-server/internal/auth"
	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	domainerrors "github.com/popcornpicks/popcornpicks-server/internal/errors"
	"github.com/popcornpicks/popcornpicks-server/internal/id"
	"github.com/popcornpicks/popcornpicks-server/internal/store"
	"github.com/popcornpicks/popcornpicks-server/internal/validation"
)

// Messages clients rely on.
const (
	MsgCredentialsRequired = "Email and password required"
	MsgBadCredentials      = "Email or password is not valid"
	MsgUserExists          = "User already exists"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgTokenMissing        = "Token is missing!"
	MsgTokenInvalid        = "Token is invalid!"
	MsgTokenExpired        = "Token expired!"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	store     store.Users
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users store.Users, tokens *auth.TokenService, v *validation.Validator, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{store: users, tokens: tokens, validator: v, logger: logger}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

func (s *AuthService) checkCredentials(email, password string, req any) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return domainerrors.Validation(MsgCredentialsRequired)
	}
	return s.validator.ValidateWithMessage(req, MsgBadCredentials)
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.checkCredentials(req.Email, req.Password, req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        req.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists(MsgUserExists)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user and issues an access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.checkCredentials(req.Email, req.Password, req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether the email exists.
			return nil, domainerrors.InvalidCredentials(MsgInvalidCredentials)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, domainerrors.InvalidCredentials(MsgInvalidCredentials)
	}

	if err := s.store.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login time", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = time.Now()
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResponse{Token: token, ExpiresAt: exp, User: user}, nil
}

// VerifyAccessToken resolves a bearer token to its user. Every failure is
// one of the token errors so the caller can answer 401 with the right code.
func (s *AuthService) VerifyAccessToken(ctx context.Context, raw string) (*domain.User, *auth.Claims, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrTokenMissing):
			return nil, nil, domainerrors.TokenMissing(MsgTokenMissing)
		case errors.Is(err, domainerrors.ErrTokenExpired):
			return nil, nil, domainerrors.TokenExpired(MsgTokenExpired)
		default:
			return nil, nil, domainerrors.TokenInvalid(MsgTokenInvalid).WithCause(err)
		}
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The account behind an authentic token is gone.
			return nil, nil, domainerrors.TokenInvalid(MsgTokenInvalid)
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

// CurrentUser returns the user with the given ID.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
