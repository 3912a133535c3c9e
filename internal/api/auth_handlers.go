package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/domain"
	"github.com/popcornpicks/popcornpicks-server/internal/service"
)

// MsgUserRegistered is sent on successful registration.
const MsgUserRegistered = "User registered successfully"

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/v1/auth/register",
		Summary:       "Register new user",
		Description:   "Creates a new user account",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns a PASETO access token",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)
}

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// CredentialsRequest is the request body for register and login. Fields are
// optional in the schema so missing values reach the service's own check.
type CredentialsRequest struct {
	Email    string `json:"email,omitempty" doc:"User email address"`
	Password string `json:"password,omitempty" doc:"User password"`
}

// CredentialsInput wraps the credentials for Huma.
type CredentialsInput struct {
	Body CredentialsRequest
}

// UserResponse contains user information.
type UserResponse struct {
	ID          string     `json:"id" doc:"User ID"`
	Email       string     `json:"email" doc:"User email"`
	CreatedAt   time.Time  `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time  `json:"updated_at" doc:"Last update timestamp"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" doc:"Last login timestamp"`
}

// RegisterResponse contains the result of a registration.
type RegisterResponse struct {
	Message string       `json:"message" doc:"Status message"`
	User    UserResponse `json:"user" doc:"Created user"`
}

// RegisterOutput wraps the register response for Huma.
type RegisterOutput struct {
	Body RegisterResponse
}

// LoginResponse contains the access token and user info.
type LoginResponse struct {
	Token     string       `json:"token" doc:"PASETO access token"`
	TokenType string       `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresAt time.Time    `json:"expires_at" doc:"Token expiry"`
	User      UserResponse `json:"user" doc:"Authenticated user"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body LoginResponse
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body UserResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *CredentialsInput) (*RegisterOutput, error) {
	user, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{
		Body: RegisterResponse{
			Message: MsgUserRegistered,
			User:    mapUserResponse(user),
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *CredentialsInput) (*LoginOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Body: LoginResponse{
			Token:     resp.Token,
			TokenType: "Bearer",
			ExpiresAt: resp.ExpiresAt,
			User:      mapUserResponse(resp.User),
		},
	}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Auth.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func mapUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if !u.LastLoginAt.IsZero() {
		t := u.LastLoginAt
		resp.LastLoginAt = &t
	}
	return resp
}
