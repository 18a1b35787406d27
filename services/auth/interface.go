package auth

import (
	"context"

	userRepo "covenant/database/repository/user"

	"github.com/go-redis/redis/v8"
)

// AuthResponse contains the account's ID, email and issued token.
type AuthResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// AuthService handles account registration and sign-in for the auth modals.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Logout(ctx context.Context, userID string) error
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Repo  userRepo.UserRepository
	Cache *redis.Client
}
