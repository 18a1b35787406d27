package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "covenant/database/repository/user"
	"covenant/models"
	"covenant/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong email/password pair.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken mirrors the repository error for handler classification.
var ErrEmailTaken = userRepo.ErrEmailTaken

const tokenTTL = 30 * 24 * time.Hour

// Register creates an account, issues a token and records the session.
func (s *DefaultAuthService) Register(ctx context.Context, email, password string) (*AuthResponse, error) {
	logger := utils.GetLogger()

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must have at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	resp, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	logger.Info("Account registered", zap.String("userId", user.ID))
	return resp, nil
}

// Login verifies the credentials, issues a token and records the session.
func (s *DefaultAuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, userRepo.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

// Logout drops the account's session from the auth cache.
func (s *DefaultAuthService) Logout(ctx context.Context, userID string) error {
	return utils.DeleteAuthSession(s.Cache, userID)
}

func (s *DefaultAuthService) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Email, tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := utils.AuthSession{
		UserID:    user.ID,
		Email:     user.Email,
		TokenHash: utils.HashToken(token),
		CreatedAt: time.Now(),
	}
	if err := utils.SaveAuthSession(s.Cache, user.ID, session, tokenTTL); err != nil {
		return nil, err
	}

	return &AuthResponse{ID: user.ID, Email: user.Email, Token: token}, nil
}
