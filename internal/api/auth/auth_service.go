package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshSession(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	GetSession(ctx context.Context, userID string) (*types.Session, error)
	InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error
}

type AuthServiceImpl struct {
	repo   AuthRepo
	logger *slog.Logger
}

func NewAuthService(repo AuthRepo, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) error {
	l := s.logger.With(slog.String("method", "Register"), slog.String("email", email))
	if err := s.repo.Register(ctx, username, email, password); err != nil {
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		return err
	}
	l.InfoContext(ctx, "User registered")
	return nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	accessToken, refreshToken, err := s.repo.Login(ctx, email, password)
	if err != nil {
		return "", "", err
	}
	s.logger.InfoContext(ctx, "User logged in", slog.String("email", email))
	return accessToken, refreshToken, nil
}

func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	return s.repo.RefreshSession(ctx, refreshToken)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repo.Logout(ctx, refreshToken); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

func (s *AuthServiceImpl) GetSession(ctx context.Context, userID string) (*types.Session, error) {
	return s.repo.GetSession(ctx, userID)
}

// InvalidateAllUserRefreshTokens logs the user out of every device.
func (s *AuthServiceImpl) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	if err := s.repo.InvalidateAllUserRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to invalidate user sessions: %w", err)
	}
	s.logger.InfoContext(ctx, "All refresh tokens invalidated", slog.String("user_id", userID))
	return nil
}
