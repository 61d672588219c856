package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) Register(ctx context.Context, username, email, password string) error {
	args := m.Called(ctx, username, email, password)
	return args.Error(0)
}

func (m *MockAuthRepo) Login(ctx context.Context, email, password string) (string, string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthRepo) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthRepo) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthRepo) GetSession(ctx context.Context, userID string) (*types.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Session), args.Error(1)
}

func (m *MockAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestRegister(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, slog.Default())

	mockRepo.On("Register", mock.Anything, "joao", "joao@example.com", "secret").Return(nil)

	err := service.Register(context.Background(), "joao", "joao@example.com", "secret")
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, slog.Default())

	mockRepo.On("Login", mock.Anything, "joao@example.com", "secret").
		Return("access-token", "refresh-token", nil)

	access, refresh, err := service.Login(context.Background(), "joao@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access-token", access)
	assert.Equal(t, "refresh-token", refresh)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, slog.Default())

	mockRepo.On("Login", mock.Anything, "joao@example.com", "wrong").
		Return("", "", ErrInvalidCredentials)

	_, _, err := service.Login(context.Background(), "joao@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout_WrapsRepositoryError(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, slog.Default())

	mockRepo.On("Logout", mock.Anything, "stale-token").
		Return(errors.New("connection refused"))

	err := service.Logout(context.Background(), "stale-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logout failed")
}

func TestInvalidateAllUserRefreshTokens(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, slog.Default())

	mockRepo.On("InvalidateAllUserRefreshTokens", mock.Anything, "user-1").Return(nil)

	err := service.InvalidateAllUserRefreshTokens(context.Background(), "user-1")
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestInvalidateAllUserRefreshTokens_WrapsRepositoryError(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, slog.Default())

	mockRepo.On("InvalidateAllUserRefreshTokens", mock.Anything, "user-1").
		Return(errors.New("connection refused"))

	err := service.InvalidateAllUserRefreshTokens(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to invalidate user sessions")
}

func TestGetSession(t *testing.T) {
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, slog.Default())

	session := &types.Session{ID: "user-1", Username: "joao", Email: "joao@example.com"}
	mockRepo.On("GetSession", mock.Anything, "user-1").Return(session, nil)

	got, err := service.GetSession(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, session, got)
}
