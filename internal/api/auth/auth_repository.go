package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshSession(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	GetSession(ctx context.Context, userID string) (*types.Session, error)
	InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error
}

type PostgresAuthRepo struct {
	pgpool *pgxpool.Pool
	jwtCfg config.JWTConfig
	logger *slog.Logger
}

func NewPostgresAuthRepo(pgpool *pgxpool.Pool, jwtCfg config.JWTConfig, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		pgpool: pgpool,
		jwtCfg: jwtCfg,
		logger: logger,
	}
}

// Register stores a new user with a bcrypt password hash.
func (r *PostgresAuthRepo) Register(ctx context.Context, username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = r.pgpool.Exec(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)",
		username, email, string(hash))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Login authenticates a user and returns an access token plus a stored
// refresh token.
func (r *PostgresAuthRepo) Login(ctx context.Context, email, password string) (string, string, error) {
	var user types.User
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, username, email, password_hash FROM users WHERE email = $1",
		email).Scan(&user.ID, &user.Username, &user.Email, &user.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("user lookup failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	accessToken, err := r.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := uuid.NewString()
	expiresAt := time.Now().Add(r.jwtCfg.RefreshTTL)
	_, err = r.pgpool.Exec(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
		user.ID, refreshToken, expiresAt)
	if err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// RefreshSession rotates a valid refresh token and issues a new access
// token.
func (r *PostgresAuthRepo) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	var userID string
	var expiresAt time.Time
	var invalidatedAt *time.Time
	err := r.pgpool.QueryRow(ctx,
		"SELECT user_id, expires_at, invalidated_at FROM refresh_tokens WHERE token = $1",
		refreshToken).Scan(&userID, &expiresAt, &invalidatedAt)
	if err != nil {
		return "", "", ErrInvalidRefreshToken
	}
	if time.Now().After(expiresAt) || invalidatedAt != nil {
		return "", "", ErrInvalidRefreshToken
	}

	var user types.User
	err = r.pgpool.QueryRow(ctx,
		"SELECT id, username, email FROM users WHERE id = $1",
		userID).Scan(&user.ID, &user.Username, &user.Email)
	if err != nil {
		return "", "", fmt.Errorf("user lookup failed: %w", err)
	}

	accessToken, err := r.generateAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken := uuid.NewString()
	newExpiresAt := time.Now().Add(r.jwtCfg.RefreshTTL)

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx,
		"UPDATE refresh_tokens SET invalidated_at = now() WHERE token = $1",
		refreshToken); err != nil {
		return "", "", fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	if _, err = tx.Exec(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
		user.ID, newRefreshToken, newExpiresAt); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return "", "", fmt.Errorf("failed to commit refresh rotation: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

// Logout invalidates a refresh token.
func (r *PostgresAuthRepo) Logout(ctx context.Context, refreshToken string) error {
	_, err := r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET invalidated_at = now() WHERE token = $1",
		refreshToken)
	if err != nil {
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	return nil
}

// GetSession loads the session view of a user.
func (r *PostgresAuthRepo) GetSession(ctx context.Context, userID string) (*types.Session, error) {
	var session types.Session
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, username, email FROM users WHERE id = $1",
		userID).Scan(&session.ID, &session.Username, &session.Email)
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &session, nil
}

// InvalidateAllUserRefreshTokens revokes every refresh token for a user.
func (r *PostgresAuthRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET invalidated_at = now() WHERE user_id = $1 AND invalidated_at IS NULL",
		userID)
	if err != nil {
		return fmt.Errorf("failed to invalidate refresh tokens: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) generateAccessToken(user types.User) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    r.jwtCfg.Issuer,
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{r.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.jwtCfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(r.jwtCfg.SecretKey))
}
