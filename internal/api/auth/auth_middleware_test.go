package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:      "test-secret",
		Issuer:         "go-tourist-spots",
		Audience:       "go-tourist-spots-api",
		AccessTokenTTL: 15 * time.Minute,
		RefreshTTL:     720 * time.Hour,
	}
}

func signTestToken(t *testing.T, cfg config.JWTConfig, mutate func(*types.Claims)) string {
	t.Helper()
	now := time.Now()
	claims := &types.Claims{
		UserID:   "user-1",
		Username: "joao",
		Email:    "joao@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL)),
		},
	}
	if mutate != nil {
		mutate(claims)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SecretKey))
	require.NoError(t, err)
	return signed
}

func runMiddleware(cfg config.JWTConfig, authorization string) (*httptest.ResponseRecorder, string) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()

	Authenticate(slog.Default(), cfg)(next).ServeHTTP(rec, req)
	return rec, gotUserID
}

func TestAuthenticate_ValidToken(t *testing.T) {
	cfg := testJWTConfig()
	token := signTestToken(t, cfg, nil)

	rec, userID := runMiddleware(cfg, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", userID)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	rec, _ := runMiddleware(testJWTConfig(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	rec, _ := runMiddleware(testJWTConfig(), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token := signTestToken(t, cfg, func(c *types.Claims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	})

	rec, _ := runMiddleware(cfg, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_WrongAudience(t *testing.T) {
	cfg := testJWTConfig()
	token := signTestToken(t, cfg, func(c *types.Claims) {
		c.Audience = jwt.ClaimStrings{"another-service"}
	})

	rec, _ := runMiddleware(cfg, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_WrongSignature(t *testing.T) {
	other := testJWTConfig()
	other.SecretKey = "different-secret"
	token := signTestToken(t, other, nil)

	rec, _ := runMiddleware(testJWTConfig(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
