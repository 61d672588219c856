package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-tourist-spots/config"
	"github.com/FACorreiaa/go-tourist-spots/internal/api"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	userEmailKey contextKey = "userEmail"
)

// Authenticate validates the bearer token and injects the user identity
// into the request context.
func Authenticate(logger *slog.Logger, jwtCfg config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header must be a bearer token")
				return
			}

			claims, err := parseToken(parts[1], jwtCfg)
			if err != nil {
				logger.DebugContext(r.Context(), "Token validation failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, userEmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseToken(tokenString string, jwtCfg config.JWTConfig) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(jwtCfg.SecretKey), nil
	}, jwt.WithIssuer(jwtCfg.Issuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if !api.VerifyAudience(claims.Audience, jwtCfg.Audience) {
		return nil, fmt.Errorf("invalid token audience")
	}
	return claims, nil
}

// GetUserIDFromContext extracts the authenticated user ID placed in the
// context by Authenticate.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
