package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-spots/internal/api"
)

type Handler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewHandler(authService AuthService, logger *slog.Logger) *Handler {
	return &Handler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a new user account.
// POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Auth").Start(r.Context(), "Register", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/register"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "username, email and password are required")
		return
	}

	if err := h.authService.Register(ctx, req.Username, req.Email, req.Password); err != nil {
		l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// Login exchanges credentials for an access/refresh token pair.
// POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Auth").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/login"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// RefreshSession rotates a refresh token.
// POST /api/v1/auth/refresh
func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Auth").Start(r.Context(), "RefreshSession", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/refresh"),
	))
	defer span.End()

	var req RefreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, refreshToken, err := h.authService.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to refresh session", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to refresh session")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Logout invalidates the presented refresh token.
// POST /api/v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Auth").Start(r.Context(), "Logout", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/logout"),
	))
	defer span.End()

	var req LogoutRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.Logout(ctx, req.RefreshToken); err != nil {
		h.logger.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Logout failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// InvalidateAllSessions revokes every refresh token of the authenticated
// user, logging them out of all devices.
// POST /api/v1/auth/invalidate-tokens
func (h *Handler) InvalidateAllSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Auth").Start(r.Context(), "InvalidateAllSessions", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/invalidate-tokens"),
	))
	defer span.End()

	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.authService.InvalidateAllUserRefreshTokens(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to invalidate sessions", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to invalidate sessions")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "All sessions invalidated"})
}

// ValidateSession returns the session behind a valid access token.
// GET /api/v1/auth/validate-session
func (h *Handler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Auth").Start(r.Context(), "ValidateSession", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/auth/validate-session"),
	))
	defer span.End()

	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	session, err := h.authService.GetSession(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to load session", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load session")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, session)
}
