package social

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourist-spots/internal/api"
	"github.com/FACorreiaa/go-tourist-spots/internal/api/auth"
	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

type CreatePostRequest struct {
	Content  string `json:"content"`
	SpotID   string `json:"spot_id,omitempty"`
	SpotName string `json:"spot_name,omitempty"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type Handler struct {
	socialService Service
	logger        *slog.Logger
}

func NewHandler(socialService Service, logger *slog.Logger) *Handler {
	return &Handler{
		socialService: socialService,
		logger:        logger,
	}
}

// postIDParam reads and validates the {postID} path parameter. A malformed
// id can never match a post, so callers treat it as not found instead of
// letting it surface as a database error.
func postIDParam(r *http.Request) (string, bool) {
	postID := chi.URLParam(r, "postID")
	if _, err := uuid.Parse(postID); err != nil {
		return "", false
	}
	return postID, true
}

// CreatePost publishes a new feed post for the authenticated user.
// POST /api/v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Social").Start(r.Context(), "CreatePost", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/posts"),
	))
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.socialService.CreatePost(ctx, userID, req.Content, req.SpotID, req.SpotName)
	if err != nil {
		if errors.Is(err, ErrEmptyContent) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to create post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create post")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, post)
}

// GetFeed lists the newest posts.
// GET /api/v1/posts?limit=&offset=
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Social").Start(r.Context(), "GetFeed", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/posts"),
	))
	defer span.End()

	userID, _ := auth.GetUserIDFromContext(ctx)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	posts, err := h.socialService.ListFeed(ctx, userID, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to load feed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load feed")
		return
	}
	if posts == nil {
		posts = []types.Post{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, posts)
}

// GetPost returns a single post with like counts.
// GET /api/v1/posts/{postID}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Social").Start(r.Context(), "GetPost", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/posts/{postID}"),
	))
	defer span.End()

	userID, _ := auth.GetUserIDFromContext(ctx)
	postID, ok := postIDParam(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.socialService.GetPost(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to load post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load post")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, post)
}

// DeletePost deletes the authenticated user's own post.
// DELETE /api/v1/posts/{postID}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Social").Start(r.Context(), "DeletePost", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/posts/{postID}"),
	))
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	postID, ok := postIDParam(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
		return
	}

	if err := h.socialService.DeletePost(ctx, postID, userID); err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
		case errors.Is(err, ErrNotPostOwner):
			api.ErrorResponse(w, r, http.StatusForbidden, "You can only delete your own posts")
		default:
			h.logger.ErrorContext(ctx, "Failed to delete post", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete post")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// CreateComment attaches a comment to a post.
// POST /api/v1/posts/{postID}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Social").Start(r.Context(), "CreateComment", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/posts/{postID}/comments"),
	))
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	postID, ok := postIDParam(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
		return
	}

	var req CreateCommentRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.socialService.CreateComment(ctx, postID, userID, req.Content)
	if err != nil {
		if errors.Is(err, ErrEmptyContent) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to create comment", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, comment)
}

// ListComments lists comments of a post, oldest first.
// GET /api/v1/posts/{postID}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Social").Start(r.Context(), "ListComments", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/posts/{postID}/comments"),
	))
	defer span.End()

	postID, ok := postIDParam(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
		return
	}

	comments, err := h.socialService.ListComments(ctx, postID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to load comments", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load comments")
		return
	}
	if comments == nil {
		comments = []types.Comment{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, comments)
}

// LikePost records a like from the authenticated user.
// POST /api/v1/posts/{postID}/like
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Social").Start(r.Context(), "LikePost", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/posts/{postID}/like"),
	))
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	postID, ok := postIDParam(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
		return
	}

	if err := h.socialService.LikePost(ctx, postID, userID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to like post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to like post")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Post liked"})
}

// UnlikePost removes the authenticated user's like.
// DELETE /api/v1/posts/{postID}/like
func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("Social").Start(r.Context(), "UnlikePost", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/posts/{postID}/like"),
	))
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	postID, ok := postIDParam(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
		return
	}

	if err := h.socialService.UnlikePost(ctx, postID, userID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to unlike post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to unlike post")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "Like removed"})
}
