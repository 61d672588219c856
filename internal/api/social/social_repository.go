package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

var ErrPostNotFound = errors.New("post not found")
var ErrNotPostOwner = errors.New("user does not own this post")

// PGXQuerier is the subset of pgxpool.Pool the repository needs. Tests
// substitute a pgxmock pool.
type PGXQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ SocialRepo = (*PostgresSocialRepo)(nil)

type SocialRepo interface {
	CreatePost(ctx context.Context, userID, content, spotID, spotName string) (*types.Post, error)
	GetPost(ctx context.Context, postID, viewerID string) (*types.Post, error)
	ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]types.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error
	CreateComment(ctx context.Context, postID, userID, content string) (*types.Comment, error)
	ListComments(ctx context.Context, postID string) ([]types.Comment, error)
	LikePost(ctx context.Context, postID, userID string) error
	UnlikePost(ctx context.Context, postID, userID string) error
}

type PostgresSocialRepo struct {
	pgpool PGXQuerier
	logger *slog.Logger
}

func NewPostgresSocialRepo(pgpool PGXQuerier, logger *slog.Logger) *PostgresSocialRepo {
	return &PostgresSocialRepo{
		pgpool: pgpool,
		logger: logger,
	}
}

func (r *PostgresSocialRepo) CreatePost(ctx context.Context, userID, content, spotID, spotName string) (*types.Post, error) {
	var post types.Post
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO posts (user_id, content, spot_id, spot_name)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		 RETURNING id, user_id, content, COALESCE(spot_id, ''), COALESCE(spot_name, ''), created_at, updated_at`,
		userID, content, spotID, spotName).
		Scan(&post.ID, &post.UserID, &post.Content, &post.SpotID, &post.SpotName, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &post, nil
}

// GetPost loads one post with like data. viewerID may be empty for
// anonymous reads; NULLIF keeps the uuid comparison from choking on the
// empty string.
func (r *PostgresSocialRepo) GetPost(ctx context.Context, postID, viewerID string) (*types.Post, error) {
	var post types.Post
	err := r.pgpool.QueryRow(ctx,
		`SELECT p.id, p.user_id, u.username, p.content,
		        COALESCE(p.spot_id, ''), COALESCE(p.spot_name, ''),
		        (SELECT count(*) FROM post_likes pl WHERE pl.post_id = p.id),
		        EXISTS (SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = NULLIF($2, '')::uuid),
		        p.created_at, p.updated_at
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1`,
		postID, viewerID).
		Scan(&post.ID, &post.UserID, &post.Username, &post.Content,
			&post.SpotID, &post.SpotName, &post.LikeCount, &post.LikedByMe,
			&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return &post, nil
}

// ListFeed returns the newest posts first with like counts for the viewer.
// An empty viewerID means an anonymous read; every LikedByMe comes back
// false.
func (r *PostgresSocialRepo) ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]types.Post, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT p.id, p.user_id, u.username, p.content,
		        COALESCE(p.spot_id, ''), COALESCE(p.spot_name, ''),
		        (SELECT count(*) FROM post_likes pl WHERE pl.post_id = p.id),
		        EXISTS (SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = NULLIF($1, '')::uuid),
		        p.created_at, p.updated_at
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC
		 LIMIT $2 OFFSET $3`,
		viewerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}
	defer rows.Close()

	var posts []types.Post
	for rows.Next() {
		var post types.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Username, &post.Content,
			&post.SpotID, &post.SpotName, &post.LikeCount, &post.LikedByMe,
			&post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feed row iteration failed: %w", err)
	}
	return posts, nil
}

// DeletePost removes a post, only for its author.
func (r *PostgresSocialRepo) DeletePost(ctx context.Context, postID, userID string) error {
	var ownerID string
	err := r.pgpool.QueryRow(ctx, "SELECT user_id FROM posts WHERE id = $1", postID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to load post: %w", err)
	}
	if ownerID != userID {
		return ErrNotPostOwner
	}

	if _, err := r.pgpool.Exec(ctx, "DELETE FROM posts WHERE id = $1", postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (r *PostgresSocialRepo) CreateComment(ctx context.Context, postID, userID, content string) (*types.Comment, error) {
	var comment types.Comment
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO comments (post_id, user_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, post_id, user_id, content, created_at`,
		postID, userID, content).
		Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Content, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

func (r *PostgresSocialRepo) ListComments(ctx context.Context, postID string) ([]types.Comment, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.created_at
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at ASC`,
		postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []types.Comment
	for rows.Next() {
		var comment types.Comment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.UserID,
			&comment.Username, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comment row iteration failed: %w", err)
	}
	return comments, nil
}

// LikePost is idempotent; liking twice is not an error.
func (r *PostgresSocialRepo) LikePost(ctx context.Context, postID, userID string) error {
	_, err := r.pgpool.Exec(ctx,
		"INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		postID, userID)
	if err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}
	return nil
}

func (r *PostgresSocialRepo) UnlikePost(ctx context.Context, postID, userID string) error {
	_, err := r.pgpool.Exec(ctx,
		"DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2",
		postID, userID)
	if err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}
	return nil
}
