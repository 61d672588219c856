package social

import (
	"context"
	"errors"
	"log/slog"

	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

var ErrEmptyContent = errors.New("content must not be empty")

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreatePost(ctx context.Context, userID, content, spotID, spotName string) (*types.Post, error)
	GetPost(ctx context.Context, postID, viewerID string) (*types.Post, error)
	ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]types.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error
	CreateComment(ctx context.Context, postID, userID, content string) (*types.Comment, error)
	ListComments(ctx context.Context, postID string) ([]types.Comment, error)
	LikePost(ctx context.Context, postID, userID string) error
	UnlikePost(ctx context.Context, postID, userID string) error
}

type ServiceImpl struct {
	repo   SocialRepo
	logger *slog.Logger
}

func NewService(repo SocialRepo, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) CreatePost(ctx context.Context, userID, content, spotID, spotName string) (*types.Post, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	post, err := s.repo.CreatePost(ctx, userID, content, spotID, spotName)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Post created",
		slog.String("post_id", post.ID), slog.String("user_id", userID))
	return post, nil
}

func (s *ServiceImpl) GetPost(ctx context.Context, postID, viewerID string) (*types.Post, error) {
	return s.repo.GetPost(ctx, postID, viewerID)
}

func (s *ServiceImpl) ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]types.Post, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListFeed(ctx, viewerID, limit, offset)
}

func (s *ServiceImpl) DeletePost(ctx context.Context, postID, userID string) error {
	return s.repo.DeletePost(ctx, postID, userID)
}

func (s *ServiceImpl) CreateComment(ctx context.Context, postID, userID, content string) (*types.Comment, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	return s.repo.CreateComment(ctx, postID, userID, content)
}

func (s *ServiceImpl) ListComments(ctx context.Context, postID string) ([]types.Comment, error) {
	return s.repo.ListComments(ctx, postID)
}

func (s *ServiceImpl) LikePost(ctx context.Context, postID, userID string) error {
	return s.repo.LikePost(ctx, postID, userID)
}

func (s *ServiceImpl) UnlikePost(ctx context.Context, postID, userID string) error {
	return s.repo.UnlikePost(ctx, postID, userID)
}
