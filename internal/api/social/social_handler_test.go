package social

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourist-spots/internal/types"
)

// MockSocialService is a mock implementation of the Service interface
type MockSocialService struct {
	mock.Mock
}

func (m *MockSocialService) CreatePost(ctx context.Context, userID, content, spotID, spotName string) (*types.Post, error) {
	args := m.Called(ctx, userID, content, spotID, spotName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockSocialService) GetPost(ctx context.Context, postID, viewerID string) (*types.Post, error) {
	args := m.Called(ctx, postID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockSocialService) ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]types.Post, error) {
	args := m.Called(ctx, viewerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Post), args.Error(1)
}

func (m *MockSocialService) DeletePost(ctx context.Context, postID, userID string) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockSocialService) CreateComment(ctx context.Context, postID, userID, content string) (*types.Comment, error) {
	args := m.Called(ctx, postID, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Comment), args.Error(1)
}

func (m *MockSocialService) ListComments(ctx context.Context, postID string) ([]types.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Comment), args.Error(1)
}

func (m *MockSocialService) LikePost(ctx context.Context, postID, userID string) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockSocialService) UnlikePost(ctx context.Context, postID, userID string) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

// newSocialTestRouter mounts the public post routes so {postID} resolves
// the way it does in the real router.
func newSocialTestRouter(svc Service) chi.Router {
	h := NewHandler(svc, slog.Default())
	r := chi.NewRouter()
	r.Get("/posts", h.GetFeed)
	r.Get("/posts/{postID}", h.GetPost)
	r.Get("/posts/{postID}/comments", h.ListComments)
	return r
}

const testPostID = "2b0c9f1e-4c83-4a86-9d4b-0b6f3f6f9a01"

func TestGetPost_OK(t *testing.T) {
	mockService := new(MockSocialService)
	router := newSocialTestRouter(mockService)

	post := &types.Post{ID: testPostID, UserID: "user-1", Username: "joao", Content: "First visit!"}
	mockService.On("GetPost", mock.Anything, testPostID, "").Return(post, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts/"+testPostID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "First visit!")
	mockService.AssertExpectations(t)
}

func TestGetPost_MalformedIDIsNotFound(t *testing.T) {
	mockService := new(MockSocialService)
	router := newSocialTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/posts/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post not found")
	mockService.AssertNotCalled(t, "GetPost")
}

func TestListComments_MalformedIDIsNotFound(t *testing.T) {
	mockService := new(MockSocialService)
	router := newSocialTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/posts/12345/comments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockService.AssertNotCalled(t, "ListComments")
}

// The feed route is public; without an authenticated user the handler must
// still serve it, passing an empty viewer id through.
func TestGetFeed_AnonymousViewer(t *testing.T) {
	mockService := new(MockSocialService)
	router := newSocialTestRouter(mockService)

	mockService.On("ListFeed", mock.Anything, "", 0, 0).Return([]types.Post{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	mockService.AssertExpectations(t)
}
