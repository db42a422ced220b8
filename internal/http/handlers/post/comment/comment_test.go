package comment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

type PostServiceMock struct {
	mock.Mock
}

func (m *PostServiceMock) AddComment(ctx context.Context, postID, userID, text string) (*models.Post, error) {
	args := m.Called(ctx, postID, userID, text)
	post, _ := args.Get(0).(*models.Post)
	return post, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(postID, text string, user *models.Snapshot) *http.Request {
	body := url.Values{"text": {text}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/comment/"+postID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("postId", postID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if user != nil {
		ctx = middlewarectx.WithSnapshot(ctx, user)
	}
	return req.WithContext(ctx)
}

func TestCommentHandler(t *testing.T) {
	bob := &models.Snapshot{UserID: "u2", Username: "bob"}

	t.Run("text is passed through raw", func(t *testing.T) {
		svc := new(PostServiceMock)
		svc.On("AddComment", mock.Anything, "p1", "u2", "<b>nice</b>").
			Return(&models.Post{ID: "p1"}, nil).Once()

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc, 1<<20).ServeHTTP(rec, newRequest("p1", "<b>nice</b>", bob))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		svc.AssertExpectations(t)
	})

	t.Run("empty text is accepted", func(t *testing.T) {
		svc := new(PostServiceMock)
		svc.On("AddComment", mock.Anything, "p1", "u2", "").Return(&models.Post{ID: "p1"}, nil).Once()

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc, 1<<20).ServeHTTP(rec, newRequest("p1", "", bob))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown post", func(t *testing.T) {
		svc := new(PostServiceMock)
		svc.On("AddComment", mock.Anything, "nope", "u2", "hi").
			Return(nil, fmt.Errorf("services.post.AddComment: %w", models.ErrNotFound))

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc, 1<<20).ServeHTTP(rec, newRequest("nope", "hi", bob))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Post not found\n", rec.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(PostServiceMock)
		svc.On("AddComment", mock.Anything, "p1", "u2", "hi").Return(nil, errors.New("db down"))

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc, 1<<20).ServeHTTP(rec, newRequest("p1", "hi", bob))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := new(PostServiceMock)

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc, 1<<20).ServeHTTP(rec, newRequest("p1", "hi", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		svc.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
