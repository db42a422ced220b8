package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

type PostServiceMock struct {
	mock.Mock
}

func (m *PostServiceMock) SearchPosts(ctx context.Context, search string) ([]models.Post, error) {
	args := m.Called(ctx, search)
	posts, _ := args.Get(0).([]models.Post)
	return posts, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSearchHandler(t *testing.T) {
	renderer, err := view.New(newNoopLogger())
	require.NoError(t, err)

	t.Run("results in store order", func(t *testing.T) {
		svc := new(PostServiceMock)
		svc.On("SearchPosts", mock.Anything, "Go").Return([]models.Post{{ID: "2"}, {ID: "1"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/search?search=Go", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc, renderer).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Data view.SearchResults `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Go", got.Data.Search)
		require.Len(t, got.Data.Results, 2)
		assert.Equal(t, "2", got.Data.Results[0].ID)
	})

	t.Run("html", func(t *testing.T) {
		svc := new(PostServiceMock)
		svc.On("SearchPosts", mock.Anything, "").Return([]models.Post{}, nil)

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc, renderer).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Nothing found.")
	})

	t.Run("store error", func(t *testing.T) {
		svc := new(PostServiceMock)
		svc.On("SearchPosts", mock.Anything, "x").Return(nil, errors.New("db down"))

		rec := httptest.NewRecorder()
		New(newNoopLogger(), svc, renderer).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?search=x", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error\n", rec.Body.String())
	})
}
