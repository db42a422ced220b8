package list

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

	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

type PostServiceMock struct {
	mock.Mock
}

func (m *PostServiceMock) ListPosts(ctx context.Context, search, category string) ([]models.CategoryGroup, error) {
	args := m.Called(ctx, search, category)
	groups, _ := args.Get(0).([]models.CategoryGroup)
	return groups, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestListHandler_JSON(t *testing.T) {
	renderer, err := view.New(newNoopLogger())
	require.NoError(t, err)

	groups := []models.CategoryGroup{
		{Category: "News", Posts: []models.Post{{ID: "b", Title: "B"}, {ID: "a", Title: "A"}}},
	}

	tests := []struct {
		name         string
		target       string
		search       string
		category     string
		wantCategory string
	}{
		{name: "no filters", target: "/", wantCategory: "All"},
		{name: "both filters", target: "/?search=go&category=Tech", search: "go", category: "Tech", wantCategory: "Tech"},
		{name: "all sentinel passes through", target: "/?category=All", category: "All", wantCategory: "All"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(PostServiceMock)
			svc.On("ListPosts", mock.Anything, tt.search, tt.category).Return(groups, nil).Once()

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Header.Set("Accept", "application/json")
			rec := httptest.NewRecorder()
			New(newNoopLogger(), svc, renderer).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			var got struct {
				Status string         `json:"status"`
				Data   view.Dashboard `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, "OK", got.Status)
			assert.Equal(t, tt.wantCategory, got.Data.SelectedCategory)
			require.Len(t, got.Data.Groups, 1)
			assert.Equal(t, "b", got.Data.Groups[0].Posts[0].ID)
			svc.AssertExpectations(t)
		})
	}
}

func TestListHandler_HTML(t *testing.T) {
	renderer, err := view.New(newNoopLogger())
	require.NoError(t, err)

	svc := new(PostServiceMock)
	svc.On("ListPosts", mock.Anything, "", "").Return([]models.CategoryGroup{
		{Category: "News", Posts: []models.Post{{ID: "p1", Title: "Hello world"}}},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middlewarectx.WithSnapshot(req.Context(), &models.Snapshot{Username: "alice"}))
	rec := httptest.NewRecorder()
	New(newNoopLogger(), svc, renderer).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Hello world")
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, `action="/create-post"`)
}

func TestListHandler_StoreError(t *testing.T) {
	renderer, err := view.New(newNoopLogger())
	require.NoError(t, err)

	svc := new(PostServiceMock)
	svc.On("ListPosts", mock.Anything, "", "").Return(nil, errors.New("db down"))

	rec := httptest.NewRecorder()
	New(newNoopLogger(), svc, renderer).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error fetching posts")
	assert.NotContains(t, rec.Body.String(), "db down")
}
