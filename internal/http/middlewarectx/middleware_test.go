package middlewarectx_test

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
	"github.com/magabrotheeeer/linkforum/internal/models"
)

type SessionLoaderMock struct {
	mock.Mock
}

func (m *SessionLoaderMock) Lookup(ctx context.Context, cookie string) (*models.Snapshot, error) {
	args := m.Called(ctx, cookie)
	snap, _ := args.Get(0).(*models.Snapshot)
	return snap, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoadSession(t *testing.T) {
	alice := &models.Snapshot{UserID: "u1", Username: "alice"}

	tests := []struct {
		name     string
		cookie   string
		mockSnap *models.Snapshot
		mockErr  error
		wantUser string
		wantCode int
	}{
		{name: "no cookie", wantCode: http.StatusOK},
		{name: "valid session", cookie: "good", mockSnap: alice, wantUser: "alice", wantCode: http.StatusOK},
		{name: "expired session", cookie: "old", mockErr: models.ErrAuthRequired, wantCode: http.StatusOK},
		{name: "store failure", cookie: "good", mockErr: errors.New("redis down"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := new(SessionLoaderMock)
			if tt.cookie != "" {
				loader.On("Lookup", mock.Anything, tt.cookie).Return(tt.mockSnap, tt.mockErr).Once()
			}

			var gotUser string
			called := false
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				called = true
				if snap, ok := middlewarectx.SnapshotFrom(r.Context()); ok {
					gotUser = snap.Username
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sid", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			middlewarectx.LoadSession(newNoopLogger(), loader, "sid")(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode == http.StatusOK, called)
			assert.Equal(t, tt.wantUser, gotUser)
			loader.AssertExpectations(t)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := middlewarectx.RequireAuth(next)

	t.Run("anonymous is redirected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/like-post/1", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("logged in passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/like-post/1", nil)
		req = req.WithContext(middlewarectx.WithSnapshot(req.Context(), &models.Snapshot{UserID: "u1"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestSnapshotFrom_NilSnapshot(t *testing.T) {
	ctx := middlewarectx.WithSnapshot(context.Background(), nil)
	_, ok := middlewarectx.SnapshotFrom(ctx)
	assert.False(t, ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 2)(next)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddleware_RejectionFormat(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("browser gets plain text", func(t *testing.T) {
		h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 0)(next)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Equal(t, "Too many requests\n", rec.Body.String())
	})

	t.Run("json client gets envelope", func(t *testing.T) {
		h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 0)(next)
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Error", got["status"])
		assert.Equal(t, "Too many requests", got["error"])
	})
}
