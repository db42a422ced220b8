package logout

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/linkforum/internal/http/cookie"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Logout(ctx context.Context, cookie string) {
	m.Called(ctx, cookie)
}

func TestLogoutHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	settings := cookie.Settings{Name: "sid", TTL: time.Hour}

	tests := []struct {
		name   string
		cookie string
	}{
		{name: "with session", cookie: "signed"},
		{name: "without session", cookie: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			svc.On("Logout", mock.Anything, tt.cookie).Once()

			req := httptest.NewRequest(http.MethodGet, "/logout", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sid", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			New(logger, svc, settings).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, -1, cookies[0].MaxAge)
			svc.AssertExpectations(t)
		})
	}
}
