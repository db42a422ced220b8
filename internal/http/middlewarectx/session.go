// Package middlewarectx содержит HTTP middleware форума: загрузку сессии
// в контекст запроса, проверку входа и ограничение частоты запросов.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Session — ключ снимка сессии в контексте.
const Session Key = "session"

// SessionLoader находит снимок пользователя по значению cookie.
type SessionLoader interface {
	Lookup(ctx context.Context, cookie string) (*models.Snapshot, error)
}

// LoadSession кладёт снимок сессии в контекст, если cookie валидна.
// Запрос без сессии или с истёкшей сессией проходит дальше анонимным.
// Сбой хранилища сессий завершает запрос с 500.
func LoadSession(log *slog.Logger, sessions SessionLoader, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.LoadSession"

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			snapshot, err := sessions.Lookup(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, models.ErrAuthRequired) {
					next.ServeHTTP(w, r)
					return
				}
				log.Error("failed to load session",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				view.Fail(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSnapshot(r.Context(), snapshot)))
		})
	}
}

// WithSnapshot возвращает контекст со снимком сессии.
func WithSnapshot(ctx context.Context, snapshot *models.Snapshot) context.Context {
	return context.WithValue(ctx, Session, snapshot)
}

// SnapshotFrom достаёт снимок сессии из контекста.
func SnapshotFrom(ctx context.Context) (*models.Snapshot, bool) {
	snapshot, ok := ctx.Value(Session).(*models.Snapshot)
	return snapshot, ok && snapshot != nil
}

// RequireAuth пропускает только запросы с сессией, остальных отправляет на /login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SnapshotFrom(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
