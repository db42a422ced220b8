// Package logout реализует выход: сессия уничтожается, cookie сбрасывается.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/linkforum/internal/http/cookie"
)

// Service описывает завершение сессии.
type Service interface {
	Logout(ctx context.Context, cookie string)
}

// Handler обрабатывает GET /logout.
type Handler struct {
	log     *slog.Logger
	service Service
	cookie  cookie.Settings
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, settings cookie.Settings) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cookie:  settings,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Удаляет сессию, стирает cookie и перенаправляет на /.
// @Tags Auth
// @Success 302 "Редирект на главную"
// @Router /logout [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	h.service.Logout(r.Context(), h.cookie.Value(r))
	h.cookie.Clear(w)

	h.log.Info("logged out",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	http.Redirect(w, r, "/login", http.StatusFound)
}
