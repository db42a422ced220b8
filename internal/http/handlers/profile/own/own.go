// Package own реализует страницу собственного профиля /profile.
// Данные читаются из хранилища, поэтому правки видны сразу,
// даже если снимок сессии устарел.
package own

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	services "github.com/magabrotheeeer/linkforum/internal/services/profile"
)

// Service описывает чтение профиля текущего пользователя.
type Service interface {
	Own(ctx context.Context, userID string) (*services.Profile, error)
}

// Renderer рендерит страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page)
}

// Handler обрабатывает GET /profile.
type Handler struct {
	log     *slog.Logger
	service Service
	view    Renderer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, renderer Renderer) *Handler {
	return &Handler{
		log:     log,
		service: service,
		view:    renderer,
	}
}

// ServeHTTP godoc
// @Summary Собственный профиль
// @Tags Profiles
// @Produce  json
// @Produce  html
// @Success 200 {object} response.Response{data=view.Profile} "Профиль"
// @Failure 302 "Нет сессии, редирект на /login"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Security SessionCookie
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.own"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.SnapshotFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	profile, err := h.service.Own(r.Context(), user.UserID)
	if err != nil {
		log.Error("failed to load own profile", sl.Err(err), slog.String("user_id", user.UserID))
		view.Fail(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.view.Render(w, r, http.StatusOK, view.PageProfile, view.Page{
		User: user,
		Data: view.Profile{User: profile.User, Posts: profile.Posts, Own: true},
	})
}
