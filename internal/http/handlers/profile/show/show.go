// Package show реализует публичную страницу профиля /profile/{username}.
package show

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
	services "github.com/magabrotheeeer/linkforum/internal/services/profile"
)

// Service описывает чтение публичного профиля.
type Service interface {
	Public(ctx context.Context, username string) (*services.Profile, error)
}

// Renderer рендерит страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page)
}

// Handler обрабатывает GET /profile/{username}.
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
// @Summary Профиль пользователя
// @Tags Profiles
// @Produce  json
// @Produce  html
// @Param username path string true "Имя пользователя"
// @Success 200 {object} response.Response{data=view.Profile} "Профиль"
// @Failure 404 {object} response.Response "Пользователь не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /profile/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.show"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	username := chi.URLParam(r, "username")

	profile, err := h.service.Public(r.Context(), username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("user not found", slog.String("username", username))
			view.Fail(w, r, http.StatusNotFound, "User not found")
			return
		}
		log.Error("failed to load profile", sl.Err(err))
		view.Fail(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, _ := middlewarectx.SnapshotFrom(r.Context())
	own := user != nil && user.UserID == profile.User.ID
	h.view.Render(w, r, http.StatusOK, view.PageProfile, view.Page{
		User: user,
		Data: view.Profile{User: profile.User, Posts: profile.Posts, Own: own},
	})
}
