// Package update реализует изменение профиля: bio и аватар.
// Поля, отсутствующие в форме, не меняются.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/linkforum/internal/http/form"
	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Service описывает изменение профиля.
type Service interface {
	UpdateProfile(ctx context.Context, userID string, bio *string, avatar *models.Image) (*models.User, error)
}

// Handler обрабатывает POST /update-profile.
type Handler struct {
	log      *slog.Logger
	service  Service
	maxBytes int64
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, maxBytes int64) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		maxBytes: maxBytes,
	}
}

// ServeHTTP godoc
// @Summary Обновление профиля
// @Description Меняет bio и аватар. Пустое поле оставляет прежнее значение.
// @Tags Profiles
// @Accept  multipart/form-data
// @Produce  json
// @Param bio formData string false "О себе"
// @Param avatar formData file false "Аватар"
// @Success 200 {object} response.Response{data=models.User} "Профиль обновлён"
// @Failure 302 "Нет сессии, редирект на /login"
// @Failure 400 {object} response.Response "Некорректная форма"
// @Failure 404 {object} response.Response "Пользователь не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Security SessionCookie
// @Router /update-profile [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.SnapshotFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := form.Parse(w, r, h.maxBytes); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		view.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	avatar, err := form.Image(r, "avatar")
	if err != nil {
		log.Error("failed to read avatar", sl.Err(err))
		view.Fail(w, r, http.StatusBadRequest, "invalid image")
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), user.UserID, form.Optional(r, "bio"), avatar)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("user not found", slog.String("user_id", user.UserID))
			view.Fail(w, r, http.StatusNotFound, "User not found")
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		view.Fail(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info("profile updated", slog.String("user_id", updated.ID))
	view.Done(w, r, http.StatusOK, "/profile", updated)
}
