// Package avatar отдаёт аватар пользователя.
package avatar

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Service описывает чтение аватара.
type Service interface {
	Avatar(ctx context.Context, username string) (*models.Image, error)
}

// Handler обрабатывает GET /avatar/{username}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Аватар пользователя
// @Tags Profiles
// @Produce  octet-stream
// @Param username path string true "Имя пользователя"
// @Success 200 {file} binary "Аватар"
// @Failure 404 "Аватара нет"
// @Router /avatar/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.avatar"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	username := chi.URLParam(r, "username")

	img, err := h.service.Avatar(r.Context(), username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Error("failed to load avatar", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	view.Blob(w, img)
}
