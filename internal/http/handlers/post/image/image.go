// Package image отдаёт изображение поста.
package image

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

// Service описывает чтение изображения поста.
type Service interface {
	PostImage(ctx context.Context, postID string) (*models.Image, error)
}

// Handler обрабатывает GET /post-image/{postId}.
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
// @Summary Изображение поста
// @Tags Posts
// @Produce  octet-stream
// @Param postId path string true "ID поста"
// @Success 200 {file} binary "Изображение"
// @Failure 404 "Изображения нет"
// @Router /post-image/{postId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.image"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	postID := chi.URLParam(r, "postId")

	img, err := h.service.PostImage(r.Context(), postID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Error("failed to load post image", sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	view.Blob(w, img)
}
