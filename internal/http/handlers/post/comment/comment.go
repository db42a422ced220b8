// Package comment реализует добавление комментария к посту.
package comment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/linkforum/internal/http/form"
	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Service описывает добавление комментария.
type Service interface {
	AddComment(ctx context.Context, postID, userID, text string) (*models.Post, error)
}

// Handler обрабатывает POST /comment/{postId}.
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
// @Summary Комментарий к посту
// @Tags Posts
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param postId path string true "ID поста"
// @Param text formData string false "Текст комментария"
// @Success 201 {object} response.Response{data=models.Post} "Комментарий добавлен"
// @Failure 302 "Нет сессии, редирект на /login"
// @Failure 400 {object} response.Response "Некорректная форма"
// @Failure 404 {object} response.Response "Пост не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Security SessionCookie
// @Router /comment/{postId} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.comment"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.SnapshotFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	postID := chi.URLParam(r, "postId")

	if err := form.Parse(w, r, h.maxBytes); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		view.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.service.AddComment(r.Context(), postID, user.UserID, r.PostFormValue("text"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("post not found", slog.String("post_id", postID))
			view.Fail(w, r, http.StatusNotFound, "Post not found")
			return
		}
		log.Error("failed to add comment", sl.Err(err))
		view.Fail(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	view.Done(w, r, http.StatusCreated, "/", post)
}
