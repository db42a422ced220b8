// Package react реализует переключение лайка и дизлайка поста.
package react

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
)

// Service описывает переключение реакций.
type Service interface {
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	ToggleDislike(ctx context.Context, postID, userID string) (*models.Post, error)
}

// Handler обрабатывает POST /like-post/{postId} и POST /dislike-post/{postId}.
type Handler struct {
	log     *slog.Logger
	service Service
	kind    models.ReactionKind
}

// New создает обработчик для реакции kind.
func New(log *slog.Logger, service Service, kind models.ReactionKind) *Handler {
	return &Handler{
		log:     log,
		service: service,
		kind:    kind,
	}
}

// ServeHTTP godoc
// @Summary Лайк или дизлайк поста
// @Description Переключает реакцию текущего пользователя. Лайк и дизлайк взаимоисключающие.
// @Tags Posts
// @Produce  json
// @Param postId path string true "ID поста"
// @Success 200 {object} response.Response{data=models.Post} "Реакция переключена"
// @Failure 302 "Нет сессии, редирект на /login"
// @Failure 404 {object} response.Response "Пост не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Security SessionCookie
// @Router /like-post/{postId} [post]
// @Router /dislike-post/{postId} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.react"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("kind", string(h.kind)),
	)

	user, ok := middlewarectx.SnapshotFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	postID := chi.URLParam(r, "postId")

	toggle := h.service.ToggleLike
	if h.kind == models.Dislike {
		toggle = h.service.ToggleDislike
	}

	post, err := toggle(r.Context(), postID, user.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("post not found", slog.String("post_id", postID))
			view.Fail(w, r, http.StatusNotFound, "Post not found")
			return
		}
		log.Error("failed to toggle reaction", sl.Err(err))
		view.Fail(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	view.Done(w, r, http.StatusOK, "/", post)
}
