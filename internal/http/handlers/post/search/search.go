// Package search реализует страницу результатов поиска по заголовку.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Service описывает поиск постов.
type Service interface {
	SearchPosts(ctx context.Context, search string) ([]models.Post, error)
}

// Renderer рендерит страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page)
}

// Handler обрабатывает GET /search.
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
// @Summary Поиск постов
// @Tags Posts
// @Produce  json
// @Produce  html
// @Param search query string false "Подстрока заголовка"
// @Success 200 {object} response.Response{data=view.SearchResults} "Результаты поиска"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	text := r.URL.Query().Get("search")
	results, err := h.service.SearchPosts(r.Context(), text)
	if err != nil {
		log.Error("failed to search posts", sl.Err(err))
		view.Fail(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, _ := middlewarectx.SnapshotFrom(r.Context())
	h.view.Render(w, r, http.StatusOK, view.PageSearch, view.Page{
		User: user,
		Data: view.SearchResults{Search: text, Results: results},
	})
}
