// Package list реализует главную страницу: ленту постов по категориям
// с фильтрами search и category из строки запроса.
package list

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

const allCategories = "All"

// Service описывает выборку ленты.
type Service interface {
	ListPosts(ctx context.Context, search, category string) ([]models.CategoryGroup, error)
}

// Renderer рендерит страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page)
}

// Handler обрабатывает GET /.
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
// @Summary Лента постов
// @Description Посты, сгруппированные по категориям. Фильтр по заголовку и категории.
// @Tags Posts
// @Produce  json
// @Produce  html
// @Param search query string false "Подстрока заголовка"
// @Param category query string false "Категория"
// @Success 200 {object} response.Response{data=view.Dashboard} "Лента"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	user, _ := middlewarectx.SnapshotFrom(r.Context())

	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	groups, err := h.service.ListPosts(r.Context(), search, category)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		h.view.Render(w, r, http.StatusInternalServerError, view.PageDashboard, view.Page{
			User:  user,
			Error: "Error fetching posts",
			Data:  view.Dashboard{Groups: []models.CategoryGroup{}, SelectedCategory: allCategories},
		})
		return
	}

	if category == "" {
		category = allCategories
	}
	h.view.Render(w, r, http.StatusOK, view.PageDashboard, view.Page{
		User: user,
		Data: view.Dashboard{Groups: groups, Search: search, SelectedCategory: category},
	})
}
