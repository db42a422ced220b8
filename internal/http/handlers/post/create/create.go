// Package create реализует HTTP-обработчик создания поста.
//
// Форма отправляется как multipart/form-data: title, link, category,
// content и необязательное изображение image. Один обработчик обслуживает
// /create-post, /post-link и /post-description.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/linkforum/internal/http/form"
	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/http/response"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
	services "github.com/magabrotheeeer/linkforum/internal/services/post"
)

// Service описывает создание поста.
type Service interface {
	CreatePost(ctx context.Context, in services.CreatePostInput) (*models.Post, error)
}

// Renderer рендерит страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page)
}

// Request — поля формы нового поста.
type Request struct {
	Title    string `validate:"required"`
	Link     string
	Category string `validate:"required"`
	Content  string
}

// Handler обрабатывает POST /create-post.
type Handler struct {
	log      *slog.Logger
	service  Service
	view     Renderer
	validate *validator.Validate
	maxBytes int64
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, renderer Renderer, maxBytes int64) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		view:     renderer,
		validate: validator.New(),
		maxBytes: maxBytes,
	}
}

// ServeHTTP godoc
// @Summary Создание поста
// @Description Создаёт пост со ссылкой, описанием и необязательным изображением.
// @Tags Posts
// @Accept  multipart/form-data
// @Produce  json
// @Param title formData string true "Заголовок"
// @Param category formData string true "Категория"
// @Param link formData string false "Ссылка"
// @Param content formData string false "Описание"
// @Param image formData file false "Изображение"
// @Success 201 {object} response.Response{data=models.Post} "Пост создан"
// @Failure 302 "Нет сессии, редирект на /login"
// @Failure 400 {object} response.Response "Некорректная форма"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Security SessionCookie
// @Router /create-post [post]
// @Router /post-link [post]
// @Router /post-description [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.create"

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
	req := Request{
		Title:    r.PostFormValue("title"),
		Link:     r.PostFormValue("link"),
		Category: r.PostFormValue("category"),
		Content:  r.PostFormValue("content"),
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		h.view.Render(w, r, http.StatusUnprocessableEntity, view.PageDashboard, view.Page{
			User:  user,
			Error: response.ValidationMessage(err.(validator.ValidationErrors)),
			Data:  view.Dashboard{Groups: []models.CategoryGroup{}, SelectedCategory: "All"},
		})
		return
	}

	img, err := form.Image(r, "image")
	if err != nil {
		log.Error("failed to read image", sl.Err(err))
		view.Fail(w, r, http.StatusBadRequest, "invalid image")
		return
	}

	post, err := h.service.CreatePost(r.Context(), services.CreatePostInput{
		Title:    req.Title,
		Link:     req.Link,
		Category: req.Category,
		Content:  req.Content,
		UserID:   user.UserID,
		Image:    img,
	})
	if err != nil {
		log.Error("failed to create post", sl.Err(err))
		view.Fail(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info("post created", slog.String("post_id", post.ID))
	view.Done(w, r, http.StatusCreated, "/", post)
}
