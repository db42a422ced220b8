// Package login реализует HTTP-обработчик входа по email и паролю.
//
// При успехе выставляется сессионная cookie и выполняется переход на главную.
// Неизвестный email и неверный пароль дают одинаковую ошибку.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/linkforum/internal/http/cookie"
	"github.com/magabrotheeeer/linkforum/internal/http/form"
	"github.com/magabrotheeeer/linkforum/internal/http/response"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Request — поля формы входа.
type Request struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// Service описывает вход пользователя.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.Snapshot, string, error)
}

// Renderer рендерит страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page)
}

// Handler обрабатывает POST /login.
type Handler struct {
	log      *slog.Logger
	service  Service
	view     Renderer
	cookie   cookie.Settings
	validate *validator.Validate
	maxBytes int64
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, renderer Renderer, settings cookie.Settings, maxBytes int64) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		view:     renderer,
		cookie:   settings,
		validate: validator.New(),
		maxBytes: maxBytes,
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль, создаёт сессию и ставит cookie. Браузер перенаправляется на /.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param email formData string true "Email"
// @Param password formData string true "Пароль"
// @Success 200 {object} response.Response{data=models.Snapshot} "Успешный вход"
// @Failure 400 {object} response.Response "Некорректная форма"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 401 {object} response.Response "Неверные учетные данные"
// @Failure 429 {object} response.Response "Слишком много запросов"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := form.Parse(w, r, h.maxBytes); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.view.Render(w, r, http.StatusBadRequest, view.PageAuth, view.Page{Error: "invalid request body"})
		return
	}
	req := Request{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		h.view.Render(w, r, http.StatusUnprocessableEntity, view.PageAuth,
			view.Page{Error: response.ValidationMessage(err.(validator.ValidationErrors))})
		return
	}

	snapshot, value, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Info("invalid credentials")
			h.view.Render(w, r, http.StatusUnauthorized, view.PageAuth, view.Page{Error: "Invalid email or password"})
			return
		}
		log.Error("login failed", sl.Err(err))
		h.view.Render(w, r, http.StatusInternalServerError, view.PageAuth, view.Page{Error: "Internal server error"})
		return
	}

	h.cookie.Set(w, value)
	log.Info("login success", slog.String("user_id", snapshot.UserID))
	view.Done(w, r, http.StatusOK, "/", snapshot)
}
