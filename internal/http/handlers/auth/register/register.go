// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Форма содержит username, email и password. При занятом email форма
// показывается повторно с ошибкой; после успешной регистрации пользователь
// перенаправляется на главную без входа в систему.
package register

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/linkforum/internal/http/form"
	"github.com/magabrotheeeer/linkforum/internal/http/response"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Request — поля формы регистрации.
// Формат email и длина имени не проверяются: форум принимает любые непустые значения.
type Request struct {
	Username string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// Handler обрабатывает POST /register и POST /sign.
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
// @Summary Регистрация пользователя
// @Description Создаёт пользователя. Сессия не создаётся, браузер перенаправляется на /.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param username formData string true "Имя пользователя"
// @Param email formData string true "Email"
// @Param password formData string true "Пароль"
// @Success 201 {object} response.Response{data=models.User} "Пользователь создан"
// @Failure 400 {object} response.Response "Некорректная форма"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 409 {object} response.Response "Email уже зарегистрирован"
// @Failure 429 {object} response.Response "Слишком много запросов"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /register [post]
// @Router /sign [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		h.view.Render(w, r, http.StatusUnprocessableEntity, view.PageAuth,
			view.Page{Error: response.ValidationMessage(err.(validator.ValidationErrors))})
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			log.Info("email already registered")
			h.view.Render(w, r, http.StatusConflict, view.PageAuth, view.Page{Error: "Email already registered"})
			return
		}
		log.Error("failed to register user", sl.Err(err))
		h.view.Render(w, r, http.StatusInternalServerError, view.PageAuth, view.Page{Error: "Internal server error"})
		return
	}

	log.Info("user registered", slog.String("user_id", user.ID))
	view.Done(w, r, http.StatusCreated, "/", user)
}
