// Package linkforum собирает зависимости форума и регистрирует маршруты.
package linkforum

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/linkforum/docs"
	"github.com/magabrotheeeer/linkforum/internal/config"
	"github.com/magabrotheeeer/linkforum/internal/http/cookie"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/health"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/pages"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/post/comment"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/post/create"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/post/image"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/post/list"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/post/react"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/post/search"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/profile/avatar"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/profile/own"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/profile/show"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/profile/update"
	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/metrics"
	"github.com/magabrotheeeer/linkforum/internal/models"
	authservice "github.com/magabrotheeeer/linkforum/internal/services/auth"
	postservice "github.com/magabrotheeeer/linkforum/internal/services/post"
	profileservice "github.com/magabrotheeeer/linkforum/internal/services/profile"
	sessionservice "github.com/magabrotheeeer/linkforum/internal/services/session"
)

// Services — сервисы, которые обслуживают маршруты.
type Services struct {
	Auth     *authservice.AuthService
	Sessions *sessionservice.SessionService
	Posts    *postservice.PostService
	Profiles *profileservice.ProfileService
	Checks   map[string]health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, renderer *view.Renderer, svc Services) {
	settings := cookie.Settings{Name: cfg.CookieName, TTL: cfg.TTL, Secure: cfg.Secure}
	maxBytes := cfg.MaxUploadBytes

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		metrics.Middleware,
		middlewarectx.LoadSession(logger, svc.Sessions, cfg.CookieName),
	)

	limited := r.With(middlewarectx.RateLimitMiddleware(logger, cfg.RPS, cfg.Burst))

	// Страницы без данных
	r.Get("/about-us", pages.New(renderer, view.PageAbout).ServeHTTP)
	r.Get("/contact-us", pages.New(renderer, view.PageContact).ServeHTTP)
	r.Get("/privacy-policy", pages.New(renderer, view.PagePrivacy).ServeHTTP)

	// Вход и регистрация
	authForm := pages.New(renderer, view.PageAuth)
	r.Get("/login", authForm.ServeHTTP)
	r.Get("/register", authForm.ServeHTTP)
	r.Get("/sign", authForm.ServeHTTP)

	registerHandler := register.New(logger, svc.Auth, renderer, maxBytes)
	limited.Post("/register", registerHandler.ServeHTTP)
	limited.Post("/sign", registerHandler.ServeHTTP)
	limited.Post("/login", login.New(logger, svc.Auth, renderer, settings, maxBytes).ServeHTTP)
	r.Get("/logout", logout.New(logger, svc.Auth, settings).ServeHTTP)

	// Лента и поиск
	r.Get("/", list.New(logger, svc.Posts, renderer).ServeHTTP)
	r.Get("/search", search.New(logger, svc.Posts, renderer).ServeHTTP)
	r.Get("/post-image/{postId}", image.New(logger, svc.Posts).ServeHTTP)

	// Профили
	r.Get("/profile/{username}", show.New(logger, svc.Profiles, renderer).ServeHTTP)
	r.Get("/avatar/{username}", avatar.New(logger, svc.Profiles).ServeHTTP)

	// Группа, доступная только после входа
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RequireAuth)

		r.Get("/profile", own.New(logger, svc.Profiles, renderer).ServeHTTP)
		r.Post("/update-profile", update.New(logger, svc.Profiles, maxBytes).ServeHTTP)

		createHandler := create.New(logger, svc.Posts, renderer, maxBytes)
		r.Post("/create-post", createHandler.ServeHTTP)
		r.Post("/post-link", createHandler.ServeHTTP)
		r.Post("/post-description", createHandler.ServeHTTP)

		r.Post("/like-post/{postId}", react.New(logger, svc.Posts, models.Like).ServeHTTP)
		r.Post("/dislike-post/{postId}", react.New(logger, svc.Posts, models.Dislike).ServeHTTP)
		r.Post("/comment/{postId}", comment.New(logger, svc.Posts, maxBytes).ServeHTTP)
	})

	r.Get("/health", health.New(logger, svc.Checks).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Handle("/static/*", view.Static())
}
