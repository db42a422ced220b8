package linkforum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/linkforum/internal/activity"
	"github.com/magabrotheeeer/linkforum/internal/cache"
	"github.com/magabrotheeeer/linkforum/internal/config"
	"github.com/magabrotheeeer/linkforum/internal/http/handlers/health"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/jwt"
	"github.com/magabrotheeeer/linkforum/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/migrations"
	authservice "github.com/magabrotheeeer/linkforum/internal/services/auth"
	postservice "github.com/magabrotheeeer/linkforum/internal/services/post"
	profileservice "github.com/magabrotheeeer/linkforum/internal/services/profile"
	sessionservice "github.com/magabrotheeeer/linkforum/internal/services/session"
	"github.com/magabrotheeeer/linkforum/internal/storage"
)

// App — HTTP-сервер форума вместе с открытыми соединениями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	amqp   *amqp.Connection
}

// New подключается к хранилищам, применяет миграции и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "linkforum.New"

	renderer, err := view.New(logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		events   activity.Publisher = activity.Nop{}
		amqpConn *amqp.Connection
	)
	if cfg.RabbitMQ.URL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.RabbitMQ.URL, 5, 2*time.Second)
		if err != nil {
			_ = db.Close()
			_ = cacheRedis.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ch, err := rabbitmq.SetupExchange(amqpConn, cfg.Exchange)
		if err != nil {
			_ = amqpConn.Close()
			_ = db.Close()
			_ = cacheRedis.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = activity.NewAMQPPublisher(ch, cfg.Exchange, logger)
		logger.Info("activity events enabled", slog.String("exchange", cfg.Exchange))
	}

	sessions := sessionservice.NewSessionService(cacheRedis, jwt.NewJWTMaker(cfg.Secret, cfg.TTL), cfg.TTL)
	svc := Services{
		Auth:     authservice.NewAuthService(db, sessions, logger),
		Sessions: sessions,
		Posts:    postservice.NewPostService(db, events, logger),
		Profiles: profileservice.NewProfileService(db),
		Checks:   map[string]health.Pinger{"postgres": db, "redis": cacheRedis},
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, renderer, svc)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		amqp:   amqpConn,
	}, nil
}

// Run запускает сервер и блокируется до отмены ctx или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Error("failed to close amqp connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
