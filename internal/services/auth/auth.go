// Package services содержит сценарии аутентификации: регистрацию, вход и выход.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/linkforum/internal/lib/password"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/metrics"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или models.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Sessions описывает менеджер сессий.
type Sessions interface {
	Create(ctx context.Context, user *models.User) (string, error)
	Destroy(ctx context.Context, cookie string) error
}

// AuthService отвечает за регистрацию, вход и выход.
type AuthService struct {
	users    UserRepository
	sessions Sessions
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions Sessions, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

// Register создаёт пользователя с пустым профилем. Пароль сохраняется хэшем.
// Если email уже занят, возвращает models.ErrDuplicateEmail и ничего не сохраняет.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (*models.User, error) {
	const op = "services.auth.Register"

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateEmail)
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	}
	// Параллельная регистрация с тем же email отсекается уникальным индексом.
	user.ID, err = s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.UsersRegistered.Inc()
	s.log.Info("user registered", slog.String("user_id", user.ID))
	return &user, nil
}

// Login проверяет email и пароль и открывает сессию.
// Возвращает снимок пользователя и значение cookie.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.Snapshot, string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			metrics.Logins.WithLabelValues("invalid").Inc()
			return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err = password.Compare(user.PasswordHash, rawPassword); err != nil {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	cookie, err := s.sessions.Create(ctx, user)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	metrics.Logins.WithLabelValues("success").Inc()
	snapshot := models.NewSnapshot(user)
	return &snapshot, cookie, nil
}

// Logout уничтожает сессию. Ошибки хранилища только логируются.
func (s *AuthService) Logout(ctx context.Context, cookie string) {
	if cookie == "" {
		return
	}
	if err := s.sessions.Destroy(ctx, cookie); err != nil {
		s.log.Error("failed to destroy session", sl.Err(err))
	}
}
