// Package services реализует менеджер сессий: снимок пользователя хранится
// в redis под непрозрачным токеном, а в cookie уходит подписанный JWT с этим токеном.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/linkforum/internal/lib/jwt"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

const keyPrefix = "session:"

// Cache описывает хранилище снимков сессий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// SessionService создаёт, находит и уничтожает сессии.
type SessionService struct {
	cache  Cache
	tokens jwt.Maker
	ttl    time.Duration
}

// NewSessionService создаёт SessionService. ttl задаёт срок жизни записи в хранилище,
// срок действия JWT задаётся в tokens и должен с ним совпадать.
func NewSessionService(cache Cache, tokens jwt.Maker, ttl time.Duration) *SessionService {
	return &SessionService{
		cache:  cache,
		tokens: tokens,
		ttl:    ttl,
	}
}

// Create сохраняет снимок пользователя и возвращает значение для cookie.
func (s *SessionService) Create(ctx context.Context, user *models.User) (string, error) {
	const op = "services.session.Create"

	sid := uuid.NewString()
	if err := s.cache.Set(ctx, keyPrefix+sid, models.NewSnapshot(user), s.ttl); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	cookie, err := s.tokens.GenerateToken(sid)
	if err != nil {
		_ = s.cache.Invalidate(ctx, keyPrefix+sid)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return cookie, nil
}

// Lookup возвращает снимок по значению cookie.
// Неверная подпись, истёкший токен или отсутствующая запись дают ErrAuthRequired.
func (s *SessionService) Lookup(ctx context.Context, cookie string) (*models.Snapshot, error) {
	const op = "services.session.Lookup"

	claims, err := s.tokens.ParseToken(cookie)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAuthRequired)
	}

	var snapshot models.Snapshot
	found, err := s.cache.Get(ctx, keyPrefix+claims.SessionID, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAuthRequired)
	}
	return &snapshot, nil
}

// Destroy удаляет сессию. Повторный вызов и чужая cookie не считаются ошибкой.
func (s *SessionService) Destroy(ctx context.Context, cookie string) error {
	const op = "services.session.Destroy"

	claims, err := s.tokens.ParseToken(cookie)
	if err != nil {
		return nil
	}
	if err = s.cache.Invalidate(ctx, keyPrefix+claims.SessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
