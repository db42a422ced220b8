// Package services реализует просмотр и редактирование профилей.
package services

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/linkforum/internal/models"
)

// ProfileRepository определяет методы хранилища, нужные профилю.
type ProfileRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, bio *string, avatar *models.Image) (*models.User, error)
	GetUserAvatar(ctx context.Context, username string) (*models.Image, error)
	ListPostsByUser(ctx context.Context, userID string) ([]models.Post, error)
}

// Profile — пользователь вместе с его постами.
type Profile struct {
	User  *models.User  `json:"user"`
	Posts []models.Post `json:"posts"`
}

// ProfileService реализует операции с профилем.
type ProfileService struct {
	repo ProfileRepository
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Public возвращает профиль по имени пользователя.
func (s *ProfileService) Public(ctx context.Context, username string) (*Profile, error) {
	const op = "services.profile.Public"
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.withPosts(ctx, op, user)
}

// Own возвращает профиль текущего пользователя. Данные читаются из хранилища,
// а не из снимка сессии.
func (s *ProfileService) Own(ctx context.Context, userID string) (*Profile, error) {
	const op = "services.profile.Own"
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.withPosts(ctx, op, user)
}

func (s *ProfileService) withPosts(ctx context.Context, op string, user *models.User) (*Profile, error) {
	posts, err := s.repo.ListPostsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Profile{User: user, Posts: posts}, nil
}

// UpdateProfile меняет только переданные поля. Снимок сессии не обновляется.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, bio *string, avatar *models.Image) (*models.User, error) {
	const op = "services.profile.UpdateProfile"
	user, err := s.repo.UpdateProfile(ctx, userID, bio, avatar)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Avatar возвращает аватар пользователя или models.ErrNotFound.
func (s *ProfileService) Avatar(ctx context.Context, username string) (*models.Image, error) {
	const op = "services.profile.Avatar"
	img, err := s.repo.GetUserAvatar(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return img, nil
}
