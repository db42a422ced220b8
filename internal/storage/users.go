package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/linkforum/internal/models"
)

const userColumns = `id, username, email, password_hash, bio, avatar_content_type, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var (
		u           models.User
		contentType sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &contentType, &u.CreatedAt); err != nil {
		return nil, err
	}
	if contentType.Valid {
		u.Avatar = &models.Image{ContentType: contentType.String}
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Повтор email отсекается уникальным индексом и возвращается как ErrDuplicateEmail.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	if err := ctxDone(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO users (username, email, password_hash, bio)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var id string
	err := s.DB.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Bio).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, models.ErrDuplicateEmail)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetUserByEmail ищет пользователя по email (точное совпадение).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// GetUser ищет пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	id, ok := validID(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// GetUserByUsername ищет пользователя по имени. Имена не уникальны,
// при совпадении возвращается зарегистрированный раньше.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 ORDER BY created_at, id LIMIT 1`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// UpdateProfile частично обновляет профиль: nil-поля не изменяются.
func (s *Storage) UpdateProfile(ctx context.Context, id string, bio *string, avatar *models.Image) (*models.User, error) {
	const op = "storage.UpdateProfile"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	id, ok := validID(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	data, contentType := nullableBytes(avatar)
	query := `UPDATE users SET
				bio = COALESCE($2, bio),
				avatar = COALESCE($3, avatar),
				avatar_content_type = COALESCE($4, avatar_content_type)
			  WHERE id = $1
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query, id, bio, data, contentType)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// GetUserAvatar возвращает аватар пользователя вместе с данными.
func (s *Storage) GetUserAvatar(ctx context.Context, username string) (*models.Image, error) {
	const op = "storage.GetUserAvatar"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	var img models.Image
	err := s.DB.QueryRowContext(ctx, `
		SELECT avatar, COALESCE(avatar_content_type, '') FROM users
		WHERE username = $1 AND avatar IS NOT NULL
		ORDER BY created_at, id LIMIT 1`, username).Scan(&img.Data, &img.ContentType)
	if err != nil {
		return nil, notFound(op, err)
	}
	return &img, nil
}
