package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/linkforum/internal/migrations"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	t.Cleanup(func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return storage
}

// testDataFactory создаёт тестовые записи через публичные методы Storage.
type testDataFactory struct {
	storage *Storage
}

func (f *testDataFactory) createUser(t *testing.T, username, email string) string {
	t.Helper()
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) createPost(t *testing.T, userID, title, category string) *models.Post {
	t.Helper()
	post, err := f.storage.CreatePost(context.Background(), models.Post{
		Title:    title,
		Link:     "https://example.com/" + title,
		Category: category,
		UserID:   userID,
	})
	require.NoError(t, err)
	return post
}

// setCreatedAt переносит время создания поста, чтобы порядок не зависел от скорости вставки.
func (f *testDataFactory) setCreatedAt(t *testing.T, postID string, at time.Time) {
	t.Helper()
	_, err := f.storage.DB.Exec(`UPDATE posts SET created_at = $2 WHERE id = $1`, postID, at)
	require.NoError(t, err)
}
