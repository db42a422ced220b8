package register

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Service описывает регистрацию пользователя.
type Service interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
}

// Renderer рендерит страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page)
}
