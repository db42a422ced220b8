// Package pages отдаёт страницы без данных: about-us, contact-us,
// privacy-policy и форму входа/регистрации.
package pages

import (
	"net/http"

	"github.com/magabrotheeeer/linkforum/internal/http/middlewarectx"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
)

// Renderer рендерит страницы.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data view.Page)
}

// Handler рендерит одну страницу.
type Handler struct {
	view Renderer
	page string
}

// New создает обработчик для страницы page.
func New(renderer Renderer, page string) *Handler {
	return &Handler{view: renderer, page: page}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewarectx.SnapshotFrom(r.Context())
	h.view.Render(w, r, http.StatusOK, h.page, view.Page{User: user})
}
