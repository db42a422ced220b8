// Package view рендерит страницы форума из встроенных html/template шаблонов.
// Клиент с Accept: application/json получает те же данные в формате response.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/linkforum/internal/http/response"
	"github.com/magabrotheeeer/linkforum/internal/lib/sl"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Имена страниц.
const (
	PageDashboard = "dashboard.html"
	PageSearch    = "search-results.html"
	PageAuth      = "login-register.html"
	PageProfile   = "profile.html"
	PageAbout     = "about-us.html"
	PageContact   = "contact-us.html"
	PagePrivacy   = "privacy-policy.html"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Page — данные, общие для всех страниц.
type Page struct {
	User  *models.Snapshot `json:"user,omitempty"`
	Error string           `json:"error,omitempty"`
	Data  any              `json:"data,omitempty"`
}

// Dashboard — данные главной страницы.
type Dashboard struct {
	Groups           []models.CategoryGroup `json:"groups"`
	Search           string                 `json:"search"`
	SelectedCategory string                 `json:"selected_category"`
}

// SearchResults — данные страницы результатов поиска.
type SearchResults struct {
	Search  string        `json:"search"`
	Results []models.Post `json:"results"`
}

// Profile — данные страницы профиля. Own включает форму редактирования.
type Profile struct {
	User  *models.User  `json:"user"`
	Posts []models.Post `json:"posts"`
	Own   bool          `json:"own"`
}

// Renderer хранит разобранные шаблоны страниц.
type Renderer struct {
	log   *slog.Logger
	pages map[string]*template.Template
	now   func() time.Time
}

// New разбирает все встроенные шаблоны.
func New(log *slog.Logger) (*Renderer, error) {
	const op = "view.New"

	v := &Renderer{
		log:   log,
		pages: make(map[string]*template.Template),
		now:   time.Now,
	}
	funcs := template.FuncMap{
		"timeAgo": func(t time.Time) string { return TimeAgo(t, v.now()) },
	}

	entries, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, path := range entries {
		name := strings.TrimPrefix(path, "templates/")
		if name == "layout.html" || strings.HasPrefix(name, "_") {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templatesFS, "templates/layout.html", "templates/_*.html", path)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		v.pages[name] = tmpl
	}
	return v, nil
}

// Render отдаёт страницу page со статусом status.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Page) {
	if WantsJSON(r) {
		render.Status(r, status)
		if data.Error != "" {
			render.JSON(w, r, response.Error(data.Error))
			return
		}
		render.JSON(w, r, response.OK(data.Data))
		return
	}

	const op = "view.Render"

	tmpl, ok := v.pages[page]
	if !ok {
		v.log.Error("unknown page", slog.String("op", op), slog.String("page", page))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		v.log.Error("failed to execute template", slog.String("op", op), slog.String("page", page), sl.Err(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	render.Status(r, status)
	render.HTML(w, r, buf.String())
}

// WantsJSON сообщает, просит ли клиент JSON вместо HTML.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Static раздаёт встроенные статические файлы. Монтируется под /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// TimeAgo описывает давность момента t относительно now.
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff / time.Minute)
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%d day(s) ago", days)
	case hours > 0:
		return fmt.Sprintf("%d hour(s) ago", hours)
	case minutes > 0:
		return fmt.Sprintf("%d minute(s) ago", minutes)
	default:
		return "Just now"
	}
}

// Done завершает успешную мутацию: браузер перенаправляется на location,
// JSON-клиент получает data со статусом status.
func Done(w http.ResponseWriter, r *http.Request, status int, location string, data any) {
	if WantsJSON(r) {
		render.Status(r, status)
		render.JSON(w, r, response.OK(data))
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// Fail отдаёт ошибку без страницы: текстом для браузера, конвертом response для JSON.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if WantsJSON(r) {
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	http.Error(w, msg, status)
}

// Blob отдаёт бинарные данные изображения. Заявленный при загрузке тип
// отдаётся как есть только для растровых image/*, остальное уходит вложением
// с application/octet-stream, чтобы загрузка не исполнялась в origin форума.
func Blob(w http.ResponseWriter, img *models.Image) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Security-Policy", "default-src 'none'; sandbox")
	h.Set("Cache-Control", "private, max-age=300")
	if contentType, ok := inlineImageType(img.ContentType); ok {
		h.Set("Content-Type", contentType)
	} else {
		h.Set("Content-Type", "application/octet-stream")
		h.Set("Content-Disposition", "attachment")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}

// inlineImageType нормализует content-type и сообщает, можно ли показать его inline.
// SVG исключён: он может содержать скрипты.
func inlineImageType(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(mediaType, "image/") || mediaType == "image/svg+xml" {
		return "", false
	}
	return mediaType, true
}
