// Package form разбирает тела HTML-форм: urlencoded и multipart с файлами.
package form

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/magabrotheeeer/linkforum/internal/models"
)

// Parse разбирает тело формы не больше maxBytes байт.
// Принимает как multipart/form-data, так и application/x-www-form-urlencoded.
func Parse(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	const op = "form.Parse"
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	err := r.ParseMultipartForm(maxBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Image читает загруженный файл поля field. Отсутствие файла не ошибка: (nil, nil).
// Размер и тип не проверяются, content-type берётся из заголовка части.
func Image(r *http.Request, field string) (*models.Image, error) {
	const op = "form.Image"
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &models.Image{Data: data, ContentType: header.Header.Get("Content-Type")}, nil
}

// Optional возвращает указатель на значение поля, если поле присутствует в форме.
func Optional(r *http.Request, field string) *string {
	values, ok := r.PostForm[field]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
