// Package cookie выставляет и сбрасывает сессионную cookie.
package cookie

import (
	"net/http"
	"time"
)

// Settings — параметры сессионной cookie.
type Settings struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Set записывает значение сессии в ответ.
func (s Settings) Set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear удаляет cookie на клиенте.
func (s Settings) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Value возвращает значение cookie из запроса или пустую строку.
func (s Settings) Value(r *http.Request) string {
	c, err := r.Cookie(s.Name)
	if err != nil {
		return ""
	}
	return c.Value
}
