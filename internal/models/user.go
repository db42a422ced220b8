// Package models содержит доменные модели форума: пользователя, пост,
// реакции, комментарии и снимок сессии, а также доменные ошибки.
package models

import "time"

// Image хранит бинарные данные загруженного файла вместе с заявленным content-type.
type Image struct {
	Data        []byte `json:"-"`
	ContentType string `json:"content_type"`
}

// User представляет зарегистрированного пользователя форума.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Avatar       *Image    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasAvatar сообщает, загружен ли у пользователя аватар.
func (u User) HasAvatar() bool {
	return u.Avatar != nil
}
