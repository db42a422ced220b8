package models

import (
	"slices"
	"time"
)

// ReactionKind определяет, в какой набор реакций попадает пользователь.
type ReactionKind string

const (
	// Like — набор лайков поста.
	Like ReactionKind = "like"
	// Dislike — набор дизлайков поста.
	Dislike ReactionKind = "dislike"
)

// Comment — запись комментария. Отдельного времени создания у комментария нет.
type Comment struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
	Author string `json:"author,omitempty"`
}

// Post представляет пользовательскую публикацию со ссылкой, категорией
// и социальными метаданными.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Likes     []string  `json:"likes"`
	Dislikes  []string  `json:"dislikes"`
	Comments  []Comment `json:"comments"`
	Image     *Image    `json:"image,omitempty"`
}

// LikedBy сообщает, есть ли userID в наборе лайков.
func (p Post) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// DislikedBy сообщает, есть ли userID в наборе дизлайков.
func (p Post) DislikedBy(userID string) bool {
	return slices.Contains(p.Dislikes, userID)
}

// HasImage сообщает, приложено ли к посту изображение.
// В выборках ленты Data не загружается, заполнен только ContentType.
func (p Post) HasImage() bool {
	return p.Image != nil
}

// PostFilter — параметры выборки постов для ленты.
// Пустые поля означают отсутствие фильтра.
type PostFilter struct {
	Search   string
	Category string
}

// CategoryGroup — посты одной категории в порядке ленты.
type CategoryGroup struct {
	Category string `json:"category"`
	Posts    []Post `json:"posts"`
}
