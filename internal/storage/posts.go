package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/linkforum/internal/models"
)

const postColumns = `p.id, p.title, p.link, p.category, p.content, p.user_id,
	COALESCE(u.username, ''), p.created_at,
	COALESCE(array_to_string(p.likes, ','), ''),
	COALESCE(array_to_string(p.dislikes, ','), ''),
	p.image_content_type`

const postFrom = ` FROM posts p LEFT JOIN users u ON u.id = p.user_id`

// titleMatch — регистронезависимое вхождение подстроки без интерпретации
// спецсимволов. Пустая строка совпадает с любым заголовком.
const titleMatch = `POSITION(LOWER($1) IN LOWER(p.title)) > 0`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p                models.Post
		likes, dislikes  string
		imageContentType sql.NullString
	)
	err := row.Scan(&p.ID, &p.Title, &p.Link, &p.Category, &p.Content, &p.UserID,
		&p.Author, &p.CreatedAt, &likes, &dislikes, &imageContentType)
	if err != nil {
		return nil, err
	}
	p.Likes = splitIDs(likes)
	p.Dislikes = splitIDs(dislikes)
	p.Comments = []models.Comment{}
	if imageContentType.Valid {
		p.Image = &models.Image{ContentType: imageContentType.String}
	}
	return &p, nil
}

func (s *Storage) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadComments заполняет комментарии постов в порядке добавления.
func (s *Storage) loadComments(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	index := make(map[string]int, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
		index[posts[i].ID] = i
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT c.post_id, c.text, c.user_id, COALESCE(u.username, '')
		FROM comments c LEFT JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ANY($1::uuid[])
		ORDER BY c.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID string
			c      models.Comment
		)
		if err = rows.Scan(&postID, &c.Text, &c.UserID, &c.Author); err != nil {
			return err
		}
		if i, ok := index[postID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	return rows.Err()
}

// CreatePost сохраняет пост. Время создания проставляет база.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	const op = "storage.CreatePost"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	userID, ok := validID(post.UserID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	data, contentType := nullableBytes(post.Image)
	var id string
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO posts (title, link, category, content, user_id, image, image_content_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		post.Title, post.Link, post.Category, post.Content, userID, data, contentType).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetPost возвращает пост с авторами и комментариями.
func (s *Storage) GetPost(ctx context.Context, id string) (*models.Post, error) {
	const op = "storage.GetPost"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	id, ok := validID(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+postColumns+postFrom+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		return nil, notFound(op, err)
	}
	posts := []models.Post{*p}
	if err = s.loadComments(ctx, posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &posts[0], nil
}

// ListPosts выбирает посты ленты: фильтр по заголовку и точной категории,
// сначала новые. Авторы постов и комментариев подставлены.
func (s *Storage) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	const op = "storage.ListPosts"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + postColumns + postFrom + `
		WHERE ` + titleMatch + ` AND ($2 = '' OR p.category = $2)
		ORDER BY p.created_at DESC, p.id`
	posts, err := s.queryPosts(ctx, query, filter.Search, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = s.loadComments(ctx, posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return posts, nil
}

// SearchPosts выбирает посты по заголовку в естественном порядке хранилища,
// без сортировки и без подстановки имён.
func (s *Storage) SearchPosts(ctx context.Context, text string) ([]models.Post, error) {
	const op = "storage.SearchPosts"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT p.id, p.title, p.link, p.category, p.content, p.user_id,
			'', p.created_at,
			COALESCE(array_to_string(p.likes, ','), ''),
			COALESCE(array_to_string(p.dislikes, ','), ''),
			p.image_content_type
		FROM posts p WHERE ` + titleMatch
	posts, err := s.queryPosts(ctx, query, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return posts, nil
}

// ListPostsByUser возвращает посты пользователя, сначала новые.
func (s *Storage) ListPostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	const op = "storage.ListPostsByUser"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	userID, ok := validID(userID)
	if !ok {
		return []models.Post{}, nil
	}

	posts, err := s.queryPosts(ctx,
		`SELECT `+postColumns+postFrom+` WHERE p.user_id = $1 ORDER BY p.created_at DESC, p.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = s.loadComments(ctx, posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return posts, nil
}

// ToggleReaction атомарно добавляет userID в набор реакций kind или убирает его оттуда.
// Наборы лайков и дизлайков независимы.
func (s *Storage) ToggleReaction(ctx context.Context, postID, userID string, kind models.ReactionKind) (*models.Post, error) {
	const op = "storage.ToggleReaction"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	postID, ok := validID(postID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	userID, ok = validID(userID)
	if !ok {
		return nil, fmt.Errorf("%s: invalid user id", op)
	}

	var query string
	switch kind {
	case models.Like:
		query = `UPDATE posts SET likes = CASE
				WHEN $2::uuid = ANY(likes) THEN array_remove(likes, $2::uuid)
				ELSE array_append(likes, $2::uuid) END
			WHERE id = $1 RETURNING id`
	case models.Dislike:
		query = `UPDATE posts SET dislikes = CASE
				WHEN $2::uuid = ANY(dislikes) THEN array_remove(dislikes, $2::uuid)
				ELSE array_append(dislikes, $2::uuid) END
			WHERE id = $1 RETURNING id`
	default:
		return nil, fmt.Errorf("%s: unknown reaction kind %q", op, kind)
	}

	var id string
	if err := s.DB.QueryRowContext(ctx, query, postID, userID).Scan(&id); err != nil {
		return nil, notFound(op, err)
	}

	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return post, nil
}

// AddComment добавляет комментарий в конец последовательности комментариев поста.
func (s *Storage) AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	const op = "storage.AddComment"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	postID, ok := validID(postID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	userID, ok := validID(comment.UserID)
	if !ok {
		return nil, fmt.Errorf("%s: invalid user id", op)
	}

	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO comments (post_id, user_id, text)
		SELECT id, $2::uuid, $3::text FROM posts WHERE id = $1`,
		postID, userID, comment.Text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return post, nil
}

// GetPostImage возвращает изображение поста вместе с данными.
func (s *Storage) GetPostImage(ctx context.Context, postID string) (*models.Image, error) {
	const op = "storage.GetPostImage"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}
	postID, ok := validID(postID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	var img models.Image
	err := s.DB.QueryRowContext(ctx, `
		SELECT image, COALESCE(image_content_type, '') FROM posts
		WHERE id = $1 AND image IS NOT NULL`, postID).Scan(&img.Data, &img.ContentType)
	if err != nil {
		return nil, notFound(op, err)
	}
	return &img, nil
}
