// Package services содержит бизнес-логику ленты: выборку и группировку постов,
// создание постов, реакции и комментарии.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/magabrotheeeer/linkforum/internal/activity"
	"github.com/magabrotheeeer/linkforum/internal/metrics"
	"github.com/magabrotheeeer/linkforum/internal/models"
)

// AllCategories — значение фильтра категории, означающее отсутствие фильтра.
const AllCategories = "All"

// PostRepository определяет методы хранилища постов.
type PostRepository interface {
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	SearchPosts(ctx context.Context, text string) ([]models.Post, error)
	ToggleReaction(ctx context.Context, postID, userID string, kind models.ReactionKind) (*models.Post, error)
	AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error)
	GetPostImage(ctx context.Context, postID string) (*models.Image, error)
}

// CreatePostInput — данные нового поста.
type CreatePostInput struct {
	Title    string
	Link     string
	Category string
	Content  string
	UserID   string
	Image    *models.Image
}

// PostService реализует операции над постами.
type PostService struct {
	repo   PostRepository
	events activity.Publisher
	log    *slog.Logger
}

// NewPostService создает новый экземпляр PostService.
func NewPostService(repo PostRepository, events activity.Publisher, log *slog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// ListPosts возвращает ленту, сгруппированную по категориям.
// Пустая категория и AllCategories не ограничивают выборку.
func (s *PostService) ListPosts(ctx context.Context, search, category string) ([]models.CategoryGroup, error) {
	const op = "services.post.ListPosts"

	if category == AllCategories {
		category = ""
	}
	posts, err := s.repo.ListPosts(ctx, models.PostFilter{Search: search, Category: category})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slices.SortStableFunc(posts, func(a, b models.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return GroupByCategory(posts), nil
}

// GroupByCategory разбивает посты по категориям с сохранением порядка:
// группы идут в порядке первого поста каждой категории, посты внутри в исходном.
func GroupByCategory(posts []models.Post) []models.CategoryGroup {
	groups := []models.CategoryGroup{}
	index := make(map[string]int)
	for _, p := range posts {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, models.CategoryGroup{Category: p.Category})
		}
		groups[i].Posts = append(groups[i].Posts, p)
	}
	return groups
}

// SearchPosts возвращает посты по подстроке заголовка без сортировки и группировки.
func (s *PostService) SearchPosts(ctx context.Context, search string) ([]models.Post, error) {
	const op = "services.post.SearchPosts"
	posts, err := s.repo.SearchPosts(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return posts, nil
}

// CreatePost сохраняет пост от имени in.UserID.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const op = "services.post.CreatePost"

	post, err := s.repo.CreatePost(ctx, models.Post{
		Title:    in.Title,
		Link:     in.Link,
		Category: in.Category,
		Content:  in.Content,
		UserID:   in.UserID,
		Image:    in.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.PostsCreated.Inc()
	s.events.Publish(ctx, activity.KeyPostCreated, activity.PostCreated{
		PostID:   post.ID,
		UserID:   post.UserID,
		Title:    post.Title,
		Category: post.Category,
		At:       time.Now().UTC(),
	})
	return post, nil
}

// ToggleLike добавляет или снимает лайк пользователя.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.toggle(ctx, postID, userID, models.Like)
}

// ToggleDislike добавляет или снимает дизлайк пользователя. Лайк при этом не трогается.
func (s *PostService) ToggleDislike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.toggle(ctx, postID, userID, models.Dislike)
}

func (s *PostService) toggle(ctx context.Context, postID, userID string, kind models.ReactionKind) (*models.Post, error) {
	const op = "services.post.toggle"

	post, err := s.repo.ToggleReaction(ctx, postID, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	active := post.LikedBy(userID)
	if kind == models.Dislike {
		active = post.DislikedBy(userID)
	}
	metrics.ReactionsToggled.WithLabelValues(string(kind), metrics.Direction(active)).Inc()
	s.events.Publish(ctx, activity.KeyPostReacted, activity.PostReacted{
		PostID: post.ID,
		UserID: userID,
		Kind:   string(kind),
		Active: active,
		At:     time.Now().UTC(),
	})
	return post, nil
}

// AddComment добавляет комментарий в конец списка. Текст сохраняется как есть.
func (s *PostService) AddComment(ctx context.Context, postID, userID, text string) (*models.Post, error) {
	const op = "services.post.AddComment"

	post, err := s.repo.AddComment(ctx, postID, models.Comment{Text: text, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.CommentsAdded.Inc()
	s.events.Publish(ctx, activity.KeyPostCommented, activity.PostCommented{
		PostID: post.ID,
		UserID: userID,
		At:     time.Now().UTC(),
	})
	return post, nil
}

// PostImage возвращает изображение поста или models.ErrNotFound.
func (s *PostService) PostImage(ctx context.Context, postID string) (*models.Image, error) {
	const op = "services.post.PostImage"
	img, err := s.repo.GetPostImage(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return img, nil
}
