package linkforum

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/linkforum/internal/activity"
	"github.com/magabrotheeeer/linkforum/internal/cache"
	"github.com/magabrotheeeer/linkforum/internal/config"
	"github.com/magabrotheeeer/linkforum/internal/http/view"
	"github.com/magabrotheeeer/linkforum/internal/lib/jwt"
	"github.com/magabrotheeeer/linkforum/internal/models"
	authservice "github.com/magabrotheeeer/linkforum/internal/services/auth"
	postservice "github.com/magabrotheeeer/linkforum/internal/services/post"
	profileservice "github.com/magabrotheeeer/linkforum/internal/services/profile"
	sessionservice "github.com/magabrotheeeer/linkforum/internal/services/session"
)

// memStore — минимальное хранилище в памяти для проверки маршрутизации.
type memStore struct {
	mu    sync.Mutex
	users []models.User
	posts []models.Post
}

func (s *memStore) CreateUser(_ context.Context, u models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = "u" + strconv.Itoa(len(s.users)+1)
	s.users = append(s.users, u)
	return u.ID, nil
}

func (s *memStore) findUser(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.ID == id })
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *memStore) UpdateProfile(_ context.Context, id string, bio *string, avatar *models.Image) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		if bio != nil {
			s.users[i].Bio = *bio
		}
		if avatar != nil {
			s.users[i].Avatar = avatar
		}
		u := s.users[i]
		return &u, nil
	}
	return nil, models.ErrNotFound
}

func (s *memStore) GetUserAvatar(ctx context.Context, username string) (*models.Image, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u.Avatar == nil {
		return nil, models.ErrNotFound
	}
	return u.Avatar, nil
}

func (s *memStore) ListPostsByUser(_ context.Context, userID string) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Post
	for _, p := range s.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) CreatePost(_ context.Context, p models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = "p" + strconv.Itoa(len(s.posts)+1)
	p.CreatedAt = time.Now()
	s.posts = append(s.posts, p)
	return &p, nil
}

func (s *memStore) ListPosts(_ context.Context, f models.PostFilter) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Post
	for _, p := range s.posts {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) &&
			(f.Category == "" || p.Category == f.Category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memStore) SearchPosts(ctx context.Context, text string) ([]models.Post, error) {
	return s.ListPosts(ctx, models.PostFilter{Search: text})
}

func (s *memStore) ToggleReaction(_ context.Context, postID, userID string, kind models.ReactionKind) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		set := &s.posts[i].Likes
		if kind == models.Dislike {
			set = &s.posts[i].Dislikes
		}
		if idx := slices.Index(*set, userID); idx >= 0 {
			*set = slices.Delete(*set, idx, idx+1)
		} else {
			*set = append(*set, userID)
		}
		p := s.posts[i]
		return &p, nil
	}
	return nil, models.ErrNotFound
}

func (s *memStore) AddComment(_ context.Context, postID string, c models.Comment) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].Comments = append(s.posts[i].Comments, c)
			p := s.posts[i]
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memStore) GetPostImage(_ context.Context, postID string) (*models.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == postID && p.Image != nil {
			return p.Image, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memStore) snapshotPosts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.posts)
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisCache := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = redisCache.Close() })

	cfg := &config.Config{}
	cfg.CookieName = "sid"
	cfg.TTL = time.Hour
	cfg.Secret = "test-secret"
	cfg.MaxUploadBytes = 1 << 20
	cfg.RPS = 1000
	cfg.Burst = 1000

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := view.New(logger)
	require.NoError(t, err)

	store := &memStore{}
	sessions := sessionservice.NewSessionService(redisCache, jwt.NewJWTMaker(cfg.Secret, cfg.TTL), cfg.TTL)
	svc := Services{
		Auth:     authservice.NewAuthService(store, sessions, logger),
		Sessions: sessions,
		Posts:    postservice.NewPostService(store, activity.Nop{}, logger),
		Profiles: profileservice.NewProfileService(store),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, renderer, svc)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, c *http.Client, target string, values url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(target, values)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, c *http.Client, target string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(target)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRoutes_PublicPages(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)

	for _, path := range []string{"/", "/search", "/about-us", "/contact-us", "/privacy-policy", "/login", "/register", "/sign", "/static/style.css", "/metrics", "/health"} {
		t.Run(path, func(t *testing.T) {
			resp, _ := get(t, c, srv.URL+path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestRoutes_SwaggerDoc(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t)

	resp, body := get(t, c, srv.URL+"/swagger/doc.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Info  map[string]any            `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "LinkForum API", doc.Info["title"])
	for _, path := range []string{"/register", "/login", "/create-post", "/like-post/{postId}", "/comment/{postId}", "/profile/{username}", "/search"} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.Contains(t, doc.Paths["/login"], "post")
}

func TestRoutes_ProtectedRedirectToLogin(t *testing.T) {
	srv, store := newTestServer(t)
	c := newClient(t)

	_, err := store.CreatePost(context.Background(), models.Post{Title: "seed", Category: "go", UserID: "u-seed"})
	require.NoError(t, err)

	resp, _ := get(t, c, srv.URL+"/profile")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	for _, path := range []string{"/create-post", "/post-link", "/post-description", "/like-post/p1", "/dislike-post/p1", "/comment/p1", "/update-profile"} {
		resp := postForm(t, c, srv.URL+path, url.Values{"title": {"x"}, "category": {"y"}, "text": {"z"}})
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	posts := store.snapshotPosts()
	require.Len(t, posts, 1)
	assert.Empty(t, posts[0].Comments)
	assert.Empty(t, posts[0].Likes)
	assert.Empty(t, posts[0].Dislikes)
}

func TestRoutes_ForumFlow(t *testing.T) {
	srv, store := newTestServer(t)
	c := newClient(t)

	resp := postForm(t, c, srv.URL+"/sign", url.Values{
		"username": {"alice"}, "email": {"alice@example.com"}, "password": {"secret"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp = postForm(t, c, srv.URL+"/register", url.Values{
		"username": {"alice2"}, "email": {"alice@example.com"}, "password": {"other"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postForm(t, c, srv.URL+"/login", url.Values{"email": {"alice@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postForm(t, c, srv.URL+"/login", url.Values{"email": {"alice@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = postForm(t, c, srv.URL+"/post-link", url.Values{"title": {"Go 1.24 released"}, "category": {"News"}, "link": {"https://go.dev"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	posts := store.snapshotPosts()
	require.Len(t, posts, 1)
	postID := posts[0].ID

	resp = postForm(t, c, srv.URL+"/like-post/"+postID, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp = postForm(t, c, srv.URL+"/dislike-post/"+postID, nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp = postForm(t, c, srv.URL+"/comment/"+postID, url.Values{"text": {"first!"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = postForm(t, c, srv.URL+"/like-post/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	posts = store.snapshotPosts()
	assert.Equal(t, []string{"u1"}, posts[0].Likes)
	assert.Equal(t, []string{"u1"}, posts[0].Dislikes)

	_, body := get(t, c, srv.URL+"/?category=News")
	assert.Contains(t, body, "Go 1.24 released")
	assert.Contains(t, body, "first!")

	_, body = get(t, c, srv.URL+"/search?search=go")
	assert.Contains(t, body, "Go 1.24 released")

	_, body = get(t, c, srv.URL+"/profile/alice")
	assert.Contains(t, body, "Go 1.24 released")

	resp, _ = get(t, c, srv.URL+"/profile")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, c, srv.URL+"/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = get(t, c, srv.URL+"/profile")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
