package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/vishnucprasad/gotodo-server/internal/auth"
	dom "github.com/vishnucprasad/gotodo-server/internal/domain"
	"github.com/vishnucprasad/gotodo-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// memCategoryRepo and memTodoRepo are minimal in-memory repos for
// handler tests.
type memCategoryRepo struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]dom.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{nextID: 1, categories: make(map[int64]dom.Category)}
}

func (m *memCategoryRepo) Create(_ context.Context, c dom.Category) (dom.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	m.categories[c.ID] = c
	return c, nil
}

func (m *memCategoryRepo) GetByID(_ context.Context, userID, id int64) (dom.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok || c.UserID != userID {
		return dom.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *memCategoryRepo) List(_ context.Context, userID int64) ([]dom.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []dom.Category
	for _, c := range m.categories {
		if c.UserID == userID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *memCategoryRepo) Update(_ context.Context, userID, id int64, name, color *string) (dom.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok || c.UserID != userID {
		return dom.Category{}, pgx.ErrNoRows
	}
	if name != nil {
		c.Name = *name
	}
	if color != nil {
		c.Color = *color
	}
	m.categories[id] = c
	return c, nil
}

func (m *memCategoryRepo) Delete(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, id)
	return nil
}

type memTodoRepo struct {
	mu     sync.Mutex
	nextID int64
	todos  map[int64]dom.Todo
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{nextID: 1, todos: make(map[int64]dom.Todo)}
}

func (m *memTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.nextID
	m.nextID++
	m.todos[t.ID] = t
	return t, nil
}

func (m *memTodoRepo) GetByID(_ context.Context, userID, id int64) (dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *memTodoRepo) ListByRange(_ context.Context, userID int64, from, to time.Time) ([]dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []dom.Todo
	for _, t := range m.todos {
		if t.UserID == userID && !t.Date.Before(from) && !t.Date.After(to) {
			list = append(list, t)
		}
	}
	return list, nil
}

func (m *memTodoRepo) Update(_ context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	patch.ID = t.ID
	patch.UserID = t.UserID
	m.todos[id] = patch
	return patch, nil
}

func (m *memTodoRepo) ChangeStatus(_ context.Context, userID, id int64, status dom.TodoStatus) (dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Status = status
	m.todos[id] = t
	return t, nil
}

func (m *memTodoRepo) Delete(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(m.todos, id)
	return nil
}

// newTodoTestRouter wires the protected routes behind the access guard
// and returns an access token for user 1.
func newTodoTestRouter(t *testing.T) (*gin.Engine, string, *memCategoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := auth.NewIssuer("access-secret", "refresh-secret", 10*time.Minute, 720*time.Hour)
	pair, err := issuer.Pair(1, "alice@example.com")
	require.NoError(t, err)

	categories := newMemCategoryRepo()
	todoSvc := service.NewTodoService(newMemTodoRepo(), categories, nil)
	categorySvc := service.NewCategoryService(categories)

	r := gin.New()
	api := r.Group("/api/v1", auth.RequireAccessToken(issuer))

	th := NewTodoHandler(todoSvc)
	api.GET("/todo/all", th.List)
	api.GET("/todo/:id", th.GetByID)
	api.POST("/todo/create", th.Create)
	api.PATCH("/todo/status/:id", th.ChangeStatus)
	api.PATCH("/todo/:id", th.Update)
	api.DELETE("/todo/:id", th.Delete)

	ch := NewCategoryHandler(categorySvc)
	api.GET("/category/all", ch.List)
	api.GET("/category/:id", ch.GetByID)
	api.POST("/category/create", ch.Create)
	api.PATCH("/category/:id", ch.Update)
	api.DELETE("/category/:id", ch.Delete)

	return r, pair.AccessToken, categories
}

func seedTestCategory(t *testing.T, categories *memCategoryRepo) dom.Category {
	t.Helper()
	c, err := categories.Create(context.Background(), dom.Category{UserID: 1, Name: "Work", Color: "#ff8800"})
	require.NoError(t, err)
	return c
}

func TestTodoEndpoints(t *testing.T) {
	t.Parallel()

	r, token, categories := newTodoTestRouter(t)
	c := seedTestCategory(t, categories)

	w := doJSON(t, r, http.MethodPost, "/api/v1/todo/create", token, gin.H{
		"categoryId": c.ID, "task": "write report", "date": "2026-09-01", "description": "numbers",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "todo", created.Status)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todo/all?from=2026-09-01&to=2026-09-30", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "write report")

	w = doJSON(t, r, http.MethodPatch, "/api/v1/todo/status/1", token, gin.H{"status": "inProgress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "inProgress")

	w = doJSON(t, r, http.MethodDelete, "/api/v1/todo/1", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todo/1", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTodoEndpointRejects(t *testing.T) {
	t.Parallel()

	r, token, categories := newTodoTestRouter(t)
	c := seedTestCategory(t, categories)

	t.Run("unauthenticated", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/todo/all?from=2026-09-01&to=2026-09-30", "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/todo/abc", token, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad range", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/v1/todo/all?from=yesterday&to=2026-09-30", token, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown category", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/todo/create", token, gin.H{
			"categoryId": c.ID + 100, "task": "task", "date": "2026-09-01",
		})
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad status", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/todo/create", token, gin.H{
			"categoryId": c.ID, "task": "task", "date": "2026-09-01",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		w = doJSON(t, r, http.MethodPatch, "/api/v1/todo/status/1", token, gin.H{"status": "paused"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCategoryEndpoints(t *testing.T) {
	t.Parallel()

	r, token, _ := newTodoTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/category/create", token, gin.H{
		"name": "Work", "color": "#ff8800",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/v1/category/create", token, gin.H{
		"name": "Bad", "color": "orange",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/category/all", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Work")

	w = doJSON(t, r, http.MethodPatch, "/api/v1/category/1", token, gin.H{"name": "Errands"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "Errands")

	w = doJSON(t, r, http.MethodDelete, "/api/v1/category/1", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/category/1", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
