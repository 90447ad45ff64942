package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/vishnucprasad/gotodo-server/internal/cache"
	dom "github.com/vishnucprasad/gotodo-server/internal/domain"
	"github.com/vishnucprasad/gotodo-server/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid status")
)

// TodoService handles todo CRUD scoped to the authenticated user.
type TodoService struct {
	repo       repo.TodoRepo
	categories repo.CategoryRepo
	cache      *cache.TodoCache
	sf         singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, categories repo.CategoryRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, categories: categories, cache: c}
}

func (s *TodoService) Create(ctx context.Context, userID, categoryID int64, task string, date time.Time, description string) (dom.Todo, error) {
	task = strings.TrimSpace(task)
	description = strings.TrimSpace(description)

	if err := s.checkCategory(ctx, userID, categoryID); err != nil {
		return dom.Todo{}, err
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		UserID:      userID,
		CategoryID:  categoryID,
		Task:        task,
		Date:        date,
		Status:      dom.StatusTodo,
		Description: description,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// ListByRange returns the user's todos with date in [from, to], each
// with its category joined in.
func (s *TodoService) ListByRange(ctx context.Context, userID int64, from, to time.Time) ([]dom.Todo, error) {
	if s.cache != nil {
		key := "range:" + strconv.FormatInt(userID, 10) + ":" + from.Format(time.RFC3339) + ":" + to.Format(time.RFC3339)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetRange(ctx, userID, from, to); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListByRange(ctx, userID, from, to)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetRange(ctx, userID, from, to, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.ListByRange(ctx, userID, from, to)
}

func (s *TodoService) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

func (s *TodoService) Update(ctx context.Context, userID, id int64, categoryID *int64, task, description *string, date *time.Time) (dom.Todo, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	patch := existing
	if categoryID != nil {
		if err := s.checkCategory(ctx, userID, *categoryID); err != nil {
			return dom.Todo{}, err
		}
		patch.CategoryID = *categoryID
	}
	if task != nil {
		patch.Task = strings.TrimSpace(*task)
	}
	if description != nil {
		patch.Description = strings.TrimSpace(*description)
	}
	if date != nil {
		patch.Date = *date
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TodoService) ChangeStatus(ctx context.Context, userID, id int64, status dom.TodoStatus) (dom.Todo, error) {
	if !status.Valid() {
		return dom.Todo{}, ErrInvalidStatus
	}
	t, err := s.repo.ChangeStatus(ctx, userID, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// checkCategory verifies the category exists and belongs to the user.
func (s *TodoService) checkCategory(ctx context.Context, userID, categoryID int64) error {
	_, err := s.categories.GetByID(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
