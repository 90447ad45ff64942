package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	dom "github.com/vishnucprasad/gotodo-server/internal/domain"
	"github.com/vishnucprasad/gotodo-server/internal/repo"

	"github.com/jackc/pgx/v5"
)

var ErrInvalidColor = errors.New("color must be a #rrggbb hex value")

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CategoryService handles category CRUD scoped to the authenticated user.
type CategoryService struct {
	repo repo.CategoryRepo
}

// NewCategoryService returns a new CategoryService.
func NewCategoryService(r repo.CategoryRepo) *CategoryService {
	return &CategoryService{repo: r}
}

func (s *CategoryService) Create(ctx context.Context, userID int64, name, color string) (dom.Category, error) {
	name = strings.TrimSpace(name)
	if !colorPattern.MatchString(color) {
		return dom.Category{}, ErrInvalidColor
	}
	return s.repo.Create(ctx, dom.Category{UserID: userID, Name: name, Color: color})
}

func (s *CategoryService) List(ctx context.Context, userID int64) ([]dom.Category, error) {
	return s.repo.List(ctx, userID)
}

func (s *CategoryService) GetByID(ctx context.Context, userID, id int64) (dom.Category, error) {
	c, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Category{}, ErrNotFound
		}
		return dom.Category{}, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id int64, name, color *string) (dom.Category, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	if color != nil && !colorPattern.MatchString(*color) {
		return dom.Category{}, ErrInvalidColor
	}
	c, err := s.repo.Update(ctx, userID, id, name, color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Category{}, ErrNotFound
		}
		return dom.Category{}, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}
