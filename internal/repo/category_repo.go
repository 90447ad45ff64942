package repo

import (
	"context"

	dom "github.com/vishnucprasad/gotodo-server/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepo provides category persistence. All reads and writes are
// scoped by the owning user.
type CategoryRepo interface {
	Create(ctx context.Context, c dom.Category) (dom.Category, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Category, error)
	List(ctx context.Context, userID int64) ([]dom.Category, error)
	Update(ctx context.Context, userID, id int64, name, color *string) (dom.Category, error)
	Delete(ctx context.Context, userID, id int64) error
}

// PGCategoryRepo implements CategoryRepo with Postgres.
type PGCategoryRepo struct {
	db *pgxpool.Pool
}

// NewPGCategoryRepo returns a new PGCategoryRepo.
func NewPGCategoryRepo(db *pgxpool.Pool) *PGCategoryRepo {
	return &PGCategoryRepo{db: db}
}

const categoryColumns = `id, user_id, name, color, created_at, updated_at`

func (r *PGCategoryRepo) Create(ctx context.Context, c dom.Category) (dom.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING ` + categoryColumns
	var out dom.Category
	err := r.db.QueryRow(ctx, query, c.UserID, c.Name, c.Color).Scan(
		&out.ID, &out.UserID, &out.Name, &out.Color, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGCategoryRepo) GetByID(ctx context.Context, userID, id int64) (dom.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	var c dom.Category
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *PGCategoryRepo) List(ctx context.Context, userID int64) ([]dom.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Category
	for rows.Next() {
		var c dom.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PGCategoryRepo) Update(ctx context.Context, userID, id int64, name, color *string) (dom.Category, error) {
	query := `
		UPDATE categories
		SET name = COALESCE($3, name), color = COALESCE($4, color), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + categoryColumns
	var c dom.Category
	err := r.db.QueryRow(ctx, query, id, userID, name, color).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *PGCategoryRepo) Delete(ctx context.Context, userID, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}
