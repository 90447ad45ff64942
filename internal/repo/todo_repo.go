package repo

import (
	"context"
	"time"

	dom "github.com/vishnucprasad/gotodo-server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TodoRepo provides todo persistence. All operations are scoped by the
// owning user; reads join the category row.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Todo, error)
	ListByRange(ctx context.Context, userID int64, from, to time.Time) ([]dom.Todo, error)
	Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error)
	ChangeStatus(ctx context.Context, userID, id int64, status dom.TodoStatus) (dom.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

// PGTodoRepo implements TodoRepo with Postgres.
type PGTodoRepo struct {
	db *pgxpool.Pool
}

// NewPGTodoRepo returns a new PGTodoRepo.
func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `t.id, t.user_id, t.category_id, t.task, t.date, t.status, t.description, t.created_at, t.updated_at`

const todoJoined = `
	SELECT ` + todoColumns + `,
	       c.id, c.user_id, c.name, c.color, c.created_at, c.updated_at
	FROM todos t
	JOIN categories c ON c.id = t.category_id`

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (user_id, category_id, task, date, status, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, category_id, task, date, status, description, created_at, updated_at`
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.UserID, t.CategoryID, t.Task, t.Date, t.Status, t.Description).Scan(
		&out.ID, &out.UserID, &out.CategoryID, &out.Task, &out.Date, &out.Status, &out.Description,
		&out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	query := todoJoined + ` WHERE t.id = $1 AND t.user_id = $2`
	return r.scanJoined(r.db.QueryRow(ctx, query, id, userID))
}

// ListByRange returns the user's todos with date in [from, to],
// category included, ordered by date.
func (r *PGTodoRepo) ListByRange(ctx context.Context, userID int64, from, to time.Time) ([]dom.Todo, error) {
	query := todoJoined + `
	WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
	ORDER BY t.date ASC, t.id ASC`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		t, err := r.scanJoined(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos
		SET category_id = $3, task = $4, date = $5, description = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id`
	var updated int64
	err := r.db.QueryRow(ctx, query, id, userID, patch.CategoryID, patch.Task, patch.Date, patch.Description).Scan(&updated)
	if err != nil {
		return dom.Todo{}, err
	}
	return r.GetByID(ctx, userID, updated)
}

func (r *PGTodoRepo) ChangeStatus(ctx context.Context, userID, id int64, status dom.TodoStatus) (dom.Todo, error) {
	query := `
		UPDATE todos SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id`
	var updated int64
	err := r.db.QueryRow(ctx, query, id, userID, status).Scan(&updated)
	if err != nil {
		return dom.Todo{}, err
	}
	return r.GetByID(ctx, userID, updated)
}

func (r *PGTodoRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGTodoRepo) scanJoined(row interface{ Scan(...any) error }) (dom.Todo, error) {
	var t dom.Todo
	var c dom.Category
	err := row.Scan(
		&t.ID, &t.UserID, &t.CategoryID, &t.Task, &t.Date, &t.Status, &t.Description,
		&t.CreatedAt, &t.UpdatedAt,
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return dom.Todo{}, err
	}
	t.Category = &c
	return t, nil
}
