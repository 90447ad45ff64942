package repo

import (
	"context"

	dom "github.com/vishnucprasad/gotodo-server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence. WithTx runs fn against a repo
// bound to a single transaction: every call inside fn either commits
// together or rolls back together.
type UserRepo interface {
	Create(ctx context.Context, name, email, passwordHash string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	UpdateProfile(ctx context.Context, id int64, name, email *string) (dom.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRefreshTokenHash(ctx context.Context, id int64, hash *string) error
	WithTx(ctx context.Context, fn func(UserRepo) error) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db   Querier
	pool *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(pool *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: pool, pool: pool}
}

const userColumns = `id, name, email, password_hash, refresh_token_hash, created_at, updated_at`

// Create inserts a new user and returns it. Duplicate emails surface
// as a pgconn unique violation (23505).
func (r *PGUserRepo) Create(ctx context.Context, name, email, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	return r.scanUser(r.db.QueryRow(ctx, query, name, email, passwordHash))
}

// GetByEmail returns the user by email.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

// GetByID returns the user by ID.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// UpdateProfile patches name and/or email (nil = keep) and returns the
// updated row. pgx.ErrNoRows if the user vanished.
func (r *PGUserRepo) UpdateProfile(ctx context.Context, id int64, name, email *string) (dom.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name), email = COALESCE($3, email), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return r.scanUser(r.db.QueryRow(ctx, query, id, name, email))
}

// UpdatePassword overwrites the password hash.
func (r *PGUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
}

// UpdateRefreshTokenHash overwrites the stored refresh-token hash.
// nil clears it, which revokes the active session.
func (r *PGUserRepo) UpdateRefreshTokenHash(ctx context.Context, id int64, hash *string) error {
	return r.exec(ctx, `UPDATE users SET refresh_token_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
}

// WithTx runs fn with a repo bound to one transaction.
func (r *PGUserRepo) WithTx(ctx context.Context, fn func(UserRepo) error) error {
	return withTx(ctx, r.pool, func(q Querier) error {
		return fn(&PGUserRepo{db: q, pool: r.pool})
	})
}

func (r *PGUserRepo) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGUserRepo) scanUser(row interface{ Scan(...any) error }) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RefreshTokenHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
