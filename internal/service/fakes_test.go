package service

import (
	"context"
	"sync"
	"time"

	dom "github.com/vishnucprasad/gotodo-server/internal/domain"
	"github.com/vishnucprasad/gotodo-server/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeUserRepo is an in-memory UserRepo. It reports duplicate emails
// with a pgconn unique-violation error, the same signal Postgres gives.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]dom.User

	failNextWrite error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]dom.User)}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
}

func (f *fakeUserRepo) Create(_ context.Context, name, email, passwordHash string) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeWriteErr(); err != nil {
		return dom.User{}, err
	}
	for _, u := range f.users {
		if u.Email == email {
			return dom.User{}, uniqueViolation()
		}
	}
	now := time.Now()
	u := dom.User{
		ID:           f.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.nextID++
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id int64, name, email *string) (dom.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeWriteErr(); err != nil {
		return dom.User{}, err
	}
	u, ok := f.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	if email != nil {
		for otherID, other := range f.users {
			if otherID != id && other.Email == *email {
				return dom.User{}, uniqueViolation()
			}
		}
		u.Email = *email
	}
	if name != nil {
		u.Name = *name
	}
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return u, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeWriteErr(); err != nil {
		return err
	}
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdateRefreshTokenHash(_ context.Context, id int64, hash *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeWriteErr(); err != nil {
		return err
	}
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.RefreshTokenHash = hash
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) WithTx(_ context.Context, fn func(repo.UserRepo) error) error {
	return fn(f)
}

func (f *fakeUserRepo) takeWriteErr() error {
	err := f.failNextWrite
	f.failNextWrite = nil
	return err
}

// fakeCategoryRepo is an in-memory CategoryRepo.
type fakeCategoryRepo struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]dom.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{nextID: 1, categories: make(map[int64]dom.Category)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c dom.Category) (dom.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	c.ID = f.nextID
	c.CreatedAt = now
	c.UpdatedAt = now
	f.nextID++
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, userID, id int64) (dom.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return dom.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCategoryRepo) List(_ context.Context, userID int64) ([]dom.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []dom.Category
	for _, c := range f.categories {
		if c.UserID == userID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, userID, id int64, name, color *string) (dom.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return dom.Category{}, pgx.ErrNoRows
	}
	if name != nil {
		c.Name = *name
	}
	if color != nil {
		c.Color = *color
	}
	c.UpdatedAt = time.Now()
	f.categories[id] = c
	return c, nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if ok && c.UserID == userID {
		delete(f.categories, id)
	}
	return nil
}

// fakeTodoRepo is an in-memory TodoRepo.
type fakeTodoRepo struct {
	mu     sync.Mutex
	nextID int64
	todos  map[int64]dom.Todo
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{nextID: 1, todos: make(map[int64]dom.Todo)}
}

func (f *fakeTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	t.ID = f.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	f.nextID++
	f.todos[t.ID] = t
	return t, nil
}

func (f *fakeTodoRepo) GetByID(_ context.Context, userID, id int64) (dom.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeTodoRepo) ListByRange(_ context.Context, userID int64, from, to time.Time) ([]dom.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []dom.Todo
	for _, t := range f.todos {
		if t.UserID == userID && !t.Date.Before(from) && !t.Date.After(to) {
			list = append(list, t)
		}
	}
	return list, nil
}

func (f *fakeTodoRepo) Update(_ context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	patch.ID = t.ID
	patch.UserID = t.UserID
	patch.CreatedAt = t.CreatedAt
	patch.UpdatedAt = time.Now()
	f.todos[id] = patch
	return patch, nil
}

func (f *fakeTodoRepo) ChangeStatus(_ context.Context, userID, id int64, status dom.TodoStatus) (dom.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	f.todos[id] = t
	return t, nil
}

func (f *fakeTodoRepo) Delete(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.todos[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.todos, id)
	return nil
}
