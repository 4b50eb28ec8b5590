package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	dom "todoapi/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemUserRepo is an in-memory UserRepo for tests and local runs without
// Postgres. It enforces the same email uniqueness the SQL schema does,
// under a single mutex, so concurrent registrations behave like the
// unique index.
type MemUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]dom.User
}

func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{nextID: 1, byID: make(map[int64]dom.User)}
}

func (r *MemUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *MemUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *MemUserRepo) Create(_ context.Context, email, name, passwordHash string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return dom.User{}, errUniqueViolation
		}
	}
	u := dom.User{
		ID:           r.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.nextID++
	r.byID[u.ID] = u
	return u, nil
}

// errUniqueViolation mimics the Postgres 23505 unique violation so the
// service layer's duplicate handling is exercised against the fake too.
var errUniqueViolation = &pgconn.PgError{
	Code:    "23505",
	Message: "duplicate key value violates unique constraint",
}

// MemTodoRepo is an in-memory TodoRepo mirroring PGTodoRepo semantics:
// user scoping, conditional single-operation mutations and the
// completed_at transition rule, all under one mutex.
type MemTodoRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]dom.Todo
}

func NewMemTodoRepo() *MemTodoRepo {
	return &MemTodoRepo{nextID: 1, byID: make(map[int64]dom.Todo)}
}

func (r *MemTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	t.IsCompleted = false
	t.CompletedAt = nil
	t.CreatedAt = time.Now().UTC()
	r.byID[t.ID] = t
	return t, nil
}

func (r *MemTodoRepo) GetByID(_ context.Context, userID, id int64) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *MemTodoRepo) List(_ context.Context, userID int64, filter dom.Filter) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.Todo
	for _, t := range r.byID {
		if t.UserID != userID {
			continue
		}
		if filter == dom.FilterCompleted && !t.IsCompleted {
			continue
		}
		if filter == dom.FilterPending && t.IsCompleted {
			continue
		}
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *MemTodoRepo) Update(_ context.Context, userID, id int64, title, description string, isCompleted bool) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Title = title
	t.Description = description
	switch {
	case isCompleted && !t.IsCompleted:
		now := time.Now().UTC()
		t.CompletedAt = &now
	case !isCompleted:
		t.CompletedAt = nil
	}
	t.IsCompleted = isCompleted
	r.byID[id] = t
	return t, nil
}

func (r *MemTodoRepo) Delete(_ context.Context, userID, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *MemTodoRepo) Toggle(_ context.Context, userID, id int64) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.IsCompleted = !t.IsCompleted
	if t.IsCompleted {
		now := time.Now().UTC()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	r.byID[id] = t
	return t, nil
}

func (r *MemTodoRepo) Dashboard(_ context.Context, userID int64) (dom.Dashboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var d dom.Dashboard
	for _, t := range r.byID {
		if t.UserID != userID {
			continue
		}
		d.Total++
		if t.IsCompleted {
			d.Completed++
		}
	}
	d.Pending = d.Total - d.Completed
	return d, nil
}

// DeleteUser removes a user and all owned tasks, mirroring the ON DELETE
// CASCADE in the SQL schema. Test helper for the fakes.
func DeleteUser(users *MemUserRepo, todos *MemTodoRepo, userID int64) {
	users.mu.Lock()
	delete(users.byID, userID)
	users.mu.Unlock()

	todos.mu.Lock()
	for id, t := range todos.byID {
		if t.UserID == userID {
			delete(todos.byID, id)
		}
	}
	todos.mu.Unlock()
}
