package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"todoapi/internal/cache"
	dom "todoapi/internal/domain"
	"todoapi/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("not found")

// TodoService implements task CRUD scoped to the calling user. Every
// method takes the authenticated user id; a task owned by someone else
// is reported as ErrNotFound, the same as a missing one.
type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

// Create inserts a new pending task owned by userID.
func (s *TodoService) Create(ctx context.Context, userID int64, title, description string) (dom.Todo, error) {
	t, err := s.repo.Create(ctx, dom.Todo{
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns the user's tasks, newest first. filter is one of
// "all"/"completed"/"pending"; anything else behaves as "all".
func (s *TodoService) List(ctx context.Context, userID int64, filter string) ([]dom.Todo, error) {
	f := dom.ParseFilter(filter)
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10) + ":" + string(f)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, ok, err := s.cache.GetList(ctx, userID, f); err == nil && ok {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID, f)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, f, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.List(ctx, userID, f)
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

// Update fully replaces title, description and completion state. The
// repo applies the completion transition in one conditional statement:
// going completed stamps CompletedAt, going pending clears it, staying
// completed keeps the original timestamp.
func (s *TodoService) Update(ctx context.Context, userID, id int64, title, description string, isCompleted bool) (dom.Todo, error) {
	t, err := s.repo.Update(ctx, userID, id, strings.TrimSpace(title), strings.TrimSpace(description), isCompleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the task. Returns ErrNotFound when no owned row existed.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// ToggleComplete flips the completion flag, stamping or clearing
// CompletedAt accordingly.
func (s *TodoService) ToggleComplete(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.Toggle(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Dashboard returns total/completed/pending counts from one store snapshot.
func (s *TodoService) Dashboard(ctx context.Context, userID int64) (dom.Dashboard, error) {
	if s.cache != nil {
		key := "dashboard:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if d, ok, err := s.cache.GetDashboard(ctx, userID); err == nil && ok {
				return d, nil
			}
			d, err := s.repo.Dashboard(ctx, userID)
			if err != nil {
				return dom.Dashboard{}, err
			}
			_ = s.cache.SetDashboard(ctx, userID, d)
			return d, nil
		})
		if err != nil {
			return dom.Dashboard{}, err
		}
		return v.(dom.Dashboard), nil
	}
	return s.repo.Dashboard(ctx, userID)
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}
