package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "todoapi/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "todo:"

// TodoCache caches per-user list and dashboard results in Redis. Keys are
// scoped by user id so one user's writes never evict another's entries.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

func listKey(userID int64, f dom.Filter) string {
	return keyPrefix + "list:" + strconv.FormatInt(userID, 10) + ":" + string(f)
}

func dashboardKey(userID int64) string {
	return keyPrefix + "dashboard:" + strconv.FormatInt(userID, 10)
}

// GetList returns the cached list for the filter; ok is false on miss.
// An empty list is a hit: a user with zero tasks must not fall through
// to the database on every read.
func (c *TodoCache) GetList(ctx context.Context, userID int64, f dom.Filter) ([]dom.Todo, bool, error) {
	b, err := c.rdb.Get(ctx, listKey(userID, f)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	list, err := decodeTodos(b)
	if err != nil {
		return nil, false, err
	}
	return list, true, nil
}

// SetList stores the list in cache.
func (c *TodoCache) SetList(ctx context.Context, userID int64, f dom.Filter, list []dom.Todo) error {
	b, err := encodeTodos(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID, f), b, c.ttl).Err()
}

// encodeTodos marshals a list for storage. A nil slice is stored as an
// empty JSON array so it decodes back to a non-nil, length-zero list.
func encodeTodos(list []dom.Todo) ([]byte, error) {
	if list == nil {
		list = []dom.Todo{}
	}
	return json.Marshal(list)
}

func decodeTodos(b []byte) ([]dom.Todo, error) {
	var list []dom.Todo
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetDashboard returns the cached dashboard; ok is false on miss.
func (c *TodoCache) GetDashboard(ctx context.Context, userID int64) (dom.Dashboard, bool, error) {
	b, err := c.rdb.Get(ctx, dashboardKey(userID)).Bytes()
	if err == redis.Nil {
		return dom.Dashboard{}, false, nil
	}
	if err != nil {
		return dom.Dashboard{}, false, err
	}
	var d dom.Dashboard
	if err := json.Unmarshal(b, &d); err != nil {
		return dom.Dashboard{}, false, err
	}
	return d, true, nil
}

// SetDashboard stores the dashboard in cache.
func (c *TodoCache) SetDashboard(ctx context.Context, userID int64, d dom.Dashboard) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dashboardKey(userID), b, c.ttl).Err()
}

// InvalidateUser removes every cached entry for the user (cache
// invalidation on write).
func (c *TodoCache) InvalidateUser(ctx context.Context, userID int64) error {
	keys := []string{
		listKey(userID, dom.FilterAll),
		listKey(userID, dom.FilterCompleted),
		listKey(userID, dom.FilterPending),
		dashboardKey(userID),
	}
	return c.rdb.Del(ctx, keys...).Err()
}
