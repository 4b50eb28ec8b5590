package domain

import (
	"strings"
	"time"
)

// Todo is the business entity for a task. It does not depend on
// Gin, Postgres or Redis.
//
// CompletedAt is non-nil if and only if IsCompleted is true; every
// mutation in repo/service preserves that invariant.
type Todo struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	IsCompleted bool

	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Dashboard holds aggregate task counts for one user, computed from a
// single store snapshot.
type Dashboard struct {
	Total     int64
	Completed int64
	Pending   int64
}

// Filter selects a subset of a user's tasks.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// ParseFilter maps a raw query value to a Filter. Unknown values mean "all".
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterCompleted:
		return FilterCompleted
	case FilterPending:
		return FilterPending
	default:
		return FilterAll
	}
}
