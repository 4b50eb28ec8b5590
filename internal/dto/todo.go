package dto

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// Limits count characters, not bytes: a 150-rune title of multibyte
// text is well within the 200-character bound.
func validateTitleDescription(title, description string) []FieldError {
	var errs []FieldError
	t := strings.TrimSpace(title)
	switch {
	case t == "":
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	case utf8.RuneCountInString(t) > maxTitleLen:
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 200 characters"})
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		errs = append(errs, FieldError{Field: "description", Message: "description must be at most 1000 characters"})
	}
	return errs
}

// CreateTodoRequest is the JSON body for POST /todos.
type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r CreateTodoRequest) Validate() []FieldError {
	return validateTitleDescription(r.Title, r.Description)
}

// UpdateTodoRequest is the JSON body for PUT /todos/{id}. It is a full
// replace: all fields apply, absent ones take their zero value.
type UpdateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

func (r UpdateTodoRequest) Validate() []FieldError {
	return validateTitleDescription(r.Title, r.Description)
}

// TodoResponse is the wire shape of a task. CompletedAt is null exactly
// when the task is pending.
type TodoResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// DashboardResponse holds aggregate counts for the caller's tasks.
type DashboardResponse struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}
