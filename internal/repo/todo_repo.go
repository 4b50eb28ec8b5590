package repo

import (
	"context"

	dom "todoapi/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TodoRepo provides task persistence. Every method is scoped by the owning
// user id; a task belonging to another user is indistinguishable from a
// missing one (pgx.ErrNoRows / false). Mutations are single conditional
// statements so existence-then-mutate is atomic under concurrent requests.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Todo, error)
	List(ctx context.Context, userID int64, filter dom.Filter) ([]dom.Todo, error)
	Update(ctx context.Context, userID, id int64, title, description string, isCompleted bool) (dom.Todo, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	Toggle(ctx context.Context, userID, id int64) (dom.Todo, error)
	Dashboard(ctx context.Context, userID int64) (dom.Dashboard, error)
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `id, user_id, title, description, is_completed, created_at, completed_at`

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (user_id, title, description)
		VALUES ($1, $2, $3)
		RETURNING ` + todoColumns
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.UserID, t.Title, t.Description).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.IsCompleted,
		&out.CreatedAt, &out.CompletedAt,
	)
	return out, err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted,
		&t.CreatedAt, &t.CompletedAt,
	)
	return t, err
}

// List returns the user's tasks, newest first. Ordering is part of the
// API contract.
func (r *PGTodoRepo) List(ctx context.Context, userID int64, filter dom.Filter) ([]dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1`
	switch filter {
	case dom.FilterCompleted:
		query += ` AND is_completed = TRUE`
	case dom.FilterPending:
		query += ` AND is_completed = FALSE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted,
			&t.CreatedAt, &t.CompletedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update replaces title, description and completion state in one statement.
// completed_at follows the transition rule: stamped on false->true, cleared
// whenever the new state is false, untouched on true->true. The CASE reads
// the pre-update is_completed, so no prior SELECT is needed.
func (r *PGTodoRepo) Update(ctx context.Context, userID, id int64, title, description string, isCompleted bool) (dom.Todo, error) {
	query := `
		UPDATE todos SET
			title = $3,
			description = $4,
			completed_at = CASE
				WHEN $5 AND NOT is_completed THEN NOW()
				WHEN NOT $5 THEN NULL
				ELSE completed_at
			END,
			is_completed = $5
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, userID, title, description, isCompleted).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted,
		&t.CreatedAt, &t.CompletedAt,
	)
	return t, err
}

func (r *PGTodoRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Toggle flips is_completed atomically; completed_at is stamped when the
// task becomes completed and cleared when it becomes pending.
func (r *PGTodoRepo) Toggle(ctx context.Context, userID, id int64) (dom.Todo, error) {
	query := `
		UPDATE todos SET
			is_completed = NOT is_completed,
			completed_at = CASE WHEN NOT is_completed THEN NOW() ELSE NULL END
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsCompleted,
		&t.CreatedAt, &t.CompletedAt,
	)
	return t, err
}

// Dashboard counts all, completed and pending tasks from one snapshot.
func (r *PGTodoRepo) Dashboard(ctx context.Context, userID int64) (dom.Dashboard, error) {
	var d dom.Dashboard
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_completed)
		FROM todos WHERE user_id = $1`, userID,
	).Scan(&d.Total, &d.Completed)
	if err != nil {
		return dom.Dashboard{}, err
	}
	d.Pending = d.Total - d.Completed
	return d, nil
}
