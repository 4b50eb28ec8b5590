package service

import (
	"context"
	"errors"
	"testing"

	dom "todoapi/internal/domain"
	"todoapi/internal/repo"
)

func newTodoService() *TodoService {
	// nil cache: caching is optional and off in tests
	return NewTodoService(repo.NewMemTodoRepo(), nil)
}

func checkInvariant(t *testing.T, task dom.Todo) {
	t.Helper()
	if task.IsCompleted != (task.CompletedAt != nil) {
		t.Fatalf("invariant broken: isCompleted=%v completedAt=%v", task.IsCompleted, task.CompletedAt)
	}
}

func TestCreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService()

	task, err := svc.Create(ctx, 1, "  buy milk  ", " 2% ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if task.Title != "buy milk" || task.Description != "2%" {
		t.Fatalf("expected trimmed fields, got %q / %q", task.Title, task.Description)
	}
	if task.IsCompleted || task.CompletedAt != nil {
		t.Fatalf("new task must be pending, got %+v", task)
	}
	if task.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}
	if task.UserID != 1 {
		t.Fatalf("expected owner 1, got %d", task.UserID)
	}
	checkInvariant(t, task)
}

func TestUpdateCompletionTransitions(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService()

	task, err := svc.Create(ctx, 1, "report", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// pending -> completed stamps completedAt
	done, err := svc.Update(ctx, 1, task.ID, "report", "", true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	checkInvariant(t, done)
	if done.CompletedAt == nil {
		t.Fatal("expected completedAt after completing")
	}
	firstCompletedAt := *done.CompletedAt

	// completed -> completed keeps the original timestamp
	still, err := svc.Update(ctx, 1, task.ID, "report v2", "edited", true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	checkInvariant(t, still)
	if still.CompletedAt == nil || !still.CompletedAt.Equal(firstCompletedAt) {
		t.Fatalf("completedAt changed on true->true: %v vs %v", still.CompletedAt, firstCompletedAt)
	}
	if still.Title != "report v2" || still.Description != "edited" {
		t.Fatalf("fields not replaced: %+v", still)
	}

	// completed -> pending clears completedAt
	reopened, err := svc.Update(ctx, 1, task.ID, "report v2", "edited", false)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	checkInvariant(t, reopened)
	if reopened.IsCompleted || reopened.CompletedAt != nil {
		t.Fatalf("expected pending task, got %+v", reopened)
	}
}

func TestToggleComplete(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService()

	task, err := svc.Create(ctx, 1, "walk dog", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	on, err := svc.ToggleComplete(ctx, 1, task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	checkInvariant(t, on)
	if !on.IsCompleted {
		t.Fatal("expected completed after first toggle")
	}

	off, err := svc.ToggleComplete(ctx, 1, task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	checkInvariant(t, off)
	if off.IsCompleted || off.CompletedAt != nil {
		t.Fatalf("expected pending after second toggle, got %+v", off)
	}
}

func TestListFilterPartition(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService()

	for i, done := range []bool{false, true, false, true, true} {
		task, err := svc.Create(ctx, 1, "task", "")
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if done {
			if _, err := svc.ToggleComplete(ctx, 1, task.ID); err != nil {
				t.Fatalf("toggle %d: %v", i, err)
			}
		}
	}
	// another user's tasks must not leak into any list
	if _, err := svc.Create(ctx, 2, "other user task", ""); err != nil {
		t.Fatalf("create for user 2: %v", err)
	}

	all, err := svc.List(ctx, 1, "all")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	completed, err := svc.List(ctx, 1, "completed")
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	pending, err := svc.List(ctx, 1, "pending")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}

	if len(all) != 5 || len(completed) != 3 || len(pending) != 2 {
		t.Fatalf("got all=%d completed=%d pending=%d", len(all), len(completed), len(pending))
	}
	seen := make(map[int64]bool)
	for _, task := range completed {
		if !task.IsCompleted {
			t.Fatalf("pending task %d in completed list", task.ID)
		}
		seen[task.ID] = true
	}
	for _, task := range pending {
		if task.IsCompleted {
			t.Fatalf("completed task %d in pending list", task.ID)
		}
		if seen[task.ID] {
			t.Fatalf("task %d in both partitions", task.ID)
		}
		seen[task.ID] = true
	}
	for _, task := range all {
		if !seen[task.ID] {
			t.Fatalf("task %d missing from partitions", task.ID)
		}
	}
}

func TestListUnrecognizedFilterMeansAll(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, 1, "task", ""); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	for _, filter := range []string{"", "all", "bogus", "ALL", "42"} {
		list, err := svc.List(ctx, 1, filter)
		if err != nil {
			t.Fatalf("list %q: %v", filter, err)
		}
		if len(list) != 3 {
			t.Fatalf("filter %q: expected 3 tasks, got %d", filter, len(list))
		}
	}
}

func TestListOrderingNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService()

	var ids []int64
	for i := 0; i < 4; i++ {
		task, err := svc.Create(ctx, 1, "task", "")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, task.ID)
	}

	list, err := svc.List(ctx, 1, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != len(ids) {
		t.Fatalf("expected %d tasks, got %d", len(ids), len(list))
	}
	for i := range list {
		want := ids[len(ids)-1-i]
		if list[i].ID != want {
			t.Fatalf("position %d: got id %d, want %d (newest first)", i, list[i].ID, want)
		}
	}
}

func TestOwnershipScoping(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService()

	mine, err := svc.Create(ctx, 1, "user 1 task", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	theirs, err := svc.Create(ctx, 2, "user 2 task", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// every op on a foreign task reads as not found, never forbidden
	if _, err := svc.GetByID(ctx, 1, theirs.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get foreign: got %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, 1, theirs.ID, "hijack", "", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update foreign: got %v, want ErrNotFound", err)
	}
	if _, err := svc.ToggleComplete(ctx, 1, theirs.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("toggle foreign: got %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, 1, theirs.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete foreign: got %v, want ErrNotFound", err)
	}

	// the foreign task is untouched and the owner still sees it
	got, err := svc.GetByID(ctx, 2, theirs.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Title != "user 2 task" || got.IsCompleted {
		t.Fatalf("foreign task was mutated: %+v", got)
	}

	// and user 1 still owns theirs
	if _, err := svc.GetByID(ctx, 1, mine.ID); err != nil {
		t.Fatalf("own get: %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService()

	task, err := svc.Create(ctx, 1, "ephemeral", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, 1, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, 1, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
	if _, err := svc.GetByID(ctx, 1, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: got %v, want ErrNotFound", err)
	}
}

func TestDashboardCounts(t *testing.T) {
	ctx := context.Background()
	svc := newTodoService()

	// user 1: 2 pending, 1 completed
	for i, done := range []bool{false, false, true} {
		task, err := svc.Create(ctx, 1, "task", "")
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if done {
			if _, err := svc.ToggleComplete(ctx, 1, task.ID); err != nil {
				t.Fatalf("toggle %d: %v", i, err)
			}
		}
	}
	// user 2: 1 pending
	if _, err := svc.Create(ctx, 2, "task", ""); err != nil {
		t.Fatalf("create for user 2: %v", err)
	}

	d1, err := svc.Dashboard(ctx, 1)
	if err != nil {
		t.Fatalf("dashboard 1: %v", err)
	}
	if d1.Total != 3 || d1.Completed != 1 || d1.Pending != 2 {
		t.Fatalf("user 1 dashboard: %+v", d1)
	}

	d2, err := svc.Dashboard(ctx, 2)
	if err != nil {
		t.Fatalf("dashboard 2: %v", err)
	}
	if d2.Total != 1 || d2.Completed != 0 || d2.Pending != 1 {
		t.Fatalf("user 2 dashboard: %+v", d2)
	}

	d3, err := svc.Dashboard(ctx, 3)
	if err != nil {
		t.Fatalf("dashboard 3: %v", err)
	}
	if d3.Total != 0 || d3.Completed != 0 || d3.Pending != 0 {
		t.Fatalf("empty dashboard: %+v", d3)
	}
}
