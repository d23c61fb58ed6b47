package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

func (env *testEnv) createBoard(t *testing.T, owner *ports.Identity, name string) *entities.Board {
	t.Helper()

	board, err := env.boards.CreateBoard(context.Background(), owner, ports.CreateBoardRequest{Name: name})
	if err != nil {
		t.Fatalf("create board %s: %v", name, err)
	}
	return board
}

func (env *testEnv) createTask(t *testing.T, owner *ports.Identity, boardID, title string) *entities.Task {
	t.Helper()

	task, err := env.tasks.CreateTask(context.Background(), owner, ports.CreateTaskRequest{BoardID: boardID, Title: title})
	if err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return task
}

func TestCreateTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	board := env.createBoard(t, alice, "Groceries")

	task, err := env.tasks.CreateTask(ctx, alice, ports.CreateTaskRequest{
		BoardID:     board.ID,
		Title:       "  Buy milk  ",
		Description: strPtr("2% if they have it"),
		DueDate:     strPtr("2025-03-01"),
		Priority:    strPtr("high"),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Fatalf("title not trimmed: %q", task.Title)
	}
	if task.Status != entities.TaskStatusPending {
		t.Fatalf("new task must start pending, got %q", task.Status)
	}
	if task.Priority != entities.PriorityHigh || task.DueDate != "2025-03-01" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if !entities.IsUUID(task.ID) || task.BoardID != board.ID || task.CreatedAt.IsZero() {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	board := env.createBoard(t, alice, "Groceries")

	cases := []struct {
		name string
		req  ports.CreateTaskRequest
		want error
	}{
		{"empty title", ports.CreateTaskRequest{BoardID: board.ID, Title: "   "}, entities.ErrTitleRequired},
		{"bad board id", ports.CreateTaskRequest{BoardID: "nope", Title: "X"}, entities.ErrInvalidID},
		{"bad due date", ports.CreateTaskRequest{BoardID: board.ID, Title: "X", DueDate: strPtr("yesterday")}, entities.ErrInvalidDueDate},
		{"bad priority", ports.CreateTaskRequest{BoardID: board.ID, Title: "X", Priority: strPtr("critical")}, entities.ErrInvalidPriority},
	}
	for _, tc := range cases {
		if _, err := env.tasks.CreateTask(ctx, alice, tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	missing := "00000000-0000-0000-0000-000000000000"
	if _, err := env.tasks.CreateTask(ctx, alice, ports.CreateTaskRequest{BoardID: missing, Title: "X"}); !errors.Is(err, entities.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}

	bob := env.register(t, "bob", "secret2")
	if _, err := env.tasks.CreateTask(ctx, bob, ports.CreateTaskRequest{BoardID: board.ID, Title: "X"}); !errors.Is(err, entities.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateTaskPatchSemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	board := env.createBoard(t, alice, "Groceries")
	task := env.createTask(t, alice, board.ID, "Buy milk")

	// Status flips in both directions.
	updated, err := env.tasks.UpdateTask(ctx, alice, task.ID, ports.UpdateTaskRequest{Status: strPtr("completed")})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.Status != entities.TaskStatusCompleted {
		t.Fatalf("expected completed, got %q", updated.Status)
	}
	updated, err = env.tasks.UpdateTask(ctx, alice, task.ID, ports.UpdateTaskRequest{Status: strPtr("pending")})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if updated.Status != entities.TaskStatusPending {
		t.Fatalf("expected pending, got %q", updated.Status)
	}

	// Absent fields stay untouched.
	updated, err = env.tasks.UpdateTask(ctx, alice, task.ID, ports.UpdateTaskRequest{Title: strPtr("Buy oat milk")})
	if err != nil {
		t.Fatalf("retitle: %v", err)
	}
	if updated.Title != "Buy oat milk" || updated.Status != entities.TaskStatusPending {
		t.Fatalf("patch touched unrelated fields: %+v", updated)
	}

	if _, err := env.tasks.UpdateTask(ctx, alice, task.ID, ports.UpdateTaskRequest{Status: strPtr("in_progress")}); !errors.Is(err, entities.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := env.tasks.UpdateTask(ctx, alice, task.ID, ports.UpdateTaskRequest{Priority: strPtr("urgent")}); !errors.Is(err, entities.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestUpdateTaskDueDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	board := env.createBoard(t, alice, "Groceries")
	task := env.createTask(t, alice, board.ID, "Buy milk")

	updated, err := env.tasks.UpdateTask(ctx, alice, task.ID, ports.UpdateTaskRequest{DueDate: json.RawMessage(`"2025-03-01"`)})
	if err != nil {
		t.Fatalf("set due date: %v", err)
	}
	if updated.DueDate != "2025-03-01" {
		t.Fatalf("due date not set: %q", updated.DueDate)
	}

	// A patch without dueDate leaves it alone.
	updated, err = env.tasks.UpdateTask(ctx, alice, task.ID, ports.UpdateTaskRequest{Title: strPtr("Buy milk")})
	if err != nil {
		t.Fatalf("unrelated patch: %v", err)
	}
	if updated.DueDate != "2025-03-01" {
		t.Fatalf("absent dueDate must not clear, got %q", updated.DueDate)
	}

	// An explicit null clears it.
	updated, err = env.tasks.UpdateTask(ctx, alice, task.ID, ports.UpdateTaskRequest{DueDate: json.RawMessage(`null`)})
	if err != nil {
		t.Fatalf("clear due date: %v", err)
	}
	if updated.DueDate != "" {
		t.Fatalf("null must clear the due date, got %q", updated.DueDate)
	}

	if _, err := env.tasks.UpdateTask(ctx, alice, task.ID, ports.UpdateTaskRequest{DueDate: json.RawMessage(`"whenever"`)}); !errors.Is(err, entities.ErrInvalidDueDate) {
		t.Fatalf("expected ErrInvalidDueDate, got %v", err)
	}
}

func TestUpdateTaskOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	bob := env.register(t, "bob", "secret2")
	board := env.createBoard(t, alice, "Groceries")
	task := env.createTask(t, alice, board.ID, "Buy milk")

	if _, err := env.tasks.UpdateTask(ctx, bob, task.ID, ports.UpdateTaskRequest{Title: strPtr("Hijack")}); !errors.Is(err, entities.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := env.tasks.DeleteTask(ctx, bob, task.ID); !errors.Is(err, entities.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	missing := "00000000-0000-0000-0000-000000000000"
	if _, err := env.tasks.UpdateTask(ctx, alice, missing, ports.UpdateTaskRequest{}); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	board := env.createBoard(t, alice, "Groceries")
	task := env.createTask(t, alice, board.ID, "Buy milk")

	if err := env.tasks.DeleteTask(ctx, alice, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	tasks, err := env.tasks.ListTasks(ctx, alice, board.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("task not deleted: %+v", tasks)
	}

	if err := env.tasks.DeleteTask(ctx, alice, task.ID); !errors.Is(err, entities.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestReorderTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	x := env.createBoard(t, alice, "X")
	y := env.createBoard(t, alice, "Y")

	a := env.createTask(t, alice, x.ID, "a")
	b := env.createTask(t, alice, x.ID, "b")
	c := env.createTask(t, alice, y.ID, "c")
	d := env.createTask(t, alice, y.ID, "d")

	// Listed ids come first in the given order; everything else keeps
	// its relative order behind them.
	if err := env.tasks.ReorderTasks(ctx, alice, ports.ReorderTasksRequest{IDs: []string{b.ID, a.ID}}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	var order []string
	_ = env.store.View(func(doc *entities.Document) error {
		for _, task := range doc.Tasks {
			order = append(order, task.ID)
		}
		return nil
	})
	want := []string{b.ID, a.ID, c.ID, d.ID}
	if len(order) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}

	// Per-board listings reflect the new global order.
	tasksX, err := env.tasks.ListTasks(ctx, alice, x.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasksX[0].ID != b.ID || tasksX[1].ID != a.ID {
		t.Fatalf("board order not updated: %+v", tasksX)
	}
}

func TestReorderTasksSkipsUnknownIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	board := env.createBoard(t, alice, "X")
	a := env.createTask(t, alice, board.ID, "a")
	b := env.createTask(t, alice, board.ID, "b")

	missing := "00000000-0000-0000-0000-000000000000"
	if err := env.tasks.ReorderTasks(ctx, alice, ports.ReorderTasksRequest{IDs: []string{missing, b.ID, a.ID}}); err != nil {
		t.Fatalf("reorder with unknown id: %v", err)
	}

	tasks, err := env.tasks.ListTasks(ctx, alice, board.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != b.ID || tasks[1].ID != a.ID {
		t.Fatalf("unexpected order: %+v", tasks)
	}
}

func TestReorderTasksAbortsOnForeignBoard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	bob := env.register(t, "bob", "secret2")

	mine := env.createBoard(t, alice, "Mine")
	theirs := env.createBoard(t, bob, "Theirs")
	a := env.createTask(t, alice, mine.ID, "a")
	b := env.createTask(t, alice, mine.ID, "b")
	foreign := env.createTask(t, bob, theirs.ID, "foreign")

	// One foreign task in the batch aborts the whole reorder.
	err := env.tasks.ReorderTasks(ctx, alice, ports.ReorderTasksRequest{IDs: []string{b.ID, foreign.ID, a.ID}})
	if !errors.Is(err, entities.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	tasks, err := env.tasks.ListTasks(ctx, alice, mine.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks[0].ID != a.ID || tasks[1].ID != b.ID {
		t.Fatalf("aborted reorder must not move tasks: %+v", tasks)
	}
}

func TestReorderTasksValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	if err := env.tasks.ReorderTasks(ctx, alice, ports.ReorderTasksRequest{}); !errors.Is(err, entities.ErrEmptyReorder) {
		t.Fatalf("expected ErrEmptyReorder, got %v", err)
	}
	if err := env.tasks.ReorderTasks(ctx, alice, ports.ReorderTasksRequest{IDs: []string{"nope"}}); !errors.Is(err, entities.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}
