package services

import (
	"context"
	"errors"
	"testing"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

func TestCreateAndListBoards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	board, err := env.boards.CreateBoard(ctx, alice, ports.CreateBoardRequest{Name: "  Groceries  "})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	if board.Name != "Groceries" {
		t.Fatalf("name not trimmed: %q", board.Name)
	}
	if !entities.IsUUID(board.ID) || board.UserID != alice.ID || board.CreatedAt.IsZero() {
		t.Fatalf("unexpected board: %+v", board)
	}

	// Round-trip: listing immediately includes exactly that board.
	boards, err := env.boards.ListBoards(ctx, alice)
	if err != nil {
		t.Fatalf("list boards: %v", err)
	}
	if len(boards) != 1 {
		t.Fatalf("expected 1 board, got %d", len(boards))
	}
	got := boards[0]
	if got.ID != board.ID || got.Name != board.Name || got.UserID != board.UserID || !got.CreatedAt.Equal(board.CreatedAt) {
		t.Fatalf("listed board differs: %+v vs %+v", got, board)
	}
}

func TestCreateBoardRejectsEmptyName(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "secret1")

	for _, name := range []string{"", "   "} {
		if _, err := env.boards.CreateBoard(context.Background(), alice, ports.CreateBoardRequest{Name: name}); !errors.Is(err, entities.ErrNameRequired) {
			t.Fatalf("name %q: expected ErrNameRequired, got %v", name, err)
		}
	}
}

func TestListBoardsIsScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	bob := env.register(t, "bob", "secret2")

	if _, err := env.boards.CreateBoard(ctx, alice, ports.CreateBoardRequest{Name: "Groceries"}); err != nil {
		t.Fatalf("create board: %v", err)
	}

	boards, err := env.boards.ListBoards(ctx, bob)
	if err != nil {
		t.Fatalf("list boards: %v", err)
	}
	if len(boards) != 0 {
		t.Fatalf("bob must not see alice's boards, got %+v", boards)
	}
}

func TestRenameBoard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	board, err := env.boards.CreateBoard(ctx, alice, ports.CreateBoardRequest{Name: "Groceries"})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	renamed, err := env.boards.RenameBoard(ctx, alice, board.ID, ports.RenameBoardRequest{Name: "Errands"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "Errands" || renamed.ID != board.ID {
		t.Fatalf("unexpected renamed board: %+v", renamed)
	}

	if _, err := env.boards.RenameBoard(ctx, alice, board.ID, ports.RenameBoardRequest{Name: "   "}); !errors.Is(err, entities.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}

	if _, err := env.boards.RenameBoard(ctx, alice, "bogus-id", ports.RenameBoardRequest{Name: "X"}); !errors.Is(err, entities.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestBoardOwnershipEnforcement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	bob := env.register(t, "bob", "secret2")

	board, err := env.boards.CreateBoard(ctx, alice, ports.CreateBoardRequest{Name: "Groceries"})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	if _, err := env.boards.RenameBoard(ctx, bob, board.ID, ports.RenameBoardRequest{Name: "Mine now"}); !errors.Is(err, entities.ErrForbidden) {
		t.Fatalf("rename by non-owner: expected ErrForbidden, got %v", err)
	}
	if _, err := env.boards.DeleteBoard(ctx, bob, board.ID); !errors.Is(err, entities.ErrForbidden) {
		t.Fatalf("delete by non-owner: expected ErrForbidden, got %v", err)
	}

	// A nonexistent board reports not-found before ownership is considered.
	missing := "00000000-0000-0000-0000-000000000000"
	if _, err := env.boards.RenameBoard(ctx, bob, missing, ports.RenameBoardRequest{Name: "X"}); !errors.Is(err, entities.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
}

func TestDeleteBoardCascadesTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	groceries, err := env.boards.CreateBoard(ctx, alice, ports.CreateBoardRequest{Name: "Groceries"})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	work, err := env.boards.CreateBoard(ctx, alice, ports.CreateBoardRequest{Name: "Work"})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	for _, title := range []string{"Buy milk", "Buy eggs"} {
		if _, err := env.tasks.CreateTask(ctx, alice, ports.CreateTaskRequest{BoardID: groceries.ID, Title: title}); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	keep, err := env.tasks.CreateTask(ctx, alice, ports.CreateTaskRequest{BoardID: work.ID, Title: "Report"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	removed, err := env.boards.DeleteBoard(ctx, alice, groceries.ID)
	if err != nil {
		t.Fatalf("delete board: %v", err)
	}
	if removed.ID != groceries.ID {
		t.Fatalf("unexpected removed board: %+v", removed)
	}

	// No task referencing the deleted board survives in the store.
	_ = env.store.View(func(doc *entities.Document) error {
		if leftover := doc.TasksByBoard(groceries.ID); len(leftover) != 0 {
			t.Fatalf("cascade left %d tasks behind", len(leftover))
		}
		if doc.TaskByID(keep.ID) == nil {
			t.Fatal("cascade deleted a task from another board")
		}
		return nil
	})

	// Listing tasks for the deleted board is now a not-found.
	if _, err := env.tasks.ListTasks(ctx, alice, groceries.ID); !errors.Is(err, entities.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
}
