package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// TaskService handles task management operations
type TaskService struct {
	store  ports.DocumentStore
	logger *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(store ports.DocumentStore, logger *logger.Logger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
	}
}

// ListTasks returns the tasks of a board in store order. The board must
// exist and belong to the caller.
func (s *TaskService) ListTasks(ctx context.Context, caller *ports.Identity, boardID string) ([]*entities.Task, error) {
	if !entities.IsUUID(boardID) {
		return nil, entities.ErrInvalidID
	}

	var tasks []*entities.Task
	err := s.store.View(func(doc *entities.Document) error {
		board := doc.BoardByID(boardID)
		if board == nil {
			return entities.ErrBoardNotFound
		}
		if !board.OwnedBy(caller.ID) {
			return entities.ErrForbidden
		}
		tasks = doc.TasksByBoard(boardID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// CreateTask creates a task on a board owned by the caller. New tasks start
// pending and are appended to the end of the global task collection.
func (s *TaskService) CreateTask(ctx context.Context, caller *ports.Identity, req ports.CreateTaskRequest) (*entities.Task, error) {
	boardID := strings.TrimSpace(req.BoardID)
	if !entities.IsUUID(boardID) {
		return nil, entities.ErrInvalidID
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, entities.ErrTitleRequired
	}

	task := &entities.Task{
		ID:        uuid.NewString(),
		BoardID:   boardID,
		Title:     title,
		Status:    entities.TaskStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}

	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		due := strings.TrimSpace(*req.DueDate)
		if _, err := entities.ParseDate(due); err != nil {
			return nil, entities.ErrInvalidDueDate
		}
		task.DueDate = due
	}

	if req.Priority != nil && strings.TrimSpace(*req.Priority) != "" {
		priority := entities.Priority(strings.TrimSpace(*req.Priority))
		if !priority.IsValid() {
			return nil, entities.ErrInvalidPriority
		}
		task.Priority = priority
	}

	err := s.store.Update(func(doc *entities.Document) error {
		board := doc.BoardByID(boardID)
		if board == nil {
			return entities.ErrBoardNotFound
		}
		if !board.OwnedBy(caller.ID) {
			return entities.ErrForbidden
		}
		doc.Tasks = append(doc.Tasks, task)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task created", "task_id", task.ID, "board_id", boardID, "user_id", caller.ID)

	return task, nil
}

// UpdateTask applies a partial patch to a task. Each present field is
// validated and applied independently; absent fields stay untouched.
func (s *TaskService) UpdateTask(ctx context.Context, caller *ports.Identity, taskID string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	if !entities.IsUUID(taskID) {
		return nil, entities.ErrInvalidID
	}

	var task *entities.Task
	err := s.store.Update(func(doc *entities.Document) error {
		task = doc.TaskByID(taskID)
		if task == nil {
			return entities.ErrTaskNotFound
		}
		board := doc.BoardByID(task.BoardID)
		if board == nil || !board.OwnedBy(caller.ID) {
			return entities.ErrForbidden
		}

		return applyTaskPatch(task, req)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task updated", "task_id", task.ID, "user_id", caller.ID)

	return task, nil
}

// DeleteTask removes a task from the collection.
func (s *TaskService) DeleteTask(ctx context.Context, caller *ports.Identity, taskID string) error {
	if !entities.IsUUID(taskID) {
		return entities.ErrInvalidID
	}

	err := s.store.Update(func(doc *entities.Document) error {
		index := -1
		for i, t := range doc.Tasks {
			if t.ID == taskID {
				index = i
				break
			}
		}
		if index == -1 {
			return entities.ErrTaskNotFound
		}
		board := doc.BoardByID(doc.Tasks[index].BoardID)
		if board == nil || !board.OwnedBy(caller.ID) {
			return entities.ErrForbidden
		}
		doc.Tasks = append(doc.Tasks[:index], doc.Tasks[index+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Infow("Task deleted", "task_id", taskID, "user_id", caller.ID)

	return nil
}

// ReorderTasks rebuilds the global task collection: the tasks named in ids
// come first, in the given order, followed by every other task in its
// current relative order. Ids that match no task are skipped. The caller
// must own every board touched by the named tasks or the whole batch fails.
func (s *TaskService) ReorderTasks(ctx context.Context, caller *ports.Identity, req ports.ReorderTasksRequest) error {
	if len(req.IDs) == 0 {
		return entities.ErrEmptyReorder
	}
	for _, id := range req.IDs {
		if !entities.IsUUID(id) {
			return entities.ErrInvalidID
		}
	}

	err := s.store.Update(func(doc *entities.Document) error {
		idSet := make(map[string]bool, len(req.IDs))
		for _, id := range req.IDs {
			idSet[id] = true
		}

		// A single unauthorized task anywhere in the batch aborts the
		// whole reorder before anything moves.
		touched := map[string]bool{}
		for _, t := range doc.Tasks {
			if idSet[t.ID] {
				touched[t.BoardID] = true
			}
		}
		for boardID := range touched {
			board := doc.BoardByID(boardID)
			if board == nil || !board.OwnedBy(caller.ID) {
				return entities.ErrForbidden
			}
		}

		listed := make(map[string]*entities.Task)
		unlisted := make([]*entities.Task, 0, len(doc.Tasks))
		for _, t := range doc.Tasks {
			if idSet[t.ID] {
				listed[t.ID] = t
			} else {
				unlisted = append(unlisted, t)
			}
		}

		reordered := make([]*entities.Task, 0, len(doc.Tasks))
		for _, id := range req.IDs {
			if t, ok := listed[id]; ok {
				reordered = append(reordered, t)
			}
		}
		doc.Tasks = append(reordered, unlisted...)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Infow("Tasks reordered", "count", len(req.IDs), "user_id", caller.ID)

	return nil
}

var jsonNull = []byte("null")

func applyTaskPatch(task *entities.Task, req ports.UpdateTaskRequest) error {
	if req.Status != nil {
		status := entities.TaskStatus(strings.TrimSpace(*req.Status))
		if !status.IsValid() {
			return entities.ErrInvalidStatus
		}
		task.Status = status
	}

	if req.Priority != nil {
		priority := entities.Priority(strings.TrimSpace(*req.Priority))
		if !priority.IsValid() {
			return entities.ErrInvalidPriority
		}
		task.Priority = priority
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}

	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}

	// dueDate is tri-state: absent leaves the field untouched, an explicit
	// JSON null clears it, a string must parse as a date.
	if len(req.DueDate) > 0 {
		if bytes.Equal(bytes.TrimSpace(req.DueDate), jsonNull) {
			task.DueDate = ""
		} else {
			var due string
			if err := json.Unmarshal(req.DueDate, &due); err != nil {
				return entities.ErrInvalidDueDate
			}
			due = strings.TrimSpace(due)
			if due == "" {
				task.DueDate = ""
			} else {
				if _, err := entities.ParseDate(due); err != nil {
					return entities.ErrInvalidDueDate
				}
				task.DueDate = due
			}
		}
	}

	return nil
}
