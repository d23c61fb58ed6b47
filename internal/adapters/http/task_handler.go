package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks handles GET /tasks/:boardId
func (h *TaskHandler) ListTasks(c echo.Context) error {
	caller := CallerFromContext(c)
	boardID := c.Param("boardId")

	tasks, err := h.taskService.ListTasks(c.Request().Context(), caller, boardID)
	if err != nil {
		h.logger.Warnw("List tasks failed", "error", err, "board_id", boardID, "user_id", caller.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string][]*entities.Task{"tasks": tasks})
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(c echo.Context) error {
	caller := CallerFromContext(c)

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), caller, req)
	if err != nil {
		h.logger.Warnw("Create task failed", "error", err, "board_id", req.BoardID, "user_id", caller.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]*entities.Task{"task": task})
}

// UpdateTask handles PUT /tasks/:id
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	caller := CallerFromContext(c)
	taskID := c.Param("id")

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), caller, taskID, req)
	if err != nil {
		h.logger.Warnw("Update task failed", "error", err, "task_id", taskID, "user_id", caller.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]*entities.Task{"task": task})
}

// DeleteTask handles DELETE /tasks/:id
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	caller := CallerFromContext(c)
	taskID := c.Param("id")

	if err := h.taskService.DeleteTask(c.Request().Context(), caller, taskID); err != nil {
		h.logger.Warnw("Delete task failed", "error", err, "task_id", taskID, "user_id", caller.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Task deleted"})
}

// ReorderTasks handles PATCH /tasks/reorder
func (h *TaskHandler) ReorderTasks(c echo.Context) error {
	caller := CallerFromContext(c)

	var req ports.ReorderTasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ids array is required")
	}

	if err := h.taskService.ReorderTasks(c.Request().Context(), caller, req); err != nil {
		h.logger.Warnw("Reorder tasks failed", "error", err, "user_id", caller.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Reordered"})
}
