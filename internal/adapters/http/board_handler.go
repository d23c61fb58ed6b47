package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// BoardHandler handles board-related requests
type BoardHandler struct {
	boardService ports.BoardService
	logger       *logger.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService ports.BoardService, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		logger:       logger,
	}
}

// ListBoards handles GET /boards
func (h *BoardHandler) ListBoards(c echo.Context) error {
	caller := CallerFromContext(c)

	boards, err := h.boardService.ListBoards(c.Request().Context(), caller)
	if err != nil {
		h.logger.Errorw("List boards failed", "error", err, "user_id", caller.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string][]*entities.Board{"boards": boards})
}

// CreateBoard handles POST /boards
func (h *BoardHandler) CreateBoard(c echo.Context) error {
	caller := CallerFromContext(c)

	var req ports.CreateBoardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	board, err := h.boardService.CreateBoard(c.Request().Context(), caller, req)
	if err != nil {
		h.logger.Warnw("Create board failed", "error", err, "user_id", caller.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]*entities.Board{"board": board})
}

// RenameBoard handles PUT /boards/:id
func (h *BoardHandler) RenameBoard(c echo.Context) error {
	caller := CallerFromContext(c)
	boardID := c.Param("id")

	var req ports.RenameBoardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	board, err := h.boardService.RenameBoard(c.Request().Context(), caller, boardID, req)
	if err != nil {
		h.logger.Warnw("Rename board failed", "error", err, "board_id", boardID, "user_id", caller.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]*entities.Board{"board": board})
}

// DeleteBoard handles DELETE /boards/:id
func (h *BoardHandler) DeleteBoard(c echo.Context) error {
	caller := CallerFromContext(c)
	boardID := c.Param("id")

	board, err := h.boardService.DeleteBoard(c.Request().Context(), caller, boardID)
	if err != nil {
		h.logger.Warnw("Delete board failed", "error", err, "board_id", boardID, "user_id", caller.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Board deleted",
		"board":   board,
	})
}
