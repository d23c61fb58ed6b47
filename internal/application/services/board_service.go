package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// BoardService handles board management operations
type BoardService struct {
	store  ports.DocumentStore
	logger *logger.Logger
}

// NewBoardService creates a new board service
func NewBoardService(store ports.DocumentStore, logger *logger.Logger) *BoardService {
	return &BoardService{
		store:  store,
		logger: logger,
	}
}

// ListBoards returns the caller's boards in store order
func (s *BoardService) ListBoards(ctx context.Context, caller *ports.Identity) ([]*entities.Board, error) {
	var boards []*entities.Board
	err := s.store.View(func(doc *entities.Document) error {
		boards = doc.BoardsByUser(caller.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return boards, nil
}

// CreateBoard creates a new board owned by the caller
func (s *BoardService) CreateBoard(ctx context.Context, caller *ports.Identity, req ports.CreateBoardRequest) (*entities.Board, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entities.ErrNameRequired
	}

	board := &entities.Board{
		ID:        uuid.NewString(),
		UserID:    caller.ID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	err := s.store.Update(func(doc *entities.Document) error {
		doc.Boards = append(doc.Boards, board)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Board created", "board_id", board.ID, "user_id", caller.ID, "name", board.Name)

	return board, nil
}

// RenameBoard renames a board. The board must exist and belong to the caller.
func (s *BoardService) RenameBoard(ctx context.Context, caller *ports.Identity, boardID string, req ports.RenameBoardRequest) (*entities.Board, error) {
	if !entities.IsUUID(boardID) {
		return nil, entities.ErrInvalidID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entities.ErrNameRequired
	}

	var board *entities.Board
	err := s.store.Update(func(doc *entities.Document) error {
		board = doc.BoardByID(boardID)
		if board == nil {
			return entities.ErrBoardNotFound
		}
		if !board.OwnedBy(caller.ID) {
			return entities.ErrForbidden
		}
		board.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Board renamed", "board_id", board.ID, "user_id", caller.ID, "name", name)

	return board, nil
}

// DeleteBoard removes a board and every task on it in one write.
func (s *BoardService) DeleteBoard(ctx context.Context, caller *ports.Identity, boardID string) (*entities.Board, error) {
	if !entities.IsUUID(boardID) {
		return nil, entities.ErrInvalidID
	}

	var removed *entities.Board
	err := s.store.Update(func(doc *entities.Document) error {
		index := -1
		for i, b := range doc.Boards {
			if b.ID == boardID {
				index = i
				break
			}
		}
		if index == -1 {
			return entities.ErrBoardNotFound
		}
		if !doc.Boards[index].OwnedBy(caller.ID) {
			return entities.ErrForbidden
		}

		removed = doc.Boards[index]
		doc.Boards = append(doc.Boards[:index], doc.Boards[index+1:]...)

		remaining := doc.Tasks[:0]
		for _, t := range doc.Tasks {
			if t.BoardID != boardID {
				remaining = append(remaining, t)
			}
		}
		doc.Tasks = remaining
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Board deleted", "board_id", removed.ID, "user_id", caller.ID)

	return removed, nil
}
