package ports

import (
	"context"
	"encoding/json"

	"github.com/taskboard/core/internal/domain/entities"
)

// DocumentStore is the port the services use to read and mutate the
// datastore document. Update persists the document only when fn returns nil.
type DocumentStore interface {
	View(fn func(doc *entities.Document) error) error
	Update(fn func(doc *entities.Document) error) error
}

// AuthService interface for registration, login and session tokens
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*Identity, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	ValidateToken(tokenString string) (*Claims, error)
	ResolveCaller(tokenString string) *Identity
}

// BoardService interface for board management operations
type BoardService interface {
	ListBoards(ctx context.Context, caller *Identity) ([]*entities.Board, error)
	CreateBoard(ctx context.Context, caller *Identity, req CreateBoardRequest) (*entities.Board, error)
	RenameBoard(ctx context.Context, caller *Identity, boardID string, req RenameBoardRequest) (*entities.Board, error)
	DeleteBoard(ctx context.Context, caller *Identity, boardID string) (*entities.Board, error)
}

// TaskService interface for task management operations
type TaskService interface {
	ListTasks(ctx context.Context, caller *Identity, boardID string) ([]*entities.Task, error)
	CreateTask(ctx context.Context, caller *Identity, req CreateTaskRequest) (*entities.Task, error)
	UpdateTask(ctx context.Context, caller *Identity, taskID string, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, caller *Identity, taskID string) error
	ReorderTasks(ctx context.Context, caller *Identity, req ReorderTasksRequest) error
}

// Identity is the minimal caller identity embedded in session tokens. The
// token payload is trusted as-is for the rest of the request; the backing
// user record is never re-fetched.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Claims are the application claims carried by a session token.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Request/Response Types

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the signed token alongside the identity. The token is
// delivered as a cookie by the HTTP layer, never in the response body.
type LoginResult struct {
	Token     string
	ExpiresIn int64
	User      *Identity
}

type CreateBoardRequest struct {
	Name string `json:"name" validate:"required"`
}

type RenameBoardRequest struct {
	Name string `json:"name" validate:"required"`
}

type CreateTaskRequest struct {
	BoardID     string  `json:"boardId" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
}

// UpdateTaskRequest is a partial patch: nil fields are left untouched.
// DueDate keeps the raw JSON so an explicit null (clear the date) can be
// told apart from an absent field.
type UpdateTaskRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	Priority    *string         `json:"priority"`
	DueDate     json.RawMessage `json:"dueDate"`
}

type ReorderTasksRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
