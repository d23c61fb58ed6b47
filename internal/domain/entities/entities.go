package entities

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrBoardNotFound      = errors.New("board not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNameRequired       = errors.New("board name is required")
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidDueDate     = errors.New("invalid due date")
	ErrInvalidID          = errors.New("invalid id")
	ErrEmptyReorder       = errors.New("ids array is required")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Enums and types
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// User represents a registered account. The password hash is persisted but
// never serialized into API responses; handlers expose Identity instead.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// Board represents a task board owned by a single user.
type Board struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task represents a task on a board. Order within Document.Tasks is
// application data and must be preserved by every mutation.
type Task struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"boardId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority,omitempty"`
	DueDate     string     `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Document is the full datastore snapshot as persisted on disk.
type Document struct {
	Users  []*User  `json:"users"`
	Boards []*Board `json:"boards"`
	Tasks  []*Task  `json:"tasks"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *Document {
	return &Document{
		Users:  []*User{},
		Boards: []*Board{},
		Tasks:  []*Task{},
	}
}

// Normalize replaces nil collections with empty ones so the document always
// marshals to the canonical {users,boards,tasks} shape.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []*User{}
	}
	if d.Boards == nil {
		d.Boards = []*Board{}
	}
	if d.Tasks == nil {
		d.Tasks = []*Task{}
	}
}

// Lookup helpers. All of them preserve store order.

func (d *Document) UserByUsername(username string) *User {
	for _, u := range d.Users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (d *Document) BoardByID(id string) *Board {
	for _, b := range d.Boards {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (d *Document) TaskByID(id string) *Task {
	for _, t := range d.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (d *Document) BoardsByUser(userID string) []*Board {
	boards := []*Board{}
	for _, b := range d.Boards {
		if b.UserID == userID {
			boards = append(boards, b)
		}
	}
	return boards
}

func (d *Document) TasksByBoard(boardID string) []*Task {
	tasks := []*Task{}
	for _, t := range d.Tasks {
		if t.BoardID == boardID {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Business logic methods for Board
func (b *Board) OwnedBy(userID string) bool {
	return b.UserID == userID
}

// Business logic methods for Task
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == "" || t.Status == TaskStatusCompleted {
		return false
	}
	due, err := ParseDate(t.DueDate)
	if err != nil {
		return false
	}
	return now.After(due)
}

// Utility methods
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

var idPattern = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)

// IsUUID reports whether id looks like a 36-character UUID string, the only
// identifier format the datastore ever contains.
func IsUUID(id string) bool {
	return idPattern.MatchString(id)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses the due-date formats clients send: full RFC 3339
// timestamps, timestamps without a zone, or bare dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDueDate
}
