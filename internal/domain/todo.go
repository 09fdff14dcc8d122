package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Priority represents how urgent a todo item is.
type Priority string

// Possible priority values
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// DefaultPriority is assigned when a todo is created without a priority.
const DefaultPriority = PriorityMedium

// MaxTitleLength is the maximum number of characters allowed in a title.
const MaxTitleLength = 500

// Todo-specific validation errors
var (
	ErrEmptyTodoID      = errors.New("todo ID cannot be empty")
	ErrEmptyTodoTitle   = errors.New("todo title cannot be empty")
	ErrTodoTitleTooLong = errors.New("todo title is too long")
)

// Todo is a single work item tracked by the team.
// CreatedAt is assigned once on creation and never changes afterwards.
type Todo struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"is_completed"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTodo creates a new, not yet completed Todo with the given title and priority.
// An empty priority falls back to DefaultPriority. The title is trimmed.
// Returns an error if validation fails.
func NewTodo(title string, priority Priority) (*Todo, error) {
	if priority == "" {
		priority = DefaultPriority
	}

	now := time.Now().UTC()
	todo := &Todo{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		IsCompleted: false,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := todo.Validate(); err != nil {
		return nil, err
	}

	return todo, nil
}

// Validate checks if the Todo has valid data.
func (t *Todo) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTodoID
	}

	if err := ValidateTitle(t.Title); err != nil {
		return err
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	return nil
}

// ApplyPatch applies the non-nil fields of patch to the todo and touches UpdatedAt.
// The todo is left unchanged if the patched values are invalid.
func (t *Todo) ApplyPatch(patch TodoPatch) error {
	updated := *t

	if patch.Title != nil {
		updated.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.IsCompleted != nil {
		updated.IsCompleted = *patch.IsCompleted
	}
	if patch.Priority != nil {
		updated.Priority = *patch.Priority
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now().UTC()
	*t = updated
	return nil
}

// TodoPatch describes a partial update. Nil fields are left untouched.
type TodoPatch struct {
	Title       *string
	IsCompleted *bool
	Priority    *Priority
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.IsCompleted == nil && p.Priority == nil
}

// ValidateTitle checks that a title is non-empty after trimming and not too long.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrEmptyTodoTitle
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return ErrTodoTitleTooLong
	}
	return nil
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// ParsePriority converts a string to a Priority, accepting any letter case.
// An empty string yields DefaultPriority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultPriority, nil
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	default:
		return "", ErrInvalidPriority
	}
}
