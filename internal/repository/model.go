package repository

import (
	"time"

	"github.com/google/uuid"
)

// Task is the storage row for a task.
type Task struct {
	ID        uuid.UUID
	Text      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskFilter selects rows for listing and counting.
// A nil Text means no text filter; ExcludeStatus is skipped when empty.
type TaskFilter struct {
	Text          *string
	ExcludeStatus string
}

// Page is an offset/limit window over an ordered result set.
type Page struct {
	Offset int
	Limit  int
}

// TaskPatch is a partial update. Nil fields are left untouched;
// UpdatedAt is always written.
type TaskPatch struct {
	Text      *string
	Status    *string
	UpdatedAt time.Time
}
