package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusNotDone TaskStatus = "not_done"
	StatusDone    TaskStatus = "done"
	StatusDeleted TaskStatus = "deleted"
)

// DefaultTaskStatus is applied when a task is created without a status.
const DefaultTaskStatus = StatusNotDone

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{StatusNotDone, StatusDone, StatusDeleted}

// ParseTaskStatus converts s to a TaskStatus, reporting whether it is known.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	status := TaskStatus(strings.TrimSpace(s))
	return status, status.IsValid()
}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNotDone, StatusDone, StatusDeleted:
		return true
	}
	return false
}

func (s TaskStatus) String() string {
	return string(s)
}

// Task is a unit of work tracked by the service.
// Deleted tasks are soft-deleted: they keep their row and drop out of listings.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	Text      string     `json:"text"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsDeleted reports whether the task has been soft-deleted.
func (t Task) IsDeleted() bool {
	return t.Status == StatusDeleted
}

// IsValid checks the task invariants: non-blank text, a known status and
// an update time no earlier than the creation time.
func (t Task) IsValid() bool {
	return strings.TrimSpace(t.Text) != "" &&
		t.Status.IsValid() &&
		!t.UpdatedAt.Before(t.CreatedAt)
}

// String returns the task text for display purposes.
func (t Task) String() string {
	return t.Text
}
