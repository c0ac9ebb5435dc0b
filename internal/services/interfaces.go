package services

import (
	"context"

	"github.com/google/uuid"

	"tasks-api/internal/domain"
)

// ListTasksRequest selects a page of live tasks. Bounds on Query, Offset and
// Limit are enforced by the caller boundary, not by the service.
type ListTasksRequest struct {
	Query  *string
	Offset int
	Limit  int
}

// CreateTaskRequest carries the fields of a new task. A nil Status means
// domain.DefaultTaskStatus.
type CreateTaskRequest struct {
	Text   string
	Status *domain.TaskStatus
}

// UpdateTaskRequest is a partial update: nil fields keep their stored value.
type UpdateTaskRequest struct {
	Text   *string
	Status *domain.TaskStatus
}

// IsEmpty reports whether the request supplies no fields at all.
func (r UpdateTaskRequest) IsEmpty() bool {
	return r.Text == nil && r.Status == nil
}

// TaskService handles the task lifecycle
type TaskService interface {
	// ListTasks returns live tasks newest first together with the total
	// number of matches, both read from one snapshot.
	ListTasks(ctx context.Context, req ListTasksRequest) (*domain.TaskPage, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)
	// GetTask looks a task up by id, including soft-deleted tasks.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*domain.Task, error)
	// DeleteTask soft-deletes a task. Deleting a deleted task succeeds.
	DeleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

// HealthService reports whether the backing store is usable
type HealthService interface {
	Check(ctx context.Context) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService   TaskService
	HealthService HealthService
}
