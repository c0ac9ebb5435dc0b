package api

import (
	"context"

	"github.com/google/uuid"

	"tasks-api/internal/config"
	"tasks-api/internal/domain"
	"tasks-api/internal/errors"
	"tasks-api/internal/services"
	"tasks-api/internal/validation"
)

// ListParams are the raw listing parameters supplied by a caller. Nil
// fields take the configured defaults.
type ListParams struct {
	Query  *string
	Offset *int
	Limit  *int
}

// BusinessAPI is the boundary shared by the HTTP server and the CLI. It
// parses and validates caller input, then delegates to the task service.
type BusinessAPI interface {
	// ListTasks returns one page of live tasks, newest first
	ListTasks(ctx context.Context, params ListParams) (*domain.TaskPage, error)

	// CreateTask stores a new task. A nil status means not_done.
	CreateTask(ctx context.Context, text string, status *string) (*domain.Task, error)

	// GetTask returns a task by id, including soft-deleted tasks
	GetTask(ctx context.Context, id string) (*domain.Task, error)

	// UpdateTask applies the supplied fields to an existing task
	UpdateTask(ctx context.Context, id string, text, status *string) (*domain.Task, error)

	// DeleteTask marks a task as deleted
	DeleteTask(ctx context.Context, id string) (*domain.Task, error)

	// Health reports whether storage is reachable
	Health(ctx context.Context) error
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	tasks         services.TaskService
	health        services.HealthService
	taskValidator *validation.TaskValidator
}

// NewBusinessAPI creates a new BusinessAPI instance. A nil cfg uses the
// default validation limits.
func NewBusinessAPI(container *services.ServiceContainer, cfg *config.Config) BusinessAPI {
	taskValidator := validation.NewTaskValidator()
	if cfg != nil {
		taskValidator = validation.NewTaskValidatorWithConfig(cfg)
	}

	return &businessAPIImpl{
		tasks:         container.TaskService,
		health:        container.HealthService,
		taskValidator: taskValidator,
	}
}

func (b *businessAPIImpl) ListTasks(ctx context.Context, params ListParams) (*domain.TaskPage, error) {
	offset := 0
	if params.Offset != nil {
		offset = *params.Offset
	}
	limit := b.taskValidator.DefaultLimit()
	if params.Limit != nil {
		limit = *params.Limit
	}

	if err := b.taskValidator.ValidateListQuery(params.Query, offset, limit); err != nil {
		return nil, errors.NewValidationError("invalid list parameters", err)
	}

	return b.tasks.ListTasks(ctx, services.ListTasksRequest{
		Query:  params.Query,
		Offset: offset,
		Limit:  limit,
	})
}

func (b *businessAPIImpl) CreateTask(ctx context.Context, text string, status *string) (*domain.Task, error) {
	parsed, err := b.parseStatus(status)
	if err != nil {
		return nil, err
	}

	return b.tasks.CreateTask(ctx, services.CreateTaskRequest{Text: text, Status: parsed})
}

func (b *businessAPIImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	taskID, err := b.parseID(id)
	if err != nil {
		return nil, err
	}

	return b.tasks.GetTask(ctx, taskID)
}

func (b *businessAPIImpl) UpdateTask(ctx context.Context, id string, text, status *string) (*domain.Task, error) {
	taskID, err := b.parseID(id)
	if err != nil {
		return nil, err
	}

	parsed, err := b.parseStatus(status)
	if err != nil {
		return nil, err
	}

	return b.tasks.UpdateTask(ctx, taskID, services.UpdateTaskRequest{Text: text, Status: parsed})
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	taskID, err := b.parseID(id)
	if err != nil {
		return nil, err
	}

	return b.tasks.DeleteTask(ctx, taskID)
}

func (b *businessAPIImpl) Health(ctx context.Context) error {
	return b.health.Check(ctx)
}

// parseID turns a caller-supplied id into a UUID. A malformed id cannot name
// a stored task, so it reports NotFound rather than a validation failure.
func (b *businessAPIImpl) parseID(id string) (uuid.UUID, error) {
	taskID, err := b.taskValidator.ValidateTaskID(id)
	if err != nil {
		return uuid.Nil, errors.NewNotFoundError("task", id).WithContext("reason", "malformed id")
	}
	return taskID, nil
}

func (b *businessAPIImpl) parseStatus(status *string) (*domain.TaskStatus, error) {
	if status == nil {
		return nil, nil
	}
	parsed, err := b.taskValidator.ValidateStatus(*status)
	if err != nil {
		return nil, errors.NewValidationError("invalid task status", err)
	}
	return &parsed, nil
}
