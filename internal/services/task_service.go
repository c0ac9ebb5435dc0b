package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tasks-api/internal/clock"
	"tasks-api/internal/domain"
	"tasks-api/internal/errors"
	"tasks-api/internal/logging"
	"tasks-api/internal/repository"
	"tasks-api/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          repository.Repository
	clock         clock.Clock
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
}

// NewTaskService creates a new TaskService instance. A nil validator uses
// the default limits.
func NewTaskService(repo repository.Repository, clk clock.Clock, taskValidator *validation.TaskValidator) TaskService {
	if taskValidator == nil {
		taskValidator = validation.NewTaskValidator()
	}
	return &taskServiceImpl{
		repo:          repo,
		clock:         clk,
		mapper:        domain.NewMapper(),
		taskValidator: taskValidator,
	}
}

// validateAndTrimText validates and trims task text
func (t *taskServiceImpl) validateAndTrimText(text string) (string, error) {
	trimmed, err := t.taskValidator.GetValidTaskText(text)
	if err != nil {
		return "", errors.NewValidationError("invalid task text", err)
	}
	return trimmed, nil
}

// validateStatus rejects statuses outside the closed enumeration
func (t *taskServiceImpl) validateStatus(status domain.TaskStatus) error {
	if _, err := t.taskValidator.ValidateStatus(status.String()); err != nil {
		return errors.NewValidationError("invalid task status", err)
	}
	return nil
}

// nextUpdatedAt keeps updated_at monotonic when the clock steps backwards
func (t *taskServiceImpl) nextUpdatedAt(previous time.Time) time.Time {
	now := t.clock.Now()
	if now.Before(previous) {
		return previous
	}
	return now
}

// ListTasks returns one page of live tasks plus the total match count
func (t *taskServiceImpl) ListTasks(ctx context.Context, req ListTasksRequest) (*domain.TaskPage, error) {
	query := domain.ListQuery{Text: req.Query, Offset: req.Offset, Limit: req.Limit}
	filter, page := t.mapper.ListQuery.ToDatabase(query)

	var rows []*repository.Task
	var total int64
	err := t.repo.WithinTx(ctx, repository.TxOptions{ReadOnly: true}, func(s repository.Store) error {
		var err error
		if total, err = s.CountTasks(ctx, filter); err != nil {
			return err
		}
		rows, err = s.ListTasks(ctx, filter, page)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &domain.TaskPage{
		Tasks:  t.mapper.Task.FromDatabaseSlice(rows),
		Total:  total,
		Offset: query.Offset,
		Limit:  query.Limit,
	}, nil
}

// CreateTask validates and stores a new task, returning it as committed
func (t *taskServiceImpl) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	text, err := t.validateAndTrimText(req.Text)
	if err != nil {
		return nil, err
	}

	status := domain.DefaultTaskStatus
	if req.Status != nil {
		if err := t.validateStatus(*req.Status); err != nil {
			return nil, err
		}
		status = *req.Status
	}

	now := t.clock.Now()
	row := t.mapper.Task.ToDatabase(domain.Task{
		Text:      text,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})

	var stored *repository.Task
	err = t.repo.WithinTx(ctx, repository.TxOptions{}, func(s repository.Store) error {
		if err := s.CreateTask(ctx, &row); err != nil {
			return err
		}
		var err error
		stored, err = s.GetTask(ctx, row.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	task := t.mapper.Task.FromDatabase(*stored)
	return &task, nil
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var stored *repository.Task
	err := t.repo.WithinTx(ctx, repository.TxOptions{ReadOnly: true}, func(s repository.Store) error {
		var err error
		stored, err = s.GetTask(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	task := t.mapper.Task.FromDatabase(*stored)
	return &task, nil
}

// UpdateTask applies the supplied fields to an existing task.
// Setting status to deleted behaves like DeleteTask. A deleted task rejects
// any other change with a conflict.
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*domain.Task, error) {
	var text *string
	if req.Text != nil {
		trimmed, err := t.validateAndTrimText(*req.Text)
		if err != nil {
			return nil, err
		}
		text = &trimmed
	}
	if req.Status != nil {
		if err := t.validateStatus(*req.Status); err != nil {
			return nil, err
		}
	}

	var stored *repository.Task
	err := t.repo.WithinTx(ctx, repository.TxOptions{}, func(s repository.Store) error {
		current, err := s.GetTask(ctx, id)
		if err != nil {
			return err
		}

		if req.IsEmpty() {
			stored = current
			return nil
		}

		if current.Status == domain.StatusDeleted.String() && !reassertsDeleted(req) {
			return errors.NewConflictError("task", id.String(), "task is deleted")
		}

		patch := repository.TaskPatch{Text: text, UpdatedAt: t.nextUpdatedAt(current.UpdatedAt)}
		if req.Status != nil {
			status := req.Status.String()
			patch.Status = &status
		}

		if err := s.UpdateTask(ctx, id, patch); err != nil {
			return err
		}
		stored, err = s.GetTask(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	task := t.mapper.Task.FromDatabase(*stored)
	return &task, nil
}

// DeleteTask marks a task deleted and refreshes updated_at, even when it
// was already deleted
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	deleted := domain.StatusDeleted.String()

	var stored *repository.Task
	err := t.repo.WithinTx(ctx, repository.TxOptions{}, func(s repository.Store) error {
		current, err := s.GetTask(ctx, id)
		if err != nil {
			return err
		}

		patch := repository.TaskPatch{Status: &deleted, UpdatedAt: t.nextUpdatedAt(current.UpdatedAt)}
		if err := s.UpdateTask(ctx, id, patch); err != nil {
			return err
		}
		stored, err = s.GetTask(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.Debugf("task %s marked as deleted\n", id)
	task := t.mapper.Task.FromDatabase(*stored)
	return &task, nil
}

// reassertsDeleted reports whether req only sets status to deleted
func reassertsDeleted(req UpdateTaskRequest) bool {
	return req.Text == nil && req.Status != nil && *req.Status == domain.StatusDeleted
}
