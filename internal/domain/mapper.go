package domain

import (
	"tasks-api/internal/repository"
)

// TaskMapper handles conversion between domain and storage Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a storage row.
func (m *TaskMapper) ToDatabase(task Task) repository.Task {
	return repository.Task{
		ID:        task.ID,
		Text:      task.Text,
		Status:    task.Status.String(),
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// FromDatabase converts a storage row to a domain Task.
func (m *TaskMapper) FromDatabase(row repository.Task) Task {
	return Task{
		ID:        row.ID,
		Text:      row.Text,
		Status:    TaskStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// FromDatabaseSlice converts storage rows to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(rows []*repository.Task) []Task {
	tasks := make([]Task, len(rows))
	for i, row := range rows {
		tasks[i] = m.FromDatabase(*row)
	}
	return tasks
}

// ListQueryMapper turns a listing request into storage filter and page.
type ListQueryMapper struct{}

// NewListQueryMapper creates a new ListQueryMapper instance.
func NewListQueryMapper() *ListQueryMapper {
	return &ListQueryMapper{}
}

// ToDatabase builds the storage filter for q. Deleted tasks are always excluded.
func (m *ListQueryMapper) ToDatabase(q ListQuery) (repository.TaskFilter, repository.Page) {
	return repository.TaskFilter{
			Text:          q.Text,
			ExcludeStatus: StatusDeleted.String(),
		}, repository.Page{
			Offset: q.Offset,
			Limit:  q.Limit,
		}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task      *TaskMapper
	ListQuery *ListQueryMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task:      NewTaskMapper(),
		ListQuery: NewListQueryMapper(),
	}
}
