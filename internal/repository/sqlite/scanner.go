package sqlite

import (
	"fmt"

	"github.com/google/uuid"

	"tasks-api/internal/repository"
)

// taskColumns is the column list every task query selects, in scan order.
const taskColumns = "id, text, status, created_at, updated_at"

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task row selected with taskColumns
func ScanTask(scanner Scanner) (*repository.Task, error) {
	var (
		id        string
		createdAt string
		updatedAt string
	)
	task := &repository.Task{}

	if err := scanner.Scan(&id, &task.Text, &task.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if task.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", id, err)
	}
	if task.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for task %s: %w", id, err)
	}
	if task.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at for task %s: %w", id, err)
	}

	return task, nil
}

// ScanTasks scans multiple task rows
func ScanTasks(rows Rows) ([]*repository.Task, error) {
	tasks := make([]*repository.Task, 0)
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
