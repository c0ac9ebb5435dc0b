package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Store is the set of task operations available inside one transaction.
type Store interface {
	// CreateTask inserts the row, assigning a new UUID when task.ID is zero.
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	// ListTasks returns matching rows newest first.
	ListTasks(ctx context.Context, filter TaskFilter, page Page) ([]*Task, error)
	CountTasks(ctx context.Context, filter TaskFilter) (int64, error)
	// UpdateTask applies patch to an existing row and reports NotFound when
	// no row has the id.
	UpdateTask(ctx context.Context, id uuid.UUID, patch TaskPatch) error
}

// TxOptions configures a transactional scope.
type TxOptions struct {
	ReadOnly bool
}

// Repository is a transactional task store.
type Repository interface {
	// WithinTx runs fn in a single transaction. The transaction commits when fn
	// returns nil and rolls back when fn fails, panics, or ctx is cancelled.
	WithinTx(ctx context.Context, opts TxOptions, fn func(Store) error) error
	Ping(ctx context.Context) error
	Close() error
}

// EscapeLike escapes the LIKE wildcards in s using backslash, so the
// result matches s literally inside a '%...%' pattern.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ContainsPattern builds a LIKE pattern matching any value that contains s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
