package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tasks-api/internal/errors"
	"tasks-api/internal/logging"
	"tasks-api/internal/repository"
	"tasks-api/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements repository.Repository on an embedded SQLite database
type SQLiteRepository struct {
	db *sql.DB
}

var _ repository.Repository = (*SQLiteRepository)(nil)

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for a private in-memory database.
func New(dbPath string) (*SQLiteRepository, error) {
	if err := registerCasefold(); err != nil {
		return nil, errors.NewDatabaseError("register casefold function", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// SQLite allows a single writer, and every :memory: connection is a
	// separate database, so the pool is pinned to one connection.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	logging.Debugf("sqlite repository ready at %s\n", dbPath)
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping checks that the database is reachable
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return HandleDatabaseError("ping", err)
	}
	return nil
}

// WithinTx runs fn inside a single SQLite transaction. SQLite reads inside a
// transaction see one snapshot, so opts.ReadOnly needs no extra handling.
func (r *SQLiteRepository) WithinTx(ctx context.Context, opts repository.TxOptions, fn func(repository.Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&taskStore{q: tx}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError("commit transaction", err)
	}
	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	committed = true
	return nil
}

// taskStore runs task queries against one transaction
type taskStore struct {
	q querier
}

// CreateTask inserts a new task row
func (s *taskStore) CreateTask(ctx context.Context, task *repository.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	query := `
	INSERT INTO tasks (id, text, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)`

	return Execute(ctx, s.q, "insert task", query,
		task.ID.String(), task.Text, task.Status,
		FormatTimeForDB(task.CreatedAt), FormatTimeForDB(task.UpdatedAt))
}

// GetTask retrieves a task by ID, including deleted tasks
func (s *taskStore) GetTask(ctx context.Context, id uuid.UUID) (*repository.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return QuerySingle(ctx, s.q, query, ScanTask, "task", id.String(), id.String())
}

// ListTasks returns one page of matching tasks, newest first
func (s *taskStore) ListTasks(ctx context.Context, filter repository.TaskFilter, page repository.Page) ([]*repository.Task, error) {
	where, args := buildWhere(filter)

	// rowid follows insertion order, which breaks created_at ties deterministically
	query := `SELECT ` + taskColumns + ` FROM tasks` + where +
		` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	return QueryMultiple(ctx, s.q, query, ScanTasks, "tasks", args...)
}

// CountTasks counts all tasks matching filter, ignoring pagination
func (s *taskStore) CountTasks(ctx context.Context, filter repository.TaskFilter) (int64, error) {
	where, args := buildWhere(filter)
	query := `SELECT COUNT(*) FROM tasks` + where
	return QueryCount(ctx, s.q, query, "tasks", args...)
}

// UpdateTask writes the fields present in patch
func (s *taskStore) UpdateTask(ctx context.Context, id uuid.UUID, patch repository.TaskPatch) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{FormatTimeForDB(patch.UpdatedAt)}

	if patch.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *patch.Text)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = ?`, strings.Join(sets, ", "))
	args = append(args, id.String())

	return ExecuteWithRowsAffected(ctx, s.q, query, "task", id.String(), args...)
}

// buildWhere renders filter as a WHERE clause and its arguments. Both sides
// of the text match go through casefold so non-ASCII letters compare
// without case.
func buildWhere(filter repository.TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ExcludeStatus != "" {
		conditions = append(conditions, "status <> ?")
		args = append(args, filter.ExcludeStatus)
	}

	if filter.Text != nil && *filter.Text != "" {
		conditions = append(conditions, casefoldFunc+`(text) LIKE `+casefoldFunc+`(?) ESCAPE '\'`)
		args = append(args, repository.ContainsPattern(*filter.Text))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
