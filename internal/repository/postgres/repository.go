package postgres

import (
	"context"
	_ "embed"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"tasks-api/internal/errors"
	"tasks-api/internal/logging"
	"tasks-api/internal/repository"
)

//go:embed schema.sql
var schema string

const taskColumns = "id, text, status, created_at, updated_at"

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys
const uniqueViolation = "23505"

// PostgresRepository implements repository.Repository on a pgx connection pool
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ repository.Repository = (*PostgresRepository)(nil)

// New connects to databaseURL and makes sure the tasks schema exists
func New(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.NewDatabaseError("connect", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, handleError("ping", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, handleError("apply schema", err)
	}

	logging.Debugln("postgres repository ready")
	return &PostgresRepository{pool: pool}, nil
}

// Close releases every pooled connection
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Ping checks that the database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return handleError("ping", err)
	}
	return nil
}

// WithinTx runs fn in one transaction. Read-only scopes use REPEATABLE READ so
// a count and the page that follows it observe the same snapshot.
func (r *PostgresRepository) WithinTx(ctx context.Context, opts repository.TxOptions, fn func(repository.Store) error) error {
	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	if opts.ReadOnly {
		txOpts = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	}

	tx, err := r.pool.BeginTx(ctx, txOpts)
	if err != nil {
		return handleError("begin transaction", err)
	}

	committed := false
	defer func() {
		if !committed {
			// ctx may already be cancelled, the rollback must still reach the server
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err := fn(&taskStore{tx: tx}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError("commit transaction", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return handleError("commit transaction", err)
	}
	committed = true
	return nil
}

type taskStore struct {
	tx pgx.Tx
}

func (s *taskStore) CreateTask(ctx context.Context, task *repository.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	query := `
	INSERT INTO tasks (id, text, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)`

	_, err := s.tx.Exec(ctx, query, pgUUID(task.ID), task.Text, task.Status,
		task.CreatedAt.UTC(), task.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewConflictError("task", task.ID.String(), "already exists")
		}
		return handleError("insert task", err)
	}
	return nil
}

func (s *taskStore) GetTask(ctx context.Context, id uuid.UUID) (*repository.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(s.tx.QueryRow(ctx, query, pgUUID(id)))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("task", id.String())
		}
		return nil, handleError("get task", err)
	}
	return task, nil
}

func (s *taskStore) ListTasks(ctx context.Context, filter repository.TaskFilter, page repository.Page) ([]*repository.Task, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM tasks%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		taskColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset)

	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, handleError("query tasks", err)
	}
	defer rows.Close()

	tasks := make([]*repository.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, handleError("scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, handleError("query tasks", err)
	}
	return tasks, nil
}

func (s *taskStore) CountTasks(ctx context.Context, filter repository.TaskFilter) (int64, error) {
	where, args := buildWhere(filter)
	var count int64
	if err := s.tx.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&count); err != nil {
		return 0, handleError("count tasks", err)
	}
	return count, nil
}

func (s *taskStore) UpdateTask(ctx context.Context, id uuid.UUID, patch repository.TaskPatch) error {
	args := []interface{}{patch.UpdatedAt.UTC()}
	sets := []string{"updated_at = $1"}

	if patch.Text != nil {
		args = append(args, *patch.Text)
		sets = append(sets, fmt.Sprintf("text = $%d", len(args)))
	}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}

	args = append(args, pgUUID(id))
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := s.tx.Exec(ctx, query, args...)
	if err != nil {
		return handleError("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFoundError("task", id.String())
	}
	return nil
}

// buildWhere renders filter with numbered placeholders starting at $1
func buildWhere(filter repository.TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ExcludeStatus != "" {
		args = append(args, filter.ExcludeStatus)
		conditions = append(conditions, fmt.Sprintf("status <> $%d", len(args)))
	}

	if filter.Text != nil && *filter.Text != "" {
		args = append(args, repository.ContainsPattern(*filter.Text))
		conditions = append(conditions, fmt.Sprintf(`text ILIKE $%d ESCAPE '\'`, len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanTask(row pgx.Row) (*repository.Task, error) {
	var (
		id                   pgtype.UUID
		task                 repository.Task
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &task.Text, &task.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	task.ID = uuid.UUID(id.Bytes)
	task.CreatedAt = createdAt.UTC()
	task.UpdatedAt = updatedAt.UTC()
	return &task, nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

// handleError maps pgx failures onto app errors; timeouts reported by the
// connection layer surface as context errors and become Timeout.
func handleError(operation string, err error) error {
	if pgconn.Timeout(err) {
		return errors.NewTimeoutError(operation, err)
	}
	return errors.FromStorage(operation, err)
}
