package cli

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"tasks-api/internal/api"
	"tasks-api/internal/config"
	"tasks-api/internal/domain"
	"tasks-api/internal/errors"
)

// mockBusinessAPI implements the BusinessAPI interface for testing
type mockBusinessAPI struct {
	mu         sync.Mutex
	tasks      map[uuid.UUID]*domain.Task
	now        time.Time
	lastParams api.ListParams
	failWith   error
}

// newMockBusinessAPI creates a new mock BusinessAPI instance
func newMockBusinessAPI() *mockBusinessAPI {
	return &mockBusinessAPI{
		tasks: make(map[uuid.UUID]*domain.Task),
		now:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func (m *mockBusinessAPI) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *mockBusinessAPI) lookup(id string) (*domain.Task, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.NewNotFoundError("task", id)
	}
	task, ok := m.tasks[parsed]
	if !ok {
		return nil, errors.NewNotFoundError("task", id)
	}
	return task, nil
}

func (m *mockBusinessAPI) ListTasks(ctx context.Context, params api.ListParams) (*domain.TaskPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastParams = params
	if m.failWith != nil {
		return nil, m.failWith
	}

	offset, limit := 0, 5
	if params.Offset != nil {
		offset = *params.Offset
	}
	if params.Limit != nil {
		limit = *params.Limit
	}

	var matches []domain.Task
	for _, task := range m.tasks {
		if task.IsDeleted() {
			continue
		}
		if params.Query != nil && !strings.Contains(strings.ToLower(task.Text), strings.ToLower(*params.Query)) {
			continue
		}
		matches = append(matches, *task)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	page := &domain.TaskPage{Tasks: []domain.Task{}, Total: int64(len(matches)), Offset: offset, Limit: limit}
	if offset < len(matches) {
		end := offset + limit
		if end > len(matches) {
			end = len(matches)
		}
		page.Tasks = matches[offset:end]
	}
	return page, nil
}

func (m *mockBusinessAPI) CreateTask(ctx context.Context, text string, status *string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.NewValidationError("invalid task text", nil)
	}

	taskStatus := domain.DefaultTaskStatus
	if status != nil {
		parsed, ok := domain.ParseTaskStatus(*status)
		if !ok {
			return nil, errors.NewValidationError("invalid task status", nil)
		}
		taskStatus = parsed
	}

	now := m.tick()
	task := &domain.Task{ID: uuid.New(), Text: text, Status: taskStatus, CreatedAt: now, UpdatedAt: now}
	m.tasks[task.ID] = task
	copied := *task
	return &copied, nil
}

func (m *mockBusinessAPI) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	copied := *task
	return &copied, nil
}

func (m *mockBusinessAPI) UpdateTask(ctx context.Context, id string, text, status *string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	if task.IsDeleted() {
		return nil, errors.NewConflictError("task", id, "task has been deleted")
	}
	if text != nil {
		trimmed := strings.TrimSpace(*text)
		if trimmed == "" {
			return nil, errors.NewValidationError("invalid task text", nil)
		}
		task.Text = trimmed
	}
	if status != nil {
		parsed, ok := domain.ParseTaskStatus(*status)
		if !ok {
			return nil, errors.NewValidationError("invalid task status", nil)
		}
		task.Status = parsed
	}
	task.UpdatedAt = m.tick()
	copied := *task
	return &copied, nil
}

func (m *mockBusinessAPI) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	task.Status = domain.StatusDeleted
	task.UpdatedAt = m.tick()
	copied := *task
	return &copied, nil
}

func (m *mockBusinessAPI) Health(ctx context.Context) error {
	return m.failWith
}

// setupTestAppWithMockBusinessAPI returns an App writing into a buffer
func setupTestAppWithMockBusinessAPI(t *testing.T) (*App, *mockBusinessAPI, *strings.Builder) {
	t.Helper()
	mock := newMockBusinessAPI()
	out := &strings.Builder{}
	return NewApp(mock, config.NewConfig(), out), mock, out
}

// mockFactory hands out mock to the root command and records closing
func mockFactory(mock *mockBusinessAPI, closed *bool) APIFactory {
	return func(ctx context.Context, cfg *config.Config) (api.BusinessAPI, func() error, error) {
		return mock, func() error {
			*closed = true
			return nil
		}, nil
	}
}
