package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasks-api/internal/config"
	"tasks-api/internal/domain"
	"tasks-api/internal/errors"
	"tasks-api/internal/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	api, _ := setupTestBusinessAPI(t)
	return NewServer(api, config.NewConfig(), logging.Discard(), nil)
}

func doRequest(t *testing.T, s *Server, method, target string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createTask(t *testing.T, s *Server, text string) *domain.Task {
	t.Helper()
	resp := doRequest(t, s, http.MethodPost, "/api/v1/tasks", map[string]string{"text": text})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[TaskResponse](t, resp).Task
}

func TestServer_Root(t *testing.T) {
	s := newTestServer(t)

	resp := doRequest(t, s, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, BannerMessage, decode[map[string]string](t, resp)["message"])
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	resp := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[HealthResponse](t, resp).Status)
}

func TestServer_CreateTask(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
		wantField  string
		wantTask   *domain.Task
	}{
		{
			name:       "should create with default status",
			body:       map[string]string{"text": "  Buy milk "},
			wantStatus: http.StatusOK,
			wantTask:   &domain.Task{Text: "Buy milk", Status: domain.StatusNotDone},
		},
		{
			name:       "should create with explicit status",
			body:       map[string]string{"text": "Walk dog", "status": "done"},
			wantStatus: http.StatusOK,
			wantTask:   &domain.Task{Text: "Walk dog", Status: domain.StatusDone},
		},
		{
			name:       "should reject blank text",
			body:       map[string]string{"text": "   "},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_FAILED",
			wantField:  "text",
		},
		{
			name:       "should reject missing text",
			body:       map[string]string{},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_FAILED",
			wantField:  "text",
		},
		{
			name:       "should reject unknown status",
			body:       map[string]string{"text": "x", "status": "archived"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "VALIDATION_FAILED",
			wantField:  "status",
		},
		{
			name:       "should reject malformed json",
			body:       `{"text": `,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			resp := doRequest(t, s, http.MethodPost, "/api/v1/tasks", tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantTask != nil {
				got := decode[TaskResponse](t, resp)
				assert.Equal(t, MessageTaskCreated, got.Message)
				require.NotNil(t, got.Task)
				assert.NotEqual(t, uuid.Nil, got.Task.ID)
				assert.Equal(t, tt.wantTask.Text, got.Task.Text)
				assert.Equal(t, tt.wantTask.Status, got.Task.Status)
				assert.Equal(t, got.Task.CreatedAt, got.Task.UpdatedAt)
				return
			}

			got := decode[ErrorResponse](t, resp)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.NotEmpty(t, got.Error)
			if tt.wantField != "" {
				require.NotEmpty(t, got.Details)
				assert.Equal(t, tt.wantField, got.Details[0].Field)
			}
		})
	}
}

func TestServer_ListTasks(t *testing.T) {
	s := newTestServer(t)
	for _, text := range []string{"Buy milk", "buy bread", "Walk dog"} {
		createTask(t, s, text)
	}

	t.Run("should list every live task with defaults", func(t *testing.T) {
		resp := doRequest(t, s, http.MethodGet, "/api/v1/tasks", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		page := decode[domain.TaskPage](t, resp)
		assert.Len(t, page.Tasks, 3)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 0, page.Offset)
		assert.Equal(t, 5, page.Limit)
	})

	t.Run("should filter and page", func(t *testing.T) {
		resp := doRequest(t, s, http.MethodGet, "/api/v1/tasks?query=BUY&offset=1&limit=1", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		page := decode[domain.TaskPage](t, resp)
		require.Len(t, page.Tasks, 1)
		assert.Equal(t, int64(2), page.Total)
		assert.Equal(t, 1, page.Offset)
		assert.Equal(t, 1, page.Limit)
	})

	t.Run("should serialize an empty page as an empty array", func(t *testing.T) {
		resp := doRequest(t, s, http.MethodGet, "/api/v1/tasks?query=nothing", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw := decode[map[string]json.RawMessage](t, resp)
		assert.JSONEq(t, `[]`, string(raw["tasks"]))
	})

	invalid := []struct {
		name      string
		target    string
		wantField string
	}{
		{"empty query", "/api/v1/tasks?query=", "query"},
		{"negative offset", "/api/v1/tasks?offset=-1", "offset"},
		{"non-numeric offset", "/api/v1/tasks?offset=abc", "offset"},
		{"zero limit", "/api/v1/tasks?limit=0", "limit"},
		{"limit above maximum", "/api/v1/tasks?limit=51", "limit"},
		{"non-numeric limit", "/api/v1/tasks?limit=ten", "limit"},
	}
	for _, tt := range invalid {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			resp := doRequest(t, s, http.MethodGet, tt.target, nil)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			got := decode[ErrorResponse](t, resp)
			require.NotEmpty(t, got.Details)
			assert.Equal(t, tt.wantField, got.Details[0].Field)
		})
	}
}

func TestServer_UpdateTask(t *testing.T) {
	s := newTestServer(t)
	task := createTask(t, s, "Buy milk")

	t.Run("should apply a partial update", func(t *testing.T) {
		resp := doRequest(t, s, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(),
			map[string]string{"status": "done"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[TaskResponse](t, resp)
		assert.Equal(t, MessageTaskUpdated, got.Message)
		assert.Equal(t, "Buy milk", got.Task.Text)
		assert.Equal(t, domain.StatusDone, got.Task.Status)
	})

	t.Run("should treat null fields as absent", func(t *testing.T) {
		resp := doRequest(t, s, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(),
			`{"text": "Buy oat milk", "status": null}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[TaskResponse](t, resp)
		assert.Equal(t, "Buy oat milk", got.Task.Text)
		assert.Equal(t, domain.StatusDone, got.Task.Status)
	})

	t.Run("should return 404 for an unknown id", func(t *testing.T) {
		resp := doRequest(t, s, http.MethodPatch, "/api/v1/tasks/"+uuid.NewString(),
			map[string]string{"text": "x"})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode[ErrorResponse](t, resp).Code)
	})

	t.Run("should return 404 for a malformed id", func(t *testing.T) {
		resp := doRequest(t, s, http.MethodPatch, "/api/v1/tasks/123", map[string]string{"text": "x"})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("should reject blank text", func(t *testing.T) {
		resp := doRequest(t, s, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(),
			map[string]string{"text": "  "})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("should report a conflict once deleted", func(t *testing.T) {
		resp := doRequest(t, s, http.MethodDelete, "/api/v1/tasks/"+task.ID.String(), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doRequest(t, s, http.MethodPatch, "/api/v1/tasks/"+task.ID.String(),
			map[string]string{"status": "done"})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", decode[ErrorResponse](t, resp).Code)
	})
}

func TestServer_DeleteTask(t *testing.T) {
	s := newTestServer(t)
	task := createTask(t, s, "Buy milk")

	for i := 0; i < 2; i++ {
		resp := doRequest(t, s, http.MethodDelete, "/api/v1/tasks/"+task.ID.String(), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[TaskResponse](t, resp)
		assert.Equal(t, MessageTaskDeleted, got.Message)
		assert.Equal(t, domain.StatusDeleted, got.Task.Status)
	}

	resp := doRequest(t, s, http.MethodGet, "/api/v1/tasks", nil)
	assert.Empty(t, decode[domain.TaskPage](t, resp).Tasks)

	resp = doRequest(t, s, http.MethodDelete, "/api/v1/tasks/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	resp := doRequest(t, s, http.MethodGet, "/api/v1/nothing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "HTTP_ERROR", decode[ErrorResponse](t, resp).Code)
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

// stubAPI fails every call with err, or panics when err is nil
type stubAPI struct {
	err error
}

func (s stubAPI) fail() error {
	if s.err == nil {
		panic("storage exploded")
	}
	return s.err
}

func (s stubAPI) ListTasks(context.Context, ListParams) (*domain.TaskPage, error) {
	return nil, s.fail()
}
func (s stubAPI) CreateTask(context.Context, string, *string) (*domain.Task, error) {
	return nil, s.fail()
}
func (s stubAPI) GetTask(context.Context, string) (*domain.Task, error) { return nil, s.fail() }
func (s stubAPI) UpdateTask(context.Context, string, *string, *string) (*domain.Task, error) {
	return nil, s.fail()
}
func (s stubAPI) DeleteTask(context.Context, string) (*domain.Task, error) { return nil, s.fail() }
func (s stubAPI) Health(context.Context) error                           { return s.fail() }

func TestServer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"timeout", errors.NewTimeoutError("list tasks", context.DeadlineExceeded), http.StatusGatewayTimeout, "TIMEOUT"},
		{"database", errors.NewDatabaseError("list tasks", io.ErrUnexpectedEOF), http.StatusInternalServerError, "DATABASE_ERROR"},
		{"plain error", io.ErrUnexpectedEOF, http.StatusInternalServerError, "UNKNOWN_ERROR"},
		{"panic", nil, http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(stubAPI{err: tt.err}, config.NewConfig(), logging.Discard(), nil)

			resp := doRequest(t, s, http.MethodGet, "/api/v1/tasks", nil)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			got := decode[ErrorResponse](t, resp)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.NotContains(t, got.Error, "unexpected EOF")
		})
	}
}

func TestServer_HealthUnavailable(t *testing.T) {
	s := NewServer(stubAPI{err: errors.NewDatabaseError("ping", io.EOF)}, config.NewConfig(), logging.Discard(), nil)

	resp := doRequest(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unavailable", decode[HealthResponse](t, resp).Status)
}

func TestHandlers_RequestTimeout(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	api := deadlineAPI{record: func(ctx context.Context) { deadline, hasDeadline = ctx.Deadline() }}

	cfg := config.NewConfig()
	cfg.Server.RequestTimeout = time.Minute
	s := NewServer(api, cfg, logging.Discard(), nil)

	resp := doRequest(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 10*time.Second)
}

// deadlineAPI records the context handed to Health
type deadlineAPI struct {
	stubAPI
	record func(ctx context.Context)
}

func (d deadlineAPI) Health(ctx context.Context) error {
	d.record(ctx)
	return nil
}
