package api

import (
	"tasks-api/internal/domain"
	"tasks-api/internal/validation"
)

// Response messages for successful mutations
const (
	MessageTaskCreated = "Task created"
	MessageTaskUpdated = "Task updated"
	MessageTaskDeleted = "Task marked as deleted"
)

// BannerMessage is served at the root path
const BannerMessage = "Tasks API is running. Access API at /api/v1/tasks"

// CreateTaskBody is the JSON body of POST /api/v1/tasks
type CreateTaskBody struct {
	Text   *string `json:"text"`
	Status *string `json:"status"`
}

// UpdateTaskBody is the JSON body of PATCH /api/v1/tasks/:id.
// Absent or null fields are left unchanged.
type UpdateTaskBody struct {
	Text   *string `json:"text"`
	Status *string `json:"status"`
}

// TaskResponse wraps the task touched by a mutation
type TaskResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Code    string                  `json:"code"`
	Details []validation.FieldError `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
}
