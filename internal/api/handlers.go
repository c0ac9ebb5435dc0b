package api

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"tasks-api/internal/errors"
	"tasks-api/internal/validation"
)

// Handlers contains HTTP request handlers for task operations.
type Handlers struct {
	api            BusinessAPI
	logger         *slog.Logger
	requestTimeout time.Duration
}

// NewHandlers creates a new handlers instance. A requestTimeout of zero
// bounds requests only by the client connection.
func NewHandlers(api BusinessAPI, logger *slog.Logger, requestTimeout time.Duration) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		api:            api,
		logger:         logger,
		requestTimeout: requestTimeout,
	}
}

// requestContext derives the context one request runs under
func (h *Handlers) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.requestTimeout > 0 {
		return context.WithTimeout(c.UserContext(), h.requestTimeout)
	}
	return context.WithCancel(c.UserContext())
}

// Root handles GET /.
func (h *Handlers) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": BannerMessage})
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.api.Health(ctx); err != nil {
		h.logger.Warn("Health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{Status: "unavailable"})
	}
	return c.JSON(HealthResponse{Status: "ok"})
}

// ListTasks handles GET /api/v1/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	params, err := parseListParams(c)
	if err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	page, err := h.api.ListTasks(ctx, params)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// CreateTask handles POST /api/v1/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return errors.NewInvalidInputError("body", nil, err.Error())
	}

	text := ""
	if body.Text != nil {
		text = *body.Text
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	task, err := h.api.CreateTask(ctx, text, body.Status)
	if err != nil {
		return err
	}

	h.logger.Debug("Task created", "id", task.ID, "status", task.Status)
	return c.JSON(TaskResponse{Message: MessageTaskCreated, Task: task})
}

// UpdateTask handles PATCH /api/v1/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var body UpdateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return errors.NewInvalidInputError("body", nil, err.Error())
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	task, err := h.api.UpdateTask(ctx, utils.CopyString(c.Params("id")), body.Text, body.Status)
	if err != nil {
		return err
	}

	h.logger.Debug("Task updated", "id", task.ID, "status", task.Status)
	return c.JSON(TaskResponse{Message: MessageTaskUpdated, Task: task})
}

// DeleteTask handles DELETE /api/v1/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	task, err := h.api.DeleteTask(ctx, utils.CopyString(c.Params("id")))
	if err != nil {
		return err
	}

	h.logger.Debug("Task deleted", "id", task.ID)
	return c.JSON(TaskResponse{Message: MessageTaskDeleted, Task: task})
}

// parseListParams reads query, offset and limit from the query string. A
// query parameter that is present but empty is passed on so that it fails
// the length check instead of silently listing everything.
func parseListParams(c *fiber.Ctx) (ListParams, error) {
	var params ListParams
	args := c.Request().URI().QueryArgs()
	validationError := validation.NewValidationError()

	if args.Has("query") {
		query := string(args.Peek("query"))
		params.Query = &query
	}

	if args.Has("offset") {
		raw := string(args.Peek("offset"))
		if offset, err := strconv.Atoi(raw); err != nil {
			validationError.AddInvalidFormatError("offset", raw, "integer")
		} else {
			params.Offset = &offset
		}
	}

	if args.Has("limit") {
		raw := string(args.Peek("limit"))
		if limit, err := strconv.Atoi(raw); err != nil {
			validationError.AddInvalidFormatError("limit", raw, "integer")
		} else {
			params.Limit = &limit
		}
	}

	if err := validationError.ErrOrNil(); err != nil {
		return ListParams{}, errors.NewValidationError("invalid list parameters", err)
	}
	return params, nil
}
