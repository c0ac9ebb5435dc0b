package api

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"

	"tasks-api/internal/errors"
	"tasks-api/internal/validation"
)

// statusForError maps an error onto the HTTP status reported to the client
func statusForError(err error) int {
	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		return fiber.StatusInternalServerError
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation:
		return fiber.StatusUnprocessableEntity
	case errors.ErrorTypeInvalidInput:
		return fiber.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return fiber.StatusNotFound
	case errors.ErrorTypeConflict:
		return fiber.StatusConflict
	case errors.ErrorTypeTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// errorResponse builds the client-facing body for err
func errorResponse(err error) ErrorResponse {
	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		return ErrorResponse{Error: fiberErr.Message, Code: "HTTP_ERROR"}
	}

	if !errors.IsAppError(err) {
		return ErrorResponse{
			Error: "An unexpected error occurred. Please try again.",
			Code:  errors.GetErrorCode(err),
		}
	}

	resp := ErrorResponse{
		Error: errors.GetUserMessage(err),
		Code:  errors.GetErrorCode(err),
	}
	if ve, ok := validation.AsValidationError(err); ok {
		resp.Details = ve.Errors
	}
	return resp
}
