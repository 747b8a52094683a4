package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/http/dto"
	"github.com/shopfluence/backend/internal/middleware"
)

// ErrorHandler renders every error returned by a handler or middleware in the
// JSON error envelope. Unexpected errors are logged; their text is not sent.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// an oversized body is a client mistake, reported like any other upload limit
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code == fiber.StatusRequestEntityTooLarge {
			err = apperr.Validation("request body exceeds the upload limit", "file")
		}

		reqID := middleware.GetRequestID(c)
		status, resp := dto.NewErrorResponse(err, reqID)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("request_id", reqID),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(status).JSON(resp)
	}
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.SuccessResponse{Success: true, Data: data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true, Data: data})
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid "+name, name)
	}
	return id, nil
}

// page reads limit/offset query params; bounds are applied by the repositories.
func page(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	offset, _ = strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func optionalQuery(c *fiber.Ctx, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}
