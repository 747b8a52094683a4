package dto

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/shopfluence/backend/internal/apperr"
)

// StatusFor maps an error to its HTTP status. Fiber's own errors keep their code.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperr.KindPermission, apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindValidation, apperr.KindInvalidState:
		return fiber.StatusBadRequest
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// NewErrorResponse renders err for clients. Internal errors never leak their message.
func NewErrorResponse(err error, requestID string) (int, ErrorResponse) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: err.Error(), RequestID: requestID}

	var ae *apperr.Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &ae):
		if ae.Msg != "" {
			resp.Error = ae.Msg
		}
		resp.Fields = ae.Fields
	case errors.As(err, &fe):
		resp.Error = fe.Message
	}
	if status >= fiber.StatusInternalServerError {
		resp.Error = "internal error"
		if ae != nil && ae.Kind == apperr.KindStorage {
			resp.Error = ae.Msg
		}
	}
	return status, resp
}
