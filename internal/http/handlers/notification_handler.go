package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/http/dto"
	"github.com/shopfluence/backend/internal/middleware"
	"github.com/shopfluence/backend/internal/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	log                 *zap.Logger
}

func NewNotificationHandler(notificationService *services.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, log: log}
}

// List supports ?limit=N&unread=true.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	unreadOnly := c.QueryBool("unread", false)
	list, err := h.notificationService.List(c.UserContext(), middleware.GetUserID(c), limit, unreadOnly)
	if err != nil {
		return err
	}
	return ok(c, list)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.notificationService.UnreadCount(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, dto.CountResponse{Count: int64(n)})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationService.MarkRead(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return err
	}
	return ok(c, nil)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.notificationService.MarkAllRead(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, dto.CountResponse{Count: n})
}
