package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/events"
	"github.com/shopfluence/backend/internal/metrics"
	"github.com/shopfluence/backend/internal/models"
)

// Notifier is what other services need to emit a notification.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, typ, message string, link *string) (*models.Notification, error)
}

type NotificationService struct {
	notificationRepo NotificationRepository
	publisher        events.Publisher
	log              *zap.Logger
}

func NewNotificationService(notificationRepo NotificationRepository, publisher events.Publisher, log *zap.Logger) *NotificationService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &NotificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		log:              log,
	}
}

// Notify appends one unread notification for userID and pushes it to live
// sockets. The push is best-effort.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, typ, message string, link *string) (*models.Notification, error) {
	if strings.TrimSpace(typ) == "" || strings.TrimSpace(message) == "" {
		return nil, apperr.Validation("notification type and message are required")
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
		Link:    link,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		metrics.Notifications.WithLabelValues(typ, "error").Inc()
		return nil, err
	}
	metrics.Notifications.WithLabelValues(typ, "ok").Inc()

	payload := map[string]any{
		"id":         n.ID.String(),
		"type":       n.Type,
		"message":    n.Message,
		"is_read":    n.IsRead,
		"created_at": n.CreatedAt,
	}
	if link != nil {
		payload["link"] = *link
	}
	if err := s.publisher.Publish(ctx, events.ChannelNotifications, events.Event{
		Type:    events.EventNotificationCreated,
		UserID:  userID.String(),
		Payload: payload,
	}); err != nil {
		s.log.Warn("notification push failed", zap.String("notification_id", n.ID.String()), zap.Error(err))
	}

	return n, nil
}

// NotificationList is a page of notifications plus the unread total.
type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) (*NotificationList, error) {
	list, err := s.notificationRepo.List(ctx, userID, unreadOnly, ClampNotificationLimit(limit))
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Notifications: list, UnreadCount: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

// ClampNotificationLimit bounds a requested page size to 1..100, defaulting to 20.
func ClampNotificationLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	default:
		return limit
	}
}
