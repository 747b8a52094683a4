package events

import "context"

// Channels
const (
	ChannelNotifications = "events:notification"
	ChannelCampaigns     = "events:campaign"
)

// Event types
const (
	EventNotificationCreated   = "notification_created"
	EventCampaignStatusChanged = "campaign_status_changed"
	EventApplicantSelected     = "applicant_selected"
)

type Event struct {
	Type    string         `json:"type"`
	UserID  string         `json:"user_id,omitempty"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler func(Event)) error
}

// Nop discards events; used when Redis is not configured and in tests.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
