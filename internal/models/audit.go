package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actor types
const (
	ActorUser   = "user"
	ActorAdmin  = "admin"
	ActorSystem = "system"
)

// Audit entity types
const (
	EntityCampaign    = "campaign"
	EntityApplication = "application"
	EntityInfluencer  = "influencer"
	EntityStore       = "store"
	EntityProduct     = "product"
	EntityUpload      = "upload"
)

type AuditLog struct {
	ID          uuid.UUID  `json:"id"`
	ActorUserID *uuid.UUID `json:"actor_user_id,omitempty"`
	ActorType   string     `json:"actor_type"`
	Action      string     `json:"action"`
	EntityType  string     `json:"entity_type"`
	EntityID    *uuid.UUID `json:"entity_id,omitempty"`
	Meta        any        `json:"meta,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
