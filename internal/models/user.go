package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile roles
const (
	RoleUser       = "USER"
	RoleInfluencer = "INFLUENCER"
	RoleAdmin      = "ADMIN"
)

// Profile extends an externally managed user account.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	DisplayName *string   `json:"display_name,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	Location    *string   `json:"location,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
