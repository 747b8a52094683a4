package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotificationCampaignSelection = "CAMPAIGN_SELECTION"
	NotificationCampaignRejection = "CAMPAIGN_REJECTION"
	NotificationInfluencerStatus  = "INFLUENCER_STATUS"
	NotificationNewApplication    = "CAMPAIGN_APPLICATION"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Upload categories
const (
	UploadCategoryImage   = "image"
	UploadCategoryVideo   = "video"
	UploadCategoryLogo    = "logo"
	UploadCategoryBanner  = "banner"
	UploadCategoryGallery = "gallery"
)

var AllUploadCategories = []string{
	UploadCategoryImage, UploadCategoryVideo, UploadCategoryLogo, UploadCategoryBanner, UploadCategoryGallery,
}

func IsValidUploadCategory(c string) bool {
	return containsString(AllUploadCategories, c)
}

// MediaUpload is the ledger row written for every stored file.
type MediaUpload struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	Category    string    `json:"category"`
	StorageKey  string    `json:"storage_key"`
	URL         string    `json:"url"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	Caption     *string   `json:"caption,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
