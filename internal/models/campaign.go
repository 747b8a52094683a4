package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "DRAFT"
	CampaignStatusPublished = "PUBLISHED"
	CampaignStatusActive    = "ACTIVE"
	CampaignStatusCompleted = "COMPLETED"
	CampaignStatusCancelled = "CANCELLED"
)

// Valid campaign transitions: from -> []to
var ValidCampaignTransitions = map[string][]string{
	CampaignStatusDraft:     {CampaignStatusPublished},
	CampaignStatusPublished: {CampaignStatusActive, CampaignStatusCancelled},
	CampaignStatusActive:    {CampaignStatusCompleted, CampaignStatusCancelled},
	CampaignStatusCompleted: {},
	CampaignStatusCancelled: {},
}

func IsValidCampaignTransition(from, to string) bool {
	return containsString(ValidCampaignTransitions[from], to)
}

type Campaign struct {
	ID              uuid.UUID  `json:"id"`
	StoreID         uuid.UUID  `json:"store_id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Budget          *string    `json:"budget,omitempty"` // numeric as string
	Currency        *string    `json:"currency,omitempty"`
	DurationDays    *int       `json:"duration_days,omitempty"`
	TargetPlatforms []string   `json:"target_platforms"`
	TargetAudience  *string    `json:"target_audience,omitempty"`
	Requirements    *string    `json:"requirements,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

// MissingPublishFields returns the json names of fields that must be filled
// before the campaign can be listed publicly, in declaration order.
func (c *Campaign) MissingPublishFields() []string {
	var missing []string
	if strings.TrimSpace(c.Title) == "" {
		missing = append(missing, "title")
	}
	if isBlank(c.Description) {
		missing = append(missing, "description")
	}
	if isBlank(c.Budget) {
		missing = append(missing, "budget")
	}
	if isBlank(c.Currency) {
		missing = append(missing, "currency")
	}
	if c.DurationDays == nil || *c.DurationDays <= 0 {
		missing = append(missing, "duration_days")
	}
	if len(c.TargetPlatforms) == 0 {
		missing = append(missing, "target_platforms")
	}
	if isBlank(c.TargetAudience) {
		missing = append(missing, "target_audience")
	}
	return missing
}

// CampaignWithStore adds the brand name for listings shown to influencers.
type CampaignWithStore struct {
	Campaign
	StoreName string `json:"store_name"`
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
