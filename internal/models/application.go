package models

import (
	"time"

	"github.com/google/uuid"
)

// Application statuses
const (
	ApplicationStatusApplied  = "APPLIED"
	ApplicationStatusSelected = "SELECTED"
	ApplicationStatusRejected = "REJECTED"
)

// SELECTED and REJECTED are terminal.
var ValidApplicationTransitions = map[string][]string{
	ApplicationStatusApplied:  {ApplicationStatusSelected, ApplicationStatusRejected},
	ApplicationStatusSelected: {},
	ApplicationStatusRejected: {},
}

func IsValidApplicationTransition(from, to string) bool {
	return containsString(ValidApplicationTransitions[from], to)
}

// CampaignInfluencer is one influencer's application to one campaign.
type CampaignInfluencer struct {
	CampaignID        uuid.UUID  `json:"campaign_id"`
	InfluencerID      uuid.UUID  `json:"influencer_id"`
	ApplicationStatus string     `json:"application_status"`
	Message           *string    `json:"message,omitempty"`
	AppliedAt         time.Time  `json:"applied_at"`
	SelectedAt        *time.Time `json:"selected_at,omitempty"`
}

// Applicant is an application as seen by the brand.
type Applicant struct {
	CampaignInfluencer
	Influencer     Influencer      `json:"influencer"`
	SocialAccounts []SocialAccount `json:"social_accounts"`
	TotalFollowers int             `json:"total_followers"`
}

// MyApplication is an application as seen by the influencer.
type MyApplication struct {
	CampaignInfluencer
	Campaign       CampaignWithStore `json:"campaign"`
	ApplicantCount int               `json:"applicant_count"`
}
