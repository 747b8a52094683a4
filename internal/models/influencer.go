package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopfluence/backend/internal/statsparser"
)

// Influencer statuses
const (
	InfluencerStatusPending   = "PENDING"
	InfluencerStatusApproved  = "APPROVED"
	InfluencerStatusRejected  = "REJECTED"
	InfluencerStatusSuspended = "SUSPENDED"
)

var AllInfluencerStatuses = []string{
	InfluencerStatusPending, InfluencerStatusApproved, InfluencerStatusRejected, InfluencerStatusSuspended,
}

func IsValidInfluencerStatus(s string) bool {
	return containsString(AllInfluencerStatuses, s)
}

type Influencer struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Status      string    `json:"status"`
	DisplayName string    `json:"display_name"`
	Bio         *string   `json:"bio,omitempty"`
	Niche       *string   `json:"niche,omitempty"`
	Location    *string   `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *Influencer) IsApproved() bool {
	return i.Status == InfluencerStatusApproved
}

// Social platforms
const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformTelegram  = "telegram"
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
)

var AllPlatforms = []string{
	PlatformInstagram, PlatformTikTok, PlatformYouTube, PlatformTelegram, PlatformTwitter, PlatformFacebook,
}

func IsValidPlatform(p string) bool {
	return containsString(AllPlatforms, p)
}

type SocialAccount struct {
	ID            uuid.UUID `json:"id"`
	InfluencerID  uuid.UUID `json:"influencer_id"`
	Platform      string    `json:"platform"`
	Handle        string    `json:"handle"`
	URL           *string   `json:"url,omitempty"`
	FollowerCount string    `json:"follower_count"` // free text as entered, e.g. "12,400" or "1.2K"
	UpdatedAt     time.Time `json:"updated_at"`
}

// Followers parses the free-text follower count; unparseable values count as 0.
func (a *SocialAccount) Followers() int {
	return statsparser.ParseCount(a.FollowerCount)
}

// TotalFollowers sums followers across all platforms.
func TotalFollowers(accounts []SocialAccount) int {
	total := 0
	for i := range accounts {
		total += accounts[i].Followers()
	}
	return total
}

// InfluencerWithAccounts is the public influencer card.
type InfluencerWithAccounts struct {
	Influencer
	SocialAccounts []SocialAccount `json:"social_accounts"`
	TotalFollowers int             `json:"total_followers"`
}
