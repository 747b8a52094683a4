package dto

import "time"

// Profiles

type UpdateMeRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=80"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
	Location    *string `json:"location" validate:"omitempty,max=120"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
}

// Stores

type StoreRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Slug        *string `json:"slug" validate:"omitempty,max=80"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	BannerURL   *string `json:"banner_url" validate:"omitempty,url"`
	Category    *string `json:"category" validate:"omitempty,max=40"`
}

type ProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=4000"`
	Price       *string  `json:"price" validate:"omitempty,numeric"`
	Currency    *string  `json:"currency" validate:"omitempty,len=3"`
	Stock       *int     `json:"stock" validate:"omitempty,min=0"`
	ImageURLs   []string `json:"image_urls" validate:"omitempty,max=20,dive,url"`
	Status      *string  `json:"status" validate:"omitempty,oneof=ACTIVE HIDDEN"`
}

type ReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// Influencers

type InfluencerRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=80"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
	Niche       *string `json:"niche" validate:"omitempty,max=80"`
	Location    *string `json:"location" validate:"omitempty,max=120"`
}

type SocialAccountRequest struct {
	Handle        string  `json:"handle" validate:"required,max=100"`
	URL           *string `json:"url" validate:"omitempty,url"`
	FollowerCount string  `json:"follower_count" validate:"max=32"`
}

type InfluencerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED SUSPENDED"`
}

// Campaigns

type CampaignRequest struct {
	Title           *string    `json:"title" validate:"omitempty,max=200"`
	Description     *string    `json:"description" validate:"omitempty,max=8000"`
	Budget          *string    `json:"budget" validate:"omitempty,numeric"`
	Currency        *string    `json:"currency" validate:"omitempty,len=3"`
	DurationDays    *int       `json:"duration_days" validate:"omitempty,min=1,max=365"`
	TargetPlatforms []string   `json:"target_platforms" validate:"omitempty,dive,oneof=instagram tiktok youtube telegram twitter facebook"`
	TargetAudience  *string    `json:"target_audience" validate:"omitempty,max=2000"`
	Requirements    *string    `json:"requirements" validate:"omitempty,max=4000"`
	StartDate       *time.Time `json:"start_date"`
}

type CampaignStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PUBLISHED ACTIVE COMPLETED CANCELLED"`
}

type ApplyRequest struct {
	Message *string `json:"message" validate:"omitempty,max=2000"`
}
