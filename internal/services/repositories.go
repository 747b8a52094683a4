package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/repositories"
)

// The interfaces below are the slices of the Postgres repositories each service
// depends on. *repositories.XRepo satisfies them in production.

type CampaignRepository interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	Update(ctx context.Context, c *models.Campaign) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (*models.Campaign, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error)
	ListAvailable(ctx context.Context, influencerID uuid.UUID, limit, offset int) ([]models.CampaignWithStore, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.CampaignInfluencer) error
	Get(ctx context.Context, campaignID, influencerID uuid.UUID) (*models.CampaignInfluencer, error)
	UpdateStatus(ctx context.Context, campaignID, influencerID uuid.UUID, from, to string) (*models.CampaignInfluencer, error)
	ListApplicants(ctx context.Context, campaignID uuid.UUID) ([]models.Applicant, error)
	ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]models.MyApplication, error)
}

type InfluencerRepository interface {
	Create(ctx context.Context, i *models.Influencer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Influencer, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Influencer, error)
	UpdateProfile(ctx context.Context, i *models.Influencer) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Influencer, error)
	List(ctx context.Context, f repositories.InfluencerFilter) ([]models.Influencer, error)
	UpsertSocialAccount(ctx context.Context, a *models.SocialAccount) error
	GetSocialAccount(ctx context.Context, influencerID uuid.UUID, platform string) (*models.SocialAccount, error)
	DeleteSocialAccount(ctx context.Context, influencerID uuid.UUID, platform string) (bool, error)
	SocialAccountsFor(ctx context.Context, influencerIDs []uuid.UUID) (map[uuid.UUID][]models.SocialAccount, error)
	ListStaleSocialAccounts(ctx context.Context, platform string, before time.Time, limit int) ([]models.SocialAccount, error)
}

type StoreRepository interface {
	Create(ctx context.Context, s *models.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Store, error)
	Update(ctx context.Context, s *models.Store) error
	List(ctx context.Context, f repositories.StoreFilter) ([]models.Store, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByStore(ctx context.Context, storeID uuid.UUID, includeHidden bool, limit, offset int) ([]models.Product, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type MediaRepository interface {
	Create(ctx context.Context, m *models.MediaUpload) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MediaUpload, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProfileRepository interface {
	Ensure(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	SetRole(ctx context.Context, userID uuid.UUID, role string) error
}

type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

var (
	_ CampaignRepository     = (*repositories.CampaignRepo)(nil)
	_ ApplicationRepository  = (*repositories.ApplicationRepo)(nil)
	_ InfluencerRepository   = (*repositories.InfluencerRepo)(nil)
	_ StoreRepository        = (*repositories.StoreRepo)(nil)
	_ ProductRepository      = (*repositories.ProductRepo)(nil)
	_ ReviewRepository       = (*repositories.ReviewRepo)(nil)
	_ NotificationRepository = (*repositories.NotificationRepo)(nil)
	_ MediaRepository        = (*repositories.MediaRepo)(nil)
	_ ProfileRepository      = (*repositories.ProfileRepo)(nil)
	_ AuditLogger            = (*repositories.AuditRepo)(nil)
)
