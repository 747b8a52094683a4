package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/repositories"
	"github.com/shopfluence/backend/internal/statsparser"
)

// TelegramStatsFetcher reads public channel stats from t.me.
type TelegramStatsFetcher interface {
	FetchTelegramStats(ctx context.Context, username string) (*statsparser.TelegramStats, error)
}

type InfluencerService struct {
	influencerRepo InfluencerRepository
	profileRepo    ProfileRepository
	notifier       Notifier
	auditRepo      AuditLogger
	stats          TelegramStatsFetcher
	log            *zap.Logger
}

func NewInfluencerService(
	influencerRepo InfluencerRepository,
	profileRepo ProfileRepository,
	notifier Notifier,
	auditRepo AuditLogger,
	stats TelegramStatsFetcher,
	log *zap.Logger,
) *InfluencerService {
	return &InfluencerService{
		influencerRepo: influencerRepo,
		profileRepo:    profileRepo,
		notifier:       notifier,
		auditRepo:      auditRepo,
		stats:          stats,
		log:            log,
	}
}

type InfluencerFields struct {
	DisplayName *string
	Bio         *string
	Niche       *string
	Location    *string
}

func (f *InfluencerFields) apply(i *models.Influencer) {
	if f.DisplayName != nil {
		i.DisplayName = strings.TrimSpace(*f.DisplayName)
	}
	if f.Bio != nil {
		i.Bio = f.Bio
	}
	if f.Niche != nil {
		i.Niche = f.Niche
	}
	if f.Location != nil {
		i.Location = f.Location
	}
}

func validateInfluencer(i *models.Influencer) error {
	if i.DisplayName == "" || len(i.DisplayName) > 80 {
		return apperr.Validation("invalid influencer fields", "display_name")
	}
	return nil
}

// Register creates the caller's influencer profile in PENDING state.
func (s *InfluencerService) Register(ctx context.Context, userID uuid.UUID, fields InfluencerFields) (*models.Influencer, error) {
	if _, err := s.influencerRepo.GetByUserID(ctx, userID); err == nil {
		return nil, apperr.Conflict("influencer profile already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	inf := &models.Influencer{UserID: userID, Status: models.InfluencerStatusPending}
	fields.apply(inf)
	if err := validateInfluencer(inf); err != nil {
		return nil, err
	}
	if err := s.influencerRepo.Create(ctx, inf); err != nil {
		return nil, err
	}

	s.audit(ctx, &userID, models.ActorUser, "influencer_registered", inf.ID, nil)
	return inf, nil
}

func (s *InfluencerService) GetMine(ctx context.Context, userID uuid.UUID) (*models.InfluencerWithAccounts, error) {
	inf, err := s.influencerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withAccounts(ctx, inf)
}

func (s *InfluencerService) Get(ctx context.Context, id uuid.UUID) (*models.InfluencerWithAccounts, error) {
	inf, err := s.influencerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withAccounts(ctx, inf)
}

func (s *InfluencerService) withAccounts(ctx context.Context, inf *models.Influencer) (*models.InfluencerWithAccounts, error) {
	accounts, err := s.influencerRepo.SocialAccountsFor(ctx, []uuid.UUID{inf.ID})
	if err != nil {
		return nil, err
	}
	accs := accounts[inf.ID]
	if accs == nil {
		accs = []models.SocialAccount{}
	}
	return &models.InfluencerWithAccounts{
		Influencer:     *inf,
		SocialAccounts: accs,
		TotalFollowers: models.TotalFollowers(accs),
	}, nil
}

func (s *InfluencerService) UpdateMine(ctx context.Context, userID uuid.UUID, fields InfluencerFields) (*models.Influencer, error) {
	inf, err := s.influencerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	fields.apply(inf)
	if err := validateInfluencer(inf); err != nil {
		return nil, err
	}
	if err := s.influencerRepo.UpdateProfile(ctx, inf); err != nil {
		return nil, err
	}
	return inf, nil
}

type SocialAccountFields struct {
	Handle        string
	URL           *string
	FollowerCount string
}

func (s *InfluencerService) UpsertSocialAccount(ctx context.Context, userID uuid.UUID, platform string, fields SocialAccountFields) (*models.SocialAccount, error) {
	platform = strings.ToLower(platform)
	if !models.IsValidPlatform(platform) {
		return nil, apperr.Validation("unsupported platform", "platform")
	}
	handle := strings.TrimPrefix(strings.TrimSpace(fields.Handle), "@")
	if handle == "" {
		return nil, apperr.Validation("handle is required", "handle")
	}

	inf, err := s.influencerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count := strings.TrimSpace(fields.FollowerCount)
	if count == "" {
		count = "0"
	}
	acc := &models.SocialAccount{
		InfluencerID:  inf.ID,
		Platform:      platform,
		Handle:        handle,
		URL:           fields.URL,
		FollowerCount: count,
	}
	if err := s.influencerRepo.UpsertSocialAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *InfluencerService) DeleteSocialAccount(ctx context.Context, userID uuid.UUID, platform string) error {
	inf, err := s.influencerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	deleted, err := s.influencerRepo.DeleteSocialAccount(ctx, inf.ID, strings.ToLower(platform))
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("social account")
	}
	return nil
}

// RefreshSocialAccount re-reads the follower count of a telegram channel from
// its public page. Other platforms have no public source and are rejected.
func (s *InfluencerService) RefreshSocialAccount(ctx context.Context, userID uuid.UUID, platform string) (*models.SocialAccount, error) {
	platform = strings.ToLower(platform)
	if platform != models.PlatformTelegram {
		return nil, apperr.Validation("only telegram accounts can be refreshed", "platform")
	}

	inf, err := s.influencerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	acc, err := s.influencerRepo.GetSocialAccount(ctx, inf.ID, platform)
	if err != nil {
		return nil, err
	}

	if err := s.RefreshTelegramAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// RefreshTelegramAccount overwrites the follower count of acc with the public
// subscriber counter of its channel.
func (s *InfluencerService) RefreshTelegramAccount(ctx context.Context, acc *models.SocialAccount) error {
	stats, err := s.stats.FetchTelegramStats(ctx, acc.Handle)
	if err != nil {
		if errors.Is(err, statsparser.ErrCounterNotFound) {
			return apperr.Validation("channel has no public subscriber counter", "handle")
		}
		return fmt.Errorf("fetch telegram stats for %s: %w", acc.Handle, err)
	}

	acc.FollowerCount = strconv.Itoa(stats.Subscribers)
	if err := s.influencerRepo.UpsertSocialAccount(ctx, acc); err != nil {
		return err
	}
	s.log.Info("telegram followers refreshed",
		zap.String("influencer_id", acc.InfluencerID.String()),
		zap.String("handle", acc.Handle),
		zap.Int("subscribers", stats.Subscribers))
	return nil
}

// StaleTelegramAccounts lists telegram accounts not updated within maxAge,
// oldest first.
func (s *InfluencerService) StaleTelegramAccounts(ctx context.Context, maxAge time.Duration, limit int) ([]models.SocialAccount, error) {
	return s.influencerRepo.ListStaleSocialAccounts(ctx, models.PlatformTelegram, time.Now().Add(-maxAge), limit)
}

// --- moderation ---

func (s *InfluencerService) List(ctx context.Context, status *string, limit, offset int) ([]models.Influencer, error) {
	if status != nil && !models.IsValidInfluencerStatus(*status) {
		return nil, apperr.Validation("unknown influencer status", "status")
	}
	return s.influencerRepo.List(ctx, repositories.InfluencerFilter{Status: status, Limit: limit, Offset: offset})
}

// SetStatus is the moderation decision on an influencer. Approval also promotes
// the user's profile role to INFLUENCER.
func (s *InfluencerService) SetStatus(ctx context.Context, adminID, influencerID uuid.UUID, status string) (*models.Influencer, error) {
	if !models.IsValidInfluencerStatus(status) {
		return nil, apperr.Validation("unknown influencer status", "status")
	}

	current, err := s.influencerRepo.GetByID(ctx, influencerID)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}

	inf, err := s.influencerRepo.UpdateStatus(ctx, influencerID, status)
	if err != nil {
		return nil, err
	}

	if status == models.InfluencerStatusApproved {
		if err := s.profileRepo.SetRole(ctx, inf.UserID, models.RoleInfluencer); err != nil {
			return nil, err
		}
	} else if current.Status == models.InfluencerStatusApproved {
		if err := s.profileRepo.SetRole(ctx, inf.UserID, models.RoleUser); err != nil {
			return nil, err
		}
	}

	s.audit(ctx, &adminID, models.ActorAdmin, "influencer_status_"+strings.ToLower(status), inf.ID,
		map[string]any{"old_status": current.Status, "new_status": status})

	msg := fmt.Sprintf("Your influencer profile is now %s", strings.ToLower(status))
	link := "/influencer/profile"
	if _, err := s.notifier.Notify(ctx, inf.UserID, models.NotificationInfluencerStatus, msg, &link); err != nil {
		s.log.Warn("influencer status notification failed", zap.String("influencer_id", inf.ID.String()), zap.Error(err))
	}

	return inf, nil
}

func (s *InfluencerService) audit(ctx context.Context, actor *uuid.UUID, actorType, action string, entityID uuid.UUID, meta map[string]any) {
	if err := s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: actor,
		ActorType:   actorType,
		Action:      action,
		EntityType:  models.EntityInfluencer,
		EntityID:    &entityID,
		Meta:        meta,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}
