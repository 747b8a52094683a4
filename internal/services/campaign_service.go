package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/events"
	"github.com/shopfluence/backend/internal/metrics"
	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/repositories"
)

// Links carried by campaign notifications.
const (
	LinkInfluencerCampaigns = "/influencer/campaigns"
	LinkBrandCampaigns      = "/brand/campaigns"
)

type CampaignService struct {
	campaignRepo    CampaignRepository
	applicationRepo ApplicationRepository
	storeRepo       StoreRepository
	influencerRepo  InfluencerRepository
	notifier        Notifier
	auditRepo       AuditLogger
	publisher       events.Publisher
	log             *zap.Logger
}

func NewCampaignService(
	campaignRepo CampaignRepository,
	applicationRepo ApplicationRepository,
	storeRepo StoreRepository,
	influencerRepo InfluencerRepository,
	notifier Notifier,
	auditRepo AuditLogger,
	publisher events.Publisher,
	log *zap.Logger,
) *CampaignService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &CampaignService{
		campaignRepo:    campaignRepo,
		applicationRepo: applicationRepo,
		storeRepo:       storeRepo,
		influencerRepo:  influencerRepo,
		notifier:        notifier,
		auditRepo:       auditRepo,
		publisher:       publisher,
		log:             log,
	}
}

// CampaignFields carries brand-editable campaign fields. Nil means "not provided".
type CampaignFields struct {
	Title           *string
	Description     *string
	Budget          *string
	Currency        *string
	DurationDays    *int
	TargetPlatforms []string
	TargetAudience  *string
	Requirements    *string
	StartDate       *time.Time
}

func (f *CampaignFields) apply(c *models.Campaign) {
	if f.Title != nil {
		c.Title = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		c.Description = f.Description
	}
	if f.Budget != nil {
		b := strings.TrimSpace(*f.Budget)
		c.Budget = &b
	}
	if f.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*f.Currency))
		c.Currency = &cur
	}
	if f.DurationDays != nil {
		c.DurationDays = f.DurationDays
	}
	if f.TargetPlatforms != nil {
		c.TargetPlatforms = f.TargetPlatforms
	}
	if f.TargetAudience != nil {
		c.TargetAudience = f.TargetAudience
	}
	if f.Requirements != nil {
		c.Requirements = f.Requirements
	}
	if f.StartDate != nil {
		c.StartDate = f.StartDate
	}
}

// validateCampaign checks the values that are present; completeness is only
// required at publish time.
func validateCampaign(c *models.Campaign) error {
	var bad []string
	if c.Title == "" || len(c.Title) > 200 {
		bad = append(bad, "title")
	}
	if c.Budget != nil && *c.Budget != "" && !validAmount(*c.Budget) {
		bad = append(bad, "budget")
	}
	if c.Currency != nil && *c.Currency != "" && len(*c.Currency) != 3 {
		bad = append(bad, "currency")
	}
	if c.DurationDays != nil && (*c.DurationDays <= 0 || *c.DurationDays > 365) {
		bad = append(bad, "duration_days")
	}
	for _, p := range c.TargetPlatforms {
		if !models.IsValidPlatform(p) {
			bad = append(bad, "target_platforms")
			break
		}
	}
	if len(bad) > 0 {
		return apperr.Validation("invalid campaign fields", bad...)
	}
	return nil
}

// ownedCampaign loads a campaign and checks that userID owns its store.
func (s *CampaignService) ownedCampaign(ctx context.Context, userID, campaignID uuid.UUID) (*models.Campaign, *models.Store, error) {
	c, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, nil, err
	}
	store, err := s.storeRepo.GetByID(ctx, c.StoreID)
	if err != nil {
		return nil, nil, err
	}
	if store.OwnerUserID != userID {
		return nil, nil, apperr.Permission("you do not own this campaign")
	}
	return c, store, nil
}

// approvedInfluencer resolves the caller's influencer profile and requires it
// to be approved.
func (s *CampaignService) approvedInfluencer(ctx context.Context, userID uuid.UUID) (*models.Influencer, error) {
	inf, err := s.influencerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !inf.IsApproved() {
		return nil, apperr.Forbidden("influencer profile is %s, approval required", strings.ToLower(inf.Status))
	}
	return inf, nil
}

func (s *CampaignService) audit(ctx context.Context, actor uuid.UUID, action, entityType string, entityID uuid.UUID, meta map[string]any) {
	if err := s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor,
		ActorType:   models.ActorUser,
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entityID,
		Meta:        meta,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *CampaignService) Create(ctx context.Context, userID uuid.UUID, fields CampaignFields) (*models.Campaign, error) {
	store, err := s.storeRepo.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Permission("create a store before creating campaigns")
		}
		return nil, err
	}

	c := &models.Campaign{
		StoreID:         store.ID,
		Status:          models.CampaignStatusDraft,
		TargetPlatforms: []string{},
	}
	fields.apply(c)
	if err := validateCampaign(c); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.audit(ctx, userID, "campaign_created", models.EntityCampaign, c.ID, nil)
	return c, nil
}

// Get returns a campaign. Drafts are only visible to the owning brand.
func (s *CampaignService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == models.CampaignStatusDraft {
		store, err := s.storeRepo.GetByID(ctx, c.StoreID)
		if err != nil {
			return nil, err
		}
		if store.OwnerUserID != userID {
			return nil, apperr.NotFound("campaign")
		}
	}
	return c, nil
}

// ListMine returns the campaigns of the caller's store, newest first.
func (s *CampaignService) ListMine(ctx context.Context, userID uuid.UUID, status *string, limit, offset int) ([]models.Campaign, error) {
	store, err := s.storeRepo.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return []models.Campaign{}, nil
		}
		return nil, err
	}
	return s.campaignRepo.List(ctx, repositories.CampaignFilter{
		StoreID: &store.ID,
		Status:  status,
		Limit:   limit,
		Offset:  offset,
	})
}

func (s *CampaignService) Update(ctx context.Context, userID, id uuid.UUID, fields CampaignFields) (*models.Campaign, error) {
	c, _, err := s.ownedCampaign(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CampaignStatusDraft {
		return nil, apperr.InvalidState("only draft campaigns can be edited (status %s)", c.Status)
	}

	fields.apply(c)
	if err := validateCampaign(c); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampaignService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	c, _, err := s.ownedCampaign(ctx, userID, id)
	if err != nil {
		return err
	}
	if c.Status != models.CampaignStatusDraft {
		return apperr.InvalidState("only draft campaigns can be deleted (status %s)", c.Status)
	}
	deleted, err := s.campaignRepo.DeleteDraft(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		// published (or removed) after the read above
		return apperr.InvalidState("only draft campaigns can be deleted")
	}
	s.audit(ctx, userID, "campaign_deleted", models.EntityCampaign, id, nil)
	return nil
}

// Publish moves a complete draft to PUBLISHED. It is one-way.
func (s *CampaignService) Publish(ctx context.Context, userID, id uuid.UUID) (*models.Campaign, error) {
	c, _, err := s.ownedCampaign(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CampaignStatusDraft {
		return nil, apperr.InvalidState("campaign is already %s", strings.ToLower(c.Status))
	}
	if missing := c.MissingPublishFields(); len(missing) > 0 {
		return nil, apperr.Validation("campaign is missing required fields", missing...)
	}

	return s.transition(ctx, userID, c, models.CampaignStatusPublished)
}

// ChangeStatus drives the post-publish lifecycle through the transition table.
func (s *CampaignService) ChangeStatus(ctx context.Context, userID, id uuid.UUID, to string) (*models.Campaign, error) {
	if to == models.CampaignStatusPublished {
		return s.Publish(ctx, userID, id)
	}

	c, _, err := s.ownedCampaign(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !models.IsValidCampaignTransition(c.Status, to) {
		return nil, apperr.InvalidState("cannot move campaign from %s to %s", c.Status, to)
	}
	return s.transition(ctx, userID, c, to)
}

func (s *CampaignService) transition(ctx context.Context, userID uuid.UUID, c *models.Campaign, to string) (*models.Campaign, error) {
	from := c.Status
	updated, err := s.campaignRepo.UpdateStatus(ctx, c.ID, from, to)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// status changed underneath us
			return nil, apperr.InvalidState("campaign status changed concurrently")
		}
		return nil, err
	}
	metrics.CampaignTransitions.WithLabelValues(to).Inc()

	s.audit(ctx, userID, fmt.Sprintf("campaign_status_%s_to_%s", from, to), models.EntityCampaign, c.ID,
		map[string]any{"old_status": from, "new_status": to})

	if err := s.publisher.Publish(ctx, events.ChannelCampaigns, events.Event{
		Type: events.EventCampaignStatusChanged,
		Payload: map[string]any{
			"campaign_id": c.ID.String(),
			"old_status":  from,
			"new_status":  to,
		},
	}); err != nil {
		s.log.Warn("campaign event publish failed", zap.String("campaign_id", c.ID.String()), zap.Error(err))
	}

	return updated, nil
}

// Apply records the caller's application to a published campaign.
func (s *CampaignService) Apply(ctx context.Context, userID, campaignID uuid.UUID, message *string) (*models.CampaignInfluencer, error) {
	inf, err := s.approvedInfluencer(ctx, userID)
	if err != nil {
		return nil, err
	}

	c, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CampaignStatusPublished {
		return nil, apperr.InvalidState("campaign is not accepting applications")
	}

	if _, err := s.applicationRepo.Get(ctx, campaignID, inf.ID); err == nil {
		return nil, apperr.Conflict("you have already applied to this campaign")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if message != nil {
		m := strings.TrimSpace(*message)
		if m == "" {
			message = nil
		} else {
			message = &m
		}
	}

	app := &models.CampaignInfluencer{
		CampaignID:        campaignID,
		InfluencerID:      inf.ID,
		ApplicationStatus: models.ApplicationStatusApplied,
		Message:           message,
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("you have already applied to this campaign")
		}
		return nil, err
	}
	metrics.Applications.WithLabelValues("applied").Inc()

	s.audit(ctx, userID, "campaign_applied", models.EntityApplication, campaignID,
		map[string]any{"influencer_id": inf.ID.String()})

	if store, err := s.storeRepo.GetByID(ctx, c.StoreID); err == nil {
		link := LinkBrandCampaigns
		msg := fmt.Sprintf("%s applied to your campaign %q", inf.DisplayName, c.Title)
		if _, err := s.notifier.Notify(ctx, store.OwnerUserID, models.NotificationNewApplication, msg, &link); err != nil {
			s.log.Warn("application notification failed", zap.String("campaign_id", campaignID.String()), zap.Error(err))
		}
	}

	return app, nil
}

// SelectApplicant marks an application SELECTED and notifies the influencer.
// Of two concurrent selects exactly one succeeds; the other gets Conflict.
func (s *CampaignService) SelectApplicant(ctx context.Context, userID, campaignID, influencerID uuid.UUID) (*models.CampaignInfluencer, error) {
	return s.decide(ctx, userID, campaignID, influencerID, models.ApplicationStatusSelected)
}

// RejectApplicant marks an application REJECTED and notifies the influencer.
func (s *CampaignService) RejectApplicant(ctx context.Context, userID, campaignID, influencerID uuid.UUID) (*models.CampaignInfluencer, error) {
	return s.decide(ctx, userID, campaignID, influencerID, models.ApplicationStatusRejected)
}

func (s *CampaignService) decide(ctx context.Context, userID, campaignID, influencerID uuid.UUID, to string) (*models.CampaignInfluencer, error) {
	c, _, err := s.ownedCampaign(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	inf, err := s.influencerRepo.GetByID(ctx, influencerID)
	if err != nil {
		return nil, err
	}
	app, err := s.applicationRepo.Get(ctx, campaignID, influencerID)
	if err != nil {
		return nil, err
	}
	if err := decisionError(app.ApplicationStatus, to); err != nil {
		return nil, err
	}

	updated, err := s.applicationRepo.UpdateStatus(ctx, campaignID, influencerID, models.ApplicationStatusApplied, to)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		// Lost the race; report against the status that won.
		current, gerr := s.applicationRepo.Get(ctx, campaignID, influencerID)
		if gerr != nil {
			return nil, gerr
		}
		if derr := decisionError(current.ApplicationStatus, to); derr != nil {
			return nil, derr
		}
		return nil, apperr.Conflict("application changed concurrently")
	}

	event := "selected"
	typ := models.NotificationCampaignSelection
	msg := fmt.Sprintf("You have been selected for the campaign %q", c.Title)
	if to == models.ApplicationStatusRejected {
		event = "rejected"
		typ = models.NotificationCampaignRejection
		msg = fmt.Sprintf("Your application to the campaign %q was not accepted", c.Title)
	}
	metrics.Applications.WithLabelValues(event).Inc()

	s.audit(ctx, userID, "application_"+event, models.EntityApplication, campaignID,
		map[string]any{"influencer_id": influencerID.String()})

	link := LinkInfluencerCampaigns
	if _, err := s.notifier.Notify(ctx, inf.UserID, typ, msg, &link); err != nil {
		s.log.Warn("applicant notification failed",
			zap.String("campaign_id", campaignID.String()),
			zap.String("influencer_id", influencerID.String()),
			zap.Error(err))
	}

	return updated, nil
}

// decisionError reports why an application in status current cannot move to target.
func decisionError(current, target string) error {
	if current == target {
		return apperr.Conflict("application is already %s", strings.ToLower(current))
	}
	if !models.IsValidApplicationTransition(current, target) {
		return apperr.InvalidState("application is %s", strings.ToLower(current))
	}
	return nil
}

// ListApplicants returns the campaign's applicants with their social reach.
func (s *CampaignService) ListApplicants(ctx context.Context, userID, campaignID uuid.UUID) ([]models.Applicant, error) {
	if _, _, err := s.ownedCampaign(ctx, userID, campaignID); err != nil {
		return nil, err
	}

	applicants, err := s.applicationRepo.ListApplicants(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if len(applicants) == 0 {
		return applicants, nil
	}

	ids := make([]uuid.UUID, 0, len(applicants))
	for _, a := range applicants {
		ids = append(ids, a.InfluencerID)
	}
	accounts, err := s.influencerRepo.SocialAccountsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range applicants {
		accs := accounts[applicants[i].InfluencerID]
		if accs == nil {
			accs = []models.SocialAccount{}
		}
		applicants[i].SocialAccounts = accs
		applicants[i].TotalFollowers = models.TotalFollowers(accs)
	}
	return applicants, nil
}

// ListAvailable returns published campaigns the caller has not applied to.
func (s *CampaignService) ListAvailable(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.CampaignWithStore, error) {
	inf, err := s.approvedInfluencer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.campaignRepo.ListAvailable(ctx, inf.ID, limit, offset)
}

// ListMyApplications returns the caller's applications with campaign details.
func (s *CampaignService) ListMyApplications(ctx context.Context, userID uuid.UUID) ([]models.MyApplication, error) {
	inf, err := s.influencerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.applicationRepo.ListByInfluencer(ctx, inf.ID)
}
