package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/http/dto"
	"github.com/shopfluence/backend/internal/middleware"
	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/services"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, log: log}
}

func campaignFields(req dto.CampaignRequest) services.CampaignFields {
	return services.CampaignFields{
		Title:           req.Title,
		Description:     req.Description,
		Budget:          req.Budget,
		Currency:        req.Currency,
		DurationDays:    req.DurationDays,
		TargetPlatforms: req.TargetPlatforms,
		TargetAudience:  req.TargetAudience,
		Requirements:    req.Requirements,
		StartDate:       req.StartDate,
	}
}

func (h *CampaignHandler) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CampaignRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	campaign, err := h.campaignService.Create(c.UserContext(), middleware.GetUserID(c), campaignFields(req))
	if err != nil {
		return err
	}
	return created(c, campaign)
}

// ListCampaigns returns the caller's own campaigns (brand view).
func (h *CampaignHandler) ListCampaigns(c *fiber.Ctx) error {
	limit, offset := page(c)
	campaigns, err := h.campaignService.ListMine(c.UserContext(), middleware.GetUserID(c), optionalQuery(c, "status"), limit, offset)
	if err != nil {
		return err
	}
	return ok(c, campaigns)
}

func (h *CampaignHandler) ListAvailable(c *fiber.Ctx) error {
	limit, offset := page(c)
	campaigns, err := h.campaignService.ListAvailable(c.UserContext(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		return err
	}
	return ok(c, campaigns)
}

func (h *CampaignHandler) ListMyApplications(c *fiber.Ctx) error {
	apps, err := h.campaignService.ListMyApplications(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, apps)
}

func (h *CampaignHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	campaign, err := h.campaignService.Get(c.UserContext(), middleware.GetUserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, campaign)
}

func (h *CampaignHandler) UpdateCampaign(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CampaignRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	campaign, err := h.campaignService.Update(c.UserContext(), middleware.GetUserID(c), id, campaignFields(req))
	if err != nil {
		return err
	}
	return ok(c, campaign)
}

func (h *CampaignHandler) DeleteCampaign(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.campaignService.Delete(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return err
	}
	return ok(c, nil)
}

func (h *CampaignHandler) PublishCampaign(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	campaign, err := h.campaignService.Publish(c.UserContext(), middleware.GetUserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, campaign)
}

func (h *CampaignHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CampaignStatusRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	campaign, err := h.campaignService.ChangeStatus(c.UserContext(), middleware.GetUserID(c), id, req.Status)
	if err != nil {
		return err
	}
	return ok(c, campaign)
}

// --- applications ---

func (h *CampaignHandler) Apply(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ApplyRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	application, err := h.campaignService.Apply(c.UserContext(), middleware.GetUserID(c), id, req.Message)
	if err != nil {
		return err
	}
	return created(c, application)
}

func (h *CampaignHandler) ListApplicants(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	applicants, err := h.campaignService.ListApplicants(c.UserContext(), middleware.GetUserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, applicants)
}

func (h *CampaignHandler) SelectApplicant(c *fiber.Ctx) error {
	return h.decide(c, h.campaignService.SelectApplicant)
}

func (h *CampaignHandler) RejectApplicant(c *fiber.Ctx) error {
	return h.decide(c, h.campaignService.RejectApplicant)
}

func (h *CampaignHandler) decide(c *fiber.Ctx, fn func(ctx context.Context, userID, campaignID, influencerID uuid.UUID) (*models.CampaignInfluencer, error)) error {
	campaignID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	influencerID, err := paramUUID(c, "influencerId")
	if err != nil {
		return err
	}
	application, err := fn(c.UserContext(), middleware.GetUserID(c), campaignID, influencerID)
	if err != nil {
		return err
	}
	return ok(c, application)
}
