package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/http/dto"
	"github.com/shopfluence/backend/internal/middleware"
	"github.com/shopfluence/backend/internal/services"
)

type InfluencerHandler struct {
	influencerService *services.InfluencerService
	log               *zap.Logger
}

func NewInfluencerHandler(influencerService *services.InfluencerService, log *zap.Logger) *InfluencerHandler {
	return &InfluencerHandler{influencerService: influencerService, log: log}
}

func influencerFields(req dto.InfluencerRequest) services.InfluencerFields {
	return services.InfluencerFields{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Niche:       req.Niche,
		Location:    req.Location,
	}
}

func (h *InfluencerHandler) Register(c *fiber.Ctx) error {
	var req dto.InfluencerRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	inf, err := h.influencerService.Register(c.UserContext(), middleware.GetUserID(c), influencerFields(req))
	if err != nil {
		return err
	}
	return created(c, inf)
}

func (h *InfluencerHandler) GetMine(c *fiber.Ctx) error {
	inf, err := h.influencerService.GetMine(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, inf)
}

func (h *InfluencerHandler) UpdateMine(c *fiber.Ctx) error {
	var req dto.InfluencerRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	inf, err := h.influencerService.UpdateMine(c.UserContext(), middleware.GetUserID(c), influencerFields(req))
	if err != nil {
		return err
	}
	return ok(c, inf)
}

func (h *InfluencerHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	inf, err := h.influencerService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, inf)
}

// --- social accounts ---

func (h *InfluencerHandler) UpsertSocialAccount(c *fiber.Ctx) error {
	var req dto.SocialAccountRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	acc, err := h.influencerService.UpsertSocialAccount(c.UserContext(), middleware.GetUserID(c), c.Params("platform"),
		services.SocialAccountFields{Handle: req.Handle, URL: req.URL, FollowerCount: req.FollowerCount})
	if err != nil {
		return err
	}
	return ok(c, acc)
}

func (h *InfluencerHandler) DeleteSocialAccount(c *fiber.Ctx) error {
	if err := h.influencerService.DeleteSocialAccount(c.UserContext(), middleware.GetUserID(c), c.Params("platform")); err != nil {
		return err
	}
	return ok(c, nil)
}

func (h *InfluencerHandler) RefreshSocialAccount(c *fiber.Ctx) error {
	acc, err := h.influencerService.RefreshSocialAccount(c.UserContext(), middleware.GetUserID(c), c.Params("platform"))
	if err != nil {
		return err
	}
	return ok(c, acc)
}

// --- moderation (admin) ---

func (h *InfluencerHandler) AdminList(c *fiber.Ctx) error {
	limit, offset := page(c)
	list, err := h.influencerService.List(c.UserContext(), optionalQuery(c, "status"), limit, offset)
	if err != nil {
		return err
	}
	return ok(c, list)
}

func (h *InfluencerHandler) AdminSetStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.InfluencerStatusRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	inf, err := h.influencerService.SetStatus(c.UserContext(), middleware.GetUserID(c), id, req.Status)
	if err != nil {
		return err
	}
	return ok(c, inf)
}
