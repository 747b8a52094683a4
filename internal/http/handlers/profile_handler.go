package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/http/dto"
	"github.com/shopfluence/backend/internal/middleware"
	"github.com/shopfluence/backend/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	log            *zap.Logger
}

func NewProfileHandler(profileService *services.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, log: log}
}

func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	p, err := h.profileService.GetMe(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, p)
}

func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.UpdateMeRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	p, err := h.profileService.UpdateMe(c.UserContext(), middleware.GetUserID(c), services.ProfileFields{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Location:    req.Location,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return ok(c, p)
}
