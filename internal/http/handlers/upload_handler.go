package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/http/dto"
	"github.com/shopfluence/backend/internal/middleware"
	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/services"
)

type UploadHandler struct {
	uploadService *services.UploadService
	log           *zap.Logger
}

func NewUploadHandler(uploadService *services.UploadService, log *zap.Logger) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, log: log}
}

// Upload accepts multipart field "file" plus "category" and optional "caption".
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	return h.upload(c, c.FormValue("category"), false)
}

// UploadVideo is the long-video endpoint; category is always video.
func (h *UploadHandler) UploadVideo(c *fiber.Ctx) error {
	return h.upload(c, models.UploadCategoryVideo, true)
}

func (h *UploadHandler) upload(c *fiber.Ctx, category string, longVideo bool) error {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, fiber.ErrUnprocessableEntity) || errors.Is(err, fiber.ErrBadRequest) {
			return apperr.Validation("multipart form expected", "file")
		}
		return apperr.Validation("file is required", "file")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	var caption *string
	if v := c.FormValue("caption"); v != "" {
		caption = &v
	}

	res, err := h.uploadService.Upload(c.UserContext(), middleware.GetUserID(c), category, services.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, longVideo, caption)
	if err != nil {
		return err
	}

	resp := dto.UploadResponse{
		Success:  true,
		URL:      res.URL,
		Filename: res.Filename,
		Size:     res.Size,
		MimeType: res.MimeType,
	}
	if res.ID != uuid.Nil {
		resp.ID = res.ID.String()
	}
	return c.JSON(resp)
}

func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uploadService.Delete(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return err
	}
	return ok(c, nil)
}
