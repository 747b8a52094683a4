package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/services"
)

type MetaHandler struct{}

func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

type MetaOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var storeCategoryLabels = map[string]string{
	"fashion":     "Fashion & Apparel",
	"beauty":      "Beauty & Cosmetics",
	"electronics": "Electronics",
	"home":        "Home & Living",
	"sports":      "Sports & Outdoors",
	"food":        "Food & Drinks",
	"kids":        "Kids & Toys",
	"health":      "Health & Wellness",
	"art":         "Art & Crafts",
	"other":       "Other",
}

var platformLabels = map[string]string{
	models.PlatformInstagram: "Instagram",
	models.PlatformTikTok:    "TikTok",
	models.PlatformYouTube:   "YouTube",
	models.PlatformTelegram:  "Telegram",
	models.PlatformTwitter:   "X (Twitter)",
	models.PlatformFacebook:  "Facebook",
}

func options(ids []string, labels map[string]string) []MetaOption {
	out := make([]MetaOption, 0, len(ids))
	for _, id := range ids {
		label, found := labels[id]
		if !found {
			label = id
		}
		out = append(out, MetaOption{ID: id, Label: label})
	}
	return out
}

func (h *MetaHandler) GetStoreCategories(c *fiber.Ctx) error {
	return ok(c, options(services.StoreCategories, storeCategoryLabels))
}

func (h *MetaHandler) GetPlatforms(c *fiber.Ctx) error {
	return ok(c, options(models.AllPlatforms, platformLabels))
}

func (h *MetaHandler) GetUploadCategories(c *fiber.Ctx) error {
	return ok(c, models.AllUploadCategories)
}
