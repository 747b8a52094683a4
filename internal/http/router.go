package http

import (
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/config"
	"github.com/shopfluence/backend/internal/http/handlers"
	"github.com/shopfluence/backend/internal/middleware"
	"github.com/shopfluence/backend/internal/rbac"
)

type Handlers struct {
	Profile      *handlers.ProfileHandler
	Store        *handlers.StoreHandler
	Influencer   *handlers.InfluencerHandler
	Campaign     *handlers.CampaignHandler
	Notification *handlers.NotificationHandler
	Upload       *handlers.UploadHandler
	WS           *handlers.WSHub
	Roles        middleware.RoleResolver
}

// SetupRouter mounts every route. uploadsDir is served at /uploads when the
// local storage driver is used; pass "" otherwise.
func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb redis.Cmdable,
	h Handlers,
	uploadsDir string,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: cfg.CORSOrigins != "*" && !strings.Contains(cfg.CORSOrigins, "*"),
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.MetricsMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if uploadsDir != "" {
		app.Static("/uploads", uploadsDir, fiber.Static{ByteRange: true, MaxAge: 86400})
	}

	api := app.Group("/api/v1")

	// Meta (public)
	meta := handlers.NewMetaHandler()
	api.Get("/meta/store-categories", meta.GetStoreCategories)
	api.Get("/meta/platforms", meta.GetPlatforms)
	api.Get("/meta/upload-categories", meta.GetUploadCategories)

	protected := api.Group("",
		middleware.AuthMiddleware(cfg, log),
		middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute, log),
	)
	can := func(permission string) fiber.Handler {
		return middleware.RequirePermission(h.Roles, permission)
	}

	// Profile
	protected.Get("/me", h.Profile.GetMe)
	protected.Put("/me", h.Profile.UpdateMe)

	// Stores
	protected.Post("/stores", can(rbac.PermManageStore), h.Store.CreateStore)
	protected.Get("/stores", h.Store.ListStores)
	protected.Get("/stores/my", h.Store.MyStore)
	protected.Get("/stores/:id", h.Store.GetStore)
	protected.Put("/stores/:id", can(rbac.PermManageStore), h.Store.UpdateStore)
	protected.Get("/stores/:id/products", h.Store.ListProducts)
	protected.Post("/stores/:id/products", can(rbac.PermManageStore), h.Store.CreateProduct)

	// Products
	protected.Get("/products/:id", h.Store.GetProduct)
	protected.Put("/products/:id", can(rbac.PermManageStore), h.Store.UpdateProduct)
	protected.Delete("/products/:id", can(rbac.PermManageStore), h.Store.DeleteProduct)
	protected.Get("/products/:id/reviews", h.Store.ListReviews)
	protected.Post("/products/:id/reviews", can(rbac.PermReviewProducts), h.Store.AddReview)

	// Influencers
	protected.Post("/influencers", h.Influencer.Register)
	protected.Get("/influencers/me", h.Influencer.GetMine)
	protected.Put("/influencers/me", h.Influencer.UpdateMine)
	protected.Put("/influencers/me/social-accounts/:platform", h.Influencer.UpsertSocialAccount)
	protected.Delete("/influencers/me/social-accounts/:platform", h.Influencer.DeleteSocialAccount)
	protected.Post("/influencers/me/social-accounts/:platform/refresh", h.Influencer.RefreshSocialAccount)
	protected.Get("/influencers/:id", h.Influencer.Get)

	// Campaigns
	protected.Post("/campaigns", can(rbac.PermManageCampaigns), h.Campaign.CreateCampaign)
	protected.Get("/campaigns", h.Campaign.ListCampaigns)
	protected.Get("/campaigns/available", h.Campaign.ListAvailable)
	protected.Get("/campaigns/applications", h.Campaign.ListMyApplications)
	protected.Get("/campaigns/:id", h.Campaign.GetCampaign)
	protected.Put("/campaigns/:id", can(rbac.PermManageCampaigns), h.Campaign.UpdateCampaign)
	protected.Delete("/campaigns/:id", can(rbac.PermManageCampaigns), h.Campaign.DeleteCampaign)
	protected.Post("/campaigns/:id/publish", can(rbac.PermManageCampaigns), h.Campaign.PublishCampaign)
	protected.Post("/campaigns/:id/status", can(rbac.PermManageCampaigns), h.Campaign.ChangeStatus)
	protected.Post("/campaigns/:id/apply", h.Campaign.Apply)
	protected.Get("/campaigns/:id/applicants", h.Campaign.ListApplicants)
	protected.Post("/campaigns/:id/applicants/:influencerId/select", h.Campaign.SelectApplicant)
	protected.Post("/campaigns/:id/applicants/:influencerId/reject", h.Campaign.RejectApplicant)

	// Notifications
	protected.Get("/notifications", h.Notification.List)
	protected.Get("/notifications/unread-count", h.Notification.UnreadCount)
	protected.Post("/notifications/read-all", h.Notification.MarkAllRead)
	protected.Post("/notifications/:id/read", h.Notification.MarkRead)

	// Uploads
	protected.Post("/uploads", h.Upload.Upload)
	protected.Post("/uploads/videos", h.Upload.UploadVideo)
	protected.Delete("/uploads/:id", h.Upload.Delete)

	// Admin
	admin := protected.Group("/admin", can(rbac.PermModerateInfluencers))
	admin.Get("/influencers", h.Influencer.AdminList)
	admin.Post("/influencers/:id/status", h.Influencer.AdminSetStatus)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(h.WS.HandleWS))
}
