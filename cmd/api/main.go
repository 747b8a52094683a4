package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/config"
	"github.com/shopfluence/backend/internal/db"
	"github.com/shopfluence/backend/internal/events"
	apphttp "github.com/shopfluence/backend/internal/http"
	"github.com/shopfluence/backend/internal/http/handlers"
	"github.com/shopfluence/backend/internal/repositories"
	"github.com/shopfluence/backend/internal/services"
	"github.com/shopfluence/backend/internal/statsparser"
	"github.com/shopfluence/backend/internal/storage"
	"github.com/shopfluence/backend/migrations"
)

// multipart framing on top of the largest allowed file
const bodyOverhead = 1 << 20

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.DefaultPoolOptions(), log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Storage
	store, err := storage.New(ctx, storage.Config{
		Driver:        cfg.StorageDriver,
		LocalDir:      cfg.UploadDir,
		PublicBaseURL: cfg.UploadsPublicURL(),
		S3: storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			PublicURL:       cfg.S3PublicURL,
		},
	})
	if err != nil {
		log.Fatal("failed to init storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	uploadsDir := ""
	if local, isLocal := store.(*storage.LocalStorage); isLocal {
		uploadsDir = local.BasePath()
	}

	// Repositories
	campaignRepo := repositories.NewCampaignRepo(pool)
	applicationRepo := repositories.NewApplicationRepo(pool)
	influencerRepo := repositories.NewInfluencerRepo(pool)
	storeRepo := repositories.NewStoreRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	reviewRepo := repositories.NewReviewRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)
	mediaRepo := repositories.NewMediaRepo(pool)
	profileRepo := repositories.NewProfileRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	statsParser := statsparser.NewParser(cfg.TMEFetchTimeoutMS, cfg.TMEFetchMaxRetries, log)
	notificationService := services.NewNotificationService(notificationRepo, publisher, log)
	profileService := services.NewProfileService(profileRepo, cfg.AdminUserIDs, log)
	storeService := services.NewStoreService(storeRepo, productRepo, reviewRepo, auditRepo, log)
	influencerService := services.NewInfluencerService(influencerRepo, profileRepo, notificationService, auditRepo, statsParser, log)
	campaignService := services.NewCampaignService(campaignRepo, applicationRepo, storeRepo, influencerRepo,
		notificationService, auditRepo, publisher, log)
	uploadService := services.NewUploadService(store, mediaRepo, services.UploadLimits{
		Image:     cfg.MaxImageBytes,
		Video:     cfg.MaxVideoBytes,
		LongVideo: cfg.MaxLongVideoBytes,
	}, log)

	// Handlers
	wsHub := handlers.NewWSHub(cfg, subscriber, log)
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to subscribe to notification events", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    int(cfg.MaxLongVideoBytes) + bodyOverhead,
	})

	apphttp.SetupRouter(app, cfg, log, rdb, apphttp.Handlers{
		Profile:      handlers.NewProfileHandler(profileService, log),
		Store:        handlers.NewStoreHandler(storeService, log),
		Influencer:   handlers.NewInfluencerHandler(influencerService, log),
		Campaign:     handlers.NewCampaignHandler(campaignService, log),
		Notification: handlers.NewNotificationHandler(notificationService, log),
		Upload:       handlers.NewUploadHandler(uploadService, log),
		WS:           wsHub,
		Roles:        profileService,
	}, uploadsDir)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr), zap.String("storage", cfg.StorageDriver))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
