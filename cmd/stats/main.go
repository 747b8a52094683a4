package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/config"
	"github.com/shopfluence/backend/internal/db"
	"github.com/shopfluence/backend/internal/repositories"
	"github.com/shopfluence/backend/internal/services"
	"github.com/shopfluence/backend/internal/statsparser"
)

// pause between t.me requests within one sweep
const fetchDelay = 2 * time.Second

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.DefaultPoolOptions(), log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	influencerRepo := repositories.NewInfluencerRepo(pool)
	parser := statsparser.NewParser(cfg.TMEFetchTimeoutMS, cfg.TMEFetchMaxRetries, log)
	// profile changes and notifications are not part of a follower refresh
	influencerService := services.NewInfluencerService(influencerRepo, nil, nil, nil, parser, log)

	log.Info("stats refresher started", zap.Duration("interval", cfg.StatsRefreshInterval))

	runStatsRefresh(ctx, influencerService, rdb, cfg, log)

	ticker := time.NewTicker(cfg.StatsRefreshInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runStatsRefresh(ctx, influencerService, rdb, cfg, log)
		case <-sigCh:
			log.Info("shutting down stats refresher")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runStatsRefresh(
	ctx context.Context,
	influencerService *services.InfluencerService,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) {
	accounts, err := influencerService.StaleTelegramAccounts(ctx, cfg.StatsRefreshInterval, cfg.StatsBatchSize)
	if err != nil {
		log.Error("failed to list stale telegram accounts", zap.Error(err))
		return
	}

	log.Info("refreshing telegram followers", zap.Int("accounts", len(accounts)))

	refreshed := 0
	for i := range accounts {
		acc := &accounts[i]

		// One fetch per channel per interval, shared by every refresher replica.
		rlKey := fmt.Sprintf("rl:stats:%s", acc.Handle)
		ok, err := rdb.SetNX(ctx, rlKey, "1", cfg.StatsRefreshInterval).Result()
		if err != nil {
			log.Warn("stats cooldown check failed", zap.String("handle", acc.Handle), zap.Error(err))
		} else if !ok {
			continue
		}

		if err := influencerService.RefreshTelegramAccount(ctx, acc); err != nil {
			if errors.Is(err, apperr.ErrValidation) {
				log.Info("telegram channel has no public counter", zap.String("handle", acc.Handle))
			} else {
				log.Warn("telegram refresh failed", zap.String("handle", acc.Handle), zap.Error(err))
			}
			continue
		}
		refreshed++

		select {
		case <-ctx.Done():
			return
		case <-time.After(fetchDelay):
		}
	}

	log.Info("telegram refresh done", zap.Int("refreshed", refreshed), zap.Int("candidates", len(accounts)))
}
