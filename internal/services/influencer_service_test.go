package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/statsparser"
)

func TestRegisterInfluencer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID := uuid.New()

	inf, err := env.Influencers.Register(ctx, userID, InfluencerFields{DisplayName: strp(" Ana "), Niche: strp("fashion")})
	require.NoError(t, err)
	assert.Equal(t, models.InfluencerStatusPending, inf.Status)
	assert.Equal(t, "Ana", inf.DisplayName)

	_, err = env.Influencers.Register(ctx, userID, InfluencerFields{DisplayName: strp("Ana again")})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = env.Influencers.Register(ctx, uuid.New(), InfluencerFields{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSetStatus_ApprovalPromotesRole(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, inf := env.influencer(t, "Ana", models.InfluencerStatusPending)

	_, err := env.Influencers.SetStatus(ctx, uuid.New(), inf.ID, "FAMOUS")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	updated, err := env.Influencers.SetStatus(ctx, uuid.New(), inf.ID, models.InfluencerStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.InfluencerStatusApproved, updated.Status)

	profile, err := env.Profiles.GetMe(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleInfluencer, profile.Role)
	assert.Len(t, env.db.notificationsFor(userID, models.NotificationInfluencerStatus), 1)

	_, err = env.Influencers.SetStatus(ctx, uuid.New(), inf.ID, models.InfluencerStatusSuspended)
	require.NoError(t, err)
	profile, err = env.Profiles.GetMe(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, profile.Role)

	pending := models.InfluencerStatusPending
	list, err := env.Influencers.List(ctx, &pending, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSocialAccounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, _ := env.influencer(t, "Ana", models.InfluencerStatusApproved)

	_, err := env.Influencers.UpsertSocialAccount(ctx, userID, "myspace", SocialAccountFields{Handle: "ana"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	acc, err := env.Influencers.UpsertSocialAccount(ctx, userID, "Instagram", SocialAccountFields{Handle: "@ana", FollowerCount: "1.2K"})
	require.NoError(t, err)
	assert.Equal(t, "ana", acc.Handle)
	assert.Equal(t, models.PlatformInstagram, acc.Platform)

	again, err := env.Influencers.UpsertSocialAccount(ctx, userID, "instagram", SocialAccountFields{Handle: "ana", FollowerCount: "2K"})
	require.NoError(t, err)
	assert.Equal(t, acc.ID, again.ID, "upsert keeps one account per platform")

	card, err := env.Influencers.GetMine(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, card.SocialAccounts, 1)
	assert.Equal(t, 2000, card.TotalFollowers)

	require.NoError(t, env.Influencers.DeleteSocialAccount(ctx, userID, "instagram"))
	assert.ErrorIs(t, env.Influencers.DeleteSocialAccount(ctx, userID, "instagram"), apperr.ErrNotFound)
}

func TestRefreshSocialAccount(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID, _ := env.influencer(t, "Ana", models.InfluencerStatusApproved)

	_, err := env.Influencers.RefreshSocialAccount(ctx, userID, "instagram")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = env.Influencers.RefreshSocialAccount(ctx, userID, "telegram")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.Influencers.UpsertSocialAccount(ctx, userID, "telegram", SocialAccountFields{Handle: "anachannel", FollowerCount: "100"})
	require.NoError(t, err)

	env.stats.stats = &statsparser.TelegramStats{Username: "anachannel", Subscribers: 48200, FetchedAt: time.Now()}
	acc, err := env.Influencers.RefreshSocialAccount(ctx, userID, "telegram")
	require.NoError(t, err)
	assert.Equal(t, "48200", acc.FollowerCount)
	assert.Equal(t, []string{"anachannel"}, env.stats.calls)

	env.stats.stats, env.stats.err = nil, statsparser.ErrCounterNotFound
	_, err = env.Influencers.RefreshSocialAccount(ctx, userID, "telegram")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestStaleTelegramAccounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	first, _ := env.influencer(t, "Ana", models.InfluencerStatusApproved)
	second, _ := env.influencer(t, "Bo", models.InfluencerStatusApproved)

	_, err := env.Influencers.UpsertSocialAccount(ctx, first, "telegram", SocialAccountFields{Handle: "ana"})
	require.NoError(t, err)
	_, err = env.Influencers.UpsertSocialAccount(ctx, second, "telegram", SocialAccountFields{Handle: "bo"})
	require.NoError(t, err)
	_, err = env.Influencers.UpsertSocialAccount(ctx, second, "instagram", SocialAccountFields{Handle: "bo.ig"})
	require.NoError(t, err)

	stale, err := env.Influencers.StaleTelegramAccounts(ctx, time.Hour, 10)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "ana", stale[0].Handle)
	assert.Equal(t, "bo", stale[1].Handle)

	env.stats.stats = &statsparser.TelegramStats{Username: "bo", Subscribers: 1500}
	require.NoError(t, env.Influencers.RefreshTelegramAccount(ctx, &stale[1]))
	assert.Equal(t, "1500", stale[1].FollowerCount)

	stale, err = env.Influencers.StaleTelegramAccounts(ctx, time.Hour, 1)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "ana", stale[0].Handle)
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID := uuid.New()

	p, err := env.Profiles.GetMe(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, p.Role)

	p, err = env.Profiles.UpdateMe(ctx, userID, ProfileFields{DisplayName: strp(" Ana "), Bio: strp("hi")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", *p.DisplayName)
	assert.Equal(t, models.RoleUser, p.Role)

	admin := uuid.New()
	svc := NewProfileService(memProfiles{env.db}, []uuid.UUID{admin}, zap.NewNop())
	role, err := svc.RoleOf(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
}
