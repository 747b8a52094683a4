package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/models"
)

type testEnv struct {
	db            *memDB
	publisher     *recordingPublisher
	notifications *memNotifications
	stats         *fakeStats

	Notifications *NotificationService
	Campaigns     *CampaignService
	Stores        *StoreService
	Influencers   *InfluencerService
	Profiles      *ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	db := newMemDB()
	pub := &recordingPublisher{}
	notifRepo := &memNotifications{db: db}
	stats := &fakeStats{}

	notifications := NewNotificationService(notifRepo, pub, log)
	return &testEnv{
		db:            db,
		publisher:     pub,
		notifications: notifRepo,
		stats:         stats,
		Notifications: notifications,
		Campaigns: NewCampaignService(memCampaigns{db}, memApplications{db}, memStores{db}, memInfluencers{db},
			notifications, memAudit{db}, pub, log),
		Stores:      NewStoreService(memStores{db}, memProducts{db}, memReviews{db}, memAudit{db}, log),
		Influencers: NewInfluencerService(memInfluencers{db}, memProfiles{db}, notifications, memAudit{db}, stats, log),
		Profiles:    NewProfileService(memProfiles{db}, nil, log),
	}
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

// brand creates a user owning a store.
func (e *testEnv) brand(t *testing.T, name string) (uuid.UUID, *models.Store) {
	t.Helper()
	userID := uuid.New()
	store, err := e.Stores.CreateStore(context.Background(), userID, StoreFields{Name: strp(name)})
	require.NoError(t, err)
	return userID, store
}

// influencer registers a user as an influencer with the given status.
func (e *testEnv) influencer(t *testing.T, name, status string) (uuid.UUID, *models.Influencer) {
	t.Helper()
	ctx := context.Background()
	userID := uuid.New()
	inf, err := e.Influencers.Register(ctx, userID, InfluencerFields{DisplayName: strp(name)})
	require.NoError(t, err)
	if status != models.InfluencerStatusPending {
		inf, err = e.Influencers.SetStatus(ctx, uuid.New(), inf.ID, status)
		require.NoError(t, err)
	}
	return userID, inf
}

func completeCampaign(title string) CampaignFields {
	return CampaignFields{
		Title:           strp(title),
		Description:     strp("Show our new sneakers in action"),
		Budget:          strp("1500.00"),
		Currency:        strp("usd"),
		DurationDays:    intp(14),
		TargetPlatforms: []string{models.PlatformInstagram, models.PlatformTikTok},
		TargetAudience:  strp("18-30, streetwear"),
	}
}

// publishedCampaign creates and publishes a complete campaign for brandUser.
func (e *testEnv) publishedCampaign(t *testing.T, brandUser uuid.UUID, title string) *models.Campaign {
	t.Helper()
	ctx := context.Background()
	c, err := e.Campaigns.Create(ctx, brandUser, completeCampaign(title))
	require.NoError(t, err)
	c, err = e.Campaigns.Publish(ctx, brandUser, c.ID)
	require.NoError(t, err)
	return c
}
