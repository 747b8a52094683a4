package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/events"
	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/repositories"
	"github.com/shopfluence/backend/internal/statsparser"
)

// In-memory stand-ins for the Postgres repositories. They reproduce the
// constraints the schema enforces (unique keys, conditional updates).

type memDB struct {
	mu            sync.Mutex
	clock         time.Time
	stores        map[uuid.UUID]*models.Store
	products      map[uuid.UUID]*models.Product
	reviews       []*models.Review
	influencers   map[uuid.UUID]*models.Influencer
	accounts      map[uuid.UUID]map[string]*models.SocialAccount
	campaigns     map[uuid.UUID]*models.Campaign
	applications  map[[2]uuid.UUID]*models.CampaignInfluencer
	notifications []*models.Notification
	media         map[uuid.UUID]*models.MediaUpload
	profiles      map[uuid.UUID]*models.Profile
	audit         []models.AuditLog
}

func newMemDB() *memDB {
	return &memDB{
		clock:        time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		stores:       map[uuid.UUID]*models.Store{},
		products:     map[uuid.UUID]*models.Product{},
		influencers:  map[uuid.UUID]*models.Influencer{},
		accounts:     map[uuid.UUID]map[string]*models.SocialAccount{},
		campaigns:    map[uuid.UUID]*models.Campaign{},
		applications: map[[2]uuid.UUID]*models.CampaignInfluencer{},
		media:        map[uuid.UUID]*models.MediaUpload{},
		profiles:     map[uuid.UUID]*models.Profile{},
	}
}

// tick returns a strictly increasing timestamp so ordering is deterministic.
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

var errUnique = &apperr.Error{Kind: apperr.KindConflict, Msg: "already exists"}

// --- stores ---

type memStores struct{ db *memDB }

func (r memStores) Create(_ context.Context, s *models.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.stores {
		if existing.OwnerUserID == s.OwnerUserID || existing.Slug == s.Slug {
			return errUnique
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = r.db.tick()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	r.db.stores[s.ID] = &cp
	return nil
}

func (r memStores) GetByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.stores[id]
	if !ok {
		return nil, apperr.NotFound("store")
	}
	cp := *s
	return &cp, nil
}

func (r memStores) GetByOwner(_ context.Context, owner uuid.UUID) (*models.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range r.db.stores {
		if s.OwnerUserID == owner {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("store")
}

func (r memStores) Update(_ context.Context, s *models.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.stores[s.ID]; !ok {
		return apperr.NotFound("store")
	}
	s.UpdatedAt = r.db.tick()
	cp := *s
	r.db.stores[s.ID] = &cp
	return nil
}

func (r memStores) List(_ context.Context, f repositories.StoreFilter) ([]models.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Store{}
	for _, s := range r.db.stores {
		if f.Category != nil && (s.Category == nil || *s.Category != *f.Category) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// --- products & reviews ---

type memProducts struct{ db *memDB }

func (r memProducts) Create(_ context.Context, p *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = r.db.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.db.products[p.ID] = &cp
	return nil
}

func (r memProducts) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, apperr.NotFound("product")
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) Update(_ context.Context, p *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.UpdatedAt = r.db.tick()
	cp := *p
	r.db.products[p.ID] = &cp
	return nil
}

func (r memProducts) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.products, id)
	return nil
}

func (r memProducts) ListByStore(_ context.Context, storeID uuid.UUID, includeHidden bool, _, _ int) ([]models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.db.products {
		if p.StoreID != storeID || (!includeHidden && p.Status != models.ProductStatusActive) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memReviews struct{ db *memDB }

func (r memReviews) Create(_ context.Context, rv *models.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.reviews {
		if existing.ProductID == rv.ProductID && existing.UserID == rv.UserID {
			return errUnique
		}
	}
	rv.ID = uuid.New()
	rv.CreatedAt = r.db.tick()
	cp := *rv
	r.db.reviews = append(r.db.reviews, &cp)
	return nil
}

func (r memReviews) ListByProduct(_ context.Context, productID uuid.UUID) ([]models.Review, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Review{}
	for i := len(r.db.reviews) - 1; i >= 0; i-- {
		if r.db.reviews[i].ProductID == productID {
			out = append(out, *r.db.reviews[i])
		}
	}
	return out, nil
}

// --- influencers ---

type memInfluencers struct{ db *memDB }

func (r memInfluencers) Create(_ context.Context, i *models.Influencer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.influencers {
		if existing.UserID == i.UserID {
			return errUnique
		}
	}
	i.ID = uuid.New()
	i.CreatedAt = r.db.tick()
	i.UpdatedAt = i.CreatedAt
	cp := *i
	r.db.influencers[i.ID] = &cp
	return nil
}

func (r memInfluencers) GetByID(_ context.Context, id uuid.UUID) (*models.Influencer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i, ok := r.db.influencers[id]
	if !ok {
		return nil, apperr.NotFound("influencer")
	}
	cp := *i
	return &cp, nil
}

func (r memInfluencers) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Influencer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, i := range r.db.influencers {
		if i.UserID == userID {
			cp := *i
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("influencer profile")
}

func (r memInfluencers) UpdateProfile(_ context.Context, i *models.Influencer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.influencers[i.ID]
	if !ok {
		return apperr.NotFound("influencer")
	}
	existing.DisplayName, existing.Bio, existing.Niche, existing.Location = i.DisplayName, i.Bio, i.Niche, i.Location
	return nil
}

func (r memInfluencers) UpdateStatus(_ context.Context, id uuid.UUID, status string) (*models.Influencer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i, ok := r.db.influencers[id]
	if !ok {
		return nil, apperr.NotFound("influencer")
	}
	i.Status = status
	cp := *i
	return &cp, nil
}

func (r memInfluencers) List(_ context.Context, f repositories.InfluencerFilter) ([]models.Influencer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Influencer{}
	for _, i := range r.db.influencers {
		if f.Status == nil || i.Status == *f.Status {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (r memInfluencers) UpsertSocialAccount(_ context.Context, a *models.SocialAccount) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	byPlatform := r.db.accounts[a.InfluencerID]
	if byPlatform == nil {
		byPlatform = map[string]*models.SocialAccount{}
		r.db.accounts[a.InfluencerID] = byPlatform
	}
	if existing, ok := byPlatform[a.Platform]; ok {
		a.ID = existing.ID
	} else {
		a.ID = uuid.New()
	}
	a.UpdatedAt = r.db.tick()
	cp := *a
	byPlatform[a.Platform] = &cp
	return nil
}

func (r memInfluencers) GetSocialAccount(_ context.Context, influencerID uuid.UUID, platform string) (*models.SocialAccount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.accounts[influencerID][platform]
	if !ok {
		return nil, apperr.NotFound("social account")
	}
	cp := *a
	return &cp, nil
}

func (r memInfluencers) DeleteSocialAccount(_ context.Context, influencerID uuid.UUID, platform string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.accounts[influencerID][platform]; !ok {
		return false, nil
	}
	delete(r.db.accounts[influencerID], platform)
	return true, nil
}

func (r memInfluencers) SocialAccountsFor(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.SocialAccount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := map[uuid.UUID][]models.SocialAccount{}
	for _, id := range ids {
		for _, a := range r.db.accounts[id] {
			out[id] = append(out[id], *a)
		}
	}
	return out, nil
}

func (r memInfluencers) ListStaleSocialAccounts(_ context.Context, platform string, before time.Time, limit int) ([]models.SocialAccount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.SocialAccount{}
	for _, byPlatform := range r.db.accounts {
		if a, ok := byPlatform[platform]; ok && a.UpdatedAt.Before(before) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Before(out[j].UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- campaigns & applications ---

type memCampaigns struct{ db *memDB }

func (r memCampaigns) Create(_ context.Context, c *models.Campaign) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = r.db.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.db.campaigns[c.ID] = &cp
	return nil
}

func (r memCampaigns) GetByID(_ context.Context, id uuid.UUID) (*models.Campaign, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.campaigns[id]
	if !ok {
		return nil, apperr.NotFound("campaign")
	}
	cp := *c
	return &cp, nil
}

func (r memCampaigns) Update(_ context.Context, c *models.Campaign) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.campaigns[c.ID]
	if !ok {
		return apperr.NotFound("campaign")
	}
	c.Status = existing.Status
	c.UpdatedAt = r.db.tick()
	cp := *c
	r.db.campaigns[c.ID] = &cp
	return nil
}

func (r memCampaigns) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) (*models.Campaign, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.campaigns[id]
	if !ok || c.Status != from {
		return nil, apperr.NotFound("campaign")
	}
	c.Status = to
	c.UpdatedAt = r.db.tick()
	if to == models.CampaignStatusPublished {
		t := c.UpdatedAt
		c.PublishedAt = &t
	}
	cp := *c
	return &cp, nil
}

func (r memCampaigns) DeleteDraft(_ context.Context, id uuid.UUID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.campaigns[id]
	if !ok || c.Status != models.CampaignStatusDraft {
		return false, nil
	}
	delete(r.db.campaigns, id)
	return true, nil
}

func (r memCampaigns) List(_ context.Context, f repositories.CampaignFilter) ([]models.Campaign, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Campaign{}
	for _, c := range r.db.campaigns {
		if f.StoreID != nil && c.StoreID != *f.StoreID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memCampaigns) ListAvailable(_ context.Context, influencerID uuid.UUID, _, _ int) ([]models.CampaignWithStore, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.CampaignWithStore{}
	for _, c := range r.db.campaigns {
		if c.Status != models.CampaignStatusPublished {
			continue
		}
		if _, applied := r.db.applications[[2]uuid.UUID{c.ID, influencerID}]; applied {
			continue
		}
		out = append(out, models.CampaignWithStore{Campaign: *c, StoreName: r.db.stores[c.StoreID].Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memApplications struct{ db *memDB }

func (r memApplications) Create(_ context.Context, a *models.CampaignInfluencer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := [2]uuid.UUID{a.CampaignID, a.InfluencerID}
	if _, ok := r.db.applications[key]; ok {
		return errUnique
	}
	a.AppliedAt = r.db.tick()
	cp := *a
	r.db.applications[key] = &cp
	return nil
}

func (r memApplications) Get(_ context.Context, campaignID, influencerID uuid.UUID) (*models.CampaignInfluencer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.applications[[2]uuid.UUID{campaignID, influencerID}]
	if !ok {
		return nil, apperr.NotFound("application")
	}
	cp := *a
	return &cp, nil
}

func (r memApplications) UpdateStatus(_ context.Context, campaignID, influencerID uuid.UUID, from, to string) (*models.CampaignInfluencer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.applications[[2]uuid.UUID{campaignID, influencerID}]
	if !ok || a.ApplicationStatus != from {
		return nil, apperr.NotFound("application")
	}
	a.ApplicationStatus = to
	if to == models.ApplicationStatusSelected {
		t := r.db.tick()
		a.SelectedAt = &t
	}
	cp := *a
	return &cp, nil
}

func (r memApplications) ListApplicants(_ context.Context, campaignID uuid.UUID) ([]models.Applicant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Applicant{}
	for key, a := range r.db.applications {
		if key[0] != campaignID {
			continue
		}
		out = append(out, models.Applicant{CampaignInfluencer: *a, Influencer: *r.db.influencers[a.InfluencerID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

func (r memApplications) ListByInfluencer(_ context.Context, influencerID uuid.UUID) ([]models.MyApplication, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.MyApplication{}
	for key, a := range r.db.applications {
		if key[1] != influencerID {
			continue
		}
		c := r.db.campaigns[key[0]]
		count := 0
		for k := range r.db.applications {
			if k[0] == key[0] {
				count++
			}
		}
		out = append(out, models.MyApplication{
			CampaignInfluencer: *a,
			Campaign:           models.CampaignWithStore{Campaign: *c, StoreName: r.db.stores[c.StoreID].Name},
			ApplicantCount:     count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

// --- notifications, media, profiles, audit ---

type memNotifications struct {
	db      *memDB
	failErr error
}

func (r *memNotifications) Create(_ context.Context, n *models.Notification) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = r.db.tick()
	cp := *n
	r.db.notifications = append(r.db.notifications, &cp)
	return nil
}

func (r *memNotifications) List(_ context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Notification{}
	for i := len(r.db.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		n := r.db.notifications[i]
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *memNotifications) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, n := range r.db.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return apperr.NotFound("notification")
}

func (r *memNotifications) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var count int64
	for _, n := range r.db.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *memNotifications) UnreadCount(_ context.Context, userID uuid.UUID) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	count := 0
	for _, n := range r.db.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (db *memDB) notificationsFor(userID uuid.UUID, typ string) []models.Notification {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []models.Notification
	for _, n := range db.notifications {
		if n.UserID == userID && n.Type == typ {
			out = append(out, *n)
		}
	}
	return out
}

type memMedia struct {
	db        *memDB
	failErr   error
	deleteErr error
}

func (r *memMedia) Create(_ context.Context, m *models.MediaUpload) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = r.db.tick()
	cp := *m
	r.db.media[m.ID] = &cp
	return nil
}

func (r *memMedia) GetByID(_ context.Context, id uuid.UUID) (*models.MediaUpload, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.media[id]
	if !ok {
		return nil, apperr.NotFound("upload")
	}
	cp := *m
	return &cp, nil
}

func (r *memMedia) Delete(_ context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.media, id)
	return nil
}

type memProfiles struct{ db *memDB }

func (r memProfiles) Ensure(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[userID]
	if !ok {
		now := r.db.tick()
		p = &models.Profile{UserID: userID, Role: models.RoleUser, CreatedAt: now, UpdatedAt: now}
		r.db.profiles[userID] = p
	}
	cp := *p
	return &cp, nil
}

func (r memProfiles) Get(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("profile")
	}
	cp := *p
	return &cp, nil
}

func (r memProfiles) Update(_ context.Context, p *models.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	existing, ok := r.db.profiles[p.UserID]
	if !ok {
		return apperr.NotFound("profile")
	}
	existing.DisplayName, existing.Bio, existing.Location, existing.AvatarURL = p.DisplayName, p.Bio, p.Location, p.AvatarURL
	p.Role = existing.Role
	return nil
}

func (r memProfiles) SetRole(_ context.Context, userID uuid.UUID, role string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[userID]
	if !ok {
		p = &models.Profile{UserID: userID}
		r.db.profiles[userID] = p
	}
	p.Role = role
	return nil
}

type memAudit struct{ db *memDB }

func (r memAudit) Log(_ context.Context, entry models.AuditLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.audit = append(r.db.audit, entry)
	return nil
}

// --- collaborators ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type fakeStats struct {
	stats *statsparser.TelegramStats
	err   error
	calls []string
}

func (f *fakeStats) FetchTelegramStats(_ context.Context, username string) (*statsparser.TelegramStats, error) {
	f.calls = append(f.calls, username)
	return f.stats, f.err
}

type memStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	writeErr error
}

func newMemStorage() *memStorage { return &memStorage{objects: map[string][]byte{}} }

func (s *memStorage) Write(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStorage) URL(key string) string { return "https://cdn.test/" + key }

var errBoom = errors.New("boom")
