package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/models"
	"github.com/shopfluence/backend/internal/repositories"
)

// StoreCategories is the fixed list offered by the store form.
var StoreCategories = []string{
	"fashion", "beauty", "electronics", "home", "sports", "food", "kids", "health", "art", "other",
}

type StoreService struct {
	storeRepo   StoreRepository
	productRepo ProductRepository
	reviewRepo  ReviewRepository
	auditRepo   AuditLogger
	log         *zap.Logger
}

func NewStoreService(
	storeRepo StoreRepository,
	productRepo ProductRepository,
	reviewRepo ReviewRepository,
	auditRepo AuditLogger,
	log *zap.Logger,
) *StoreService {
	return &StoreService{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		auditRepo:   auditRepo,
		log:         log,
	}
}

type StoreFields struct {
	Name        *string
	Slug        *string
	Description *string
	LogoURL     *string
	BannerURL   *string
	Category    *string
}

var (
	slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)
	slugValid  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Slugify turns a store name into a URL-safe slug.
func Slugify(name string) string {
	s := slugUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(s, "-")
}

func (f *StoreFields) apply(s *models.Store) {
	if f.Name != nil {
		s.Name = strings.TrimSpace(*f.Name)
	}
	if f.Slug != nil {
		s.Slug = strings.ToLower(strings.TrimSpace(*f.Slug))
	}
	if f.Description != nil {
		s.Description = f.Description
	}
	if f.LogoURL != nil {
		s.LogoURL = f.LogoURL
	}
	if f.BannerURL != nil {
		s.BannerURL = f.BannerURL
	}
	if f.Category != nil {
		s.Category = f.Category
	}
}

func validateStore(s *models.Store) error {
	var bad []string
	if s.Name == "" || len(s.Name) > 120 {
		bad = append(bad, "name")
	}
	if !slugValid.MatchString(s.Slug) || len(s.Slug) > 80 {
		bad = append(bad, "slug")
	}
	if s.Category != nil && *s.Category != "" && !containsFold(StoreCategories, *s.Category) {
		bad = append(bad, "category")
	}
	if len(bad) > 0 {
		return apperr.Validation("invalid store fields", bad...)
	}
	return nil
}

func (s *StoreService) audit(ctx context.Context, actor uuid.UUID, action, entityType string, entityID uuid.UUID) {
	if err := s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor,
		ActorType:   models.ActorUser,
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entityID,
	}); err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

// CreateStore opens the caller's store. A user owns at most one store.
func (s *StoreService) CreateStore(ctx context.Context, userID uuid.UUID, fields StoreFields) (*models.Store, error) {
	if _, err := s.storeRepo.GetByOwner(ctx, userID); err == nil {
		return nil, apperr.Conflict("you already have a store")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	store := &models.Store{OwnerUserID: userID}
	fields.apply(store)
	if store.Slug == "" {
		store.Slug = Slugify(store.Name)
	}
	if err := validateStore(store); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	s.audit(ctx, userID, "store_created", models.EntityStore, store.ID)
	return store, nil
}

func (s *StoreService) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	return s.storeRepo.GetByID(ctx, id)
}

func (s *StoreService) GetMyStore(ctx context.Context, userID uuid.UUID) (*models.Store, error) {
	return s.storeRepo.GetByOwner(ctx, userID)
}

func (s *StoreService) ListStores(ctx context.Context, f repositories.StoreFilter) ([]models.Store, error) {
	return s.storeRepo.List(ctx, f)
}

func (s *StoreService) UpdateStore(ctx context.Context, userID, id uuid.UUID, fields StoreFields) (*models.Store, error) {
	store, err := s.ownedStore(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	fields.apply(store)
	if err := validateStore(store); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *StoreService) ownedStore(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.OwnerUserID != userID {
		return nil, apperr.Permission("you do not own this store")
	}
	return store, nil
}

// --- products ---

type ProductFields struct {
	Name        *string
	Description *string
	Price       *string
	Currency    *string
	Stock       *int
	ImageURLs   []string
	Status      *string
}

func (f *ProductFields) apply(p *models.Product) {
	if f.Name != nil {
		p.Name = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		p.Description = f.Description
	}
	if f.Price != nil {
		p.Price = strings.TrimSpace(*f.Price)
	}
	if f.Currency != nil {
		p.Currency = strings.ToUpper(strings.TrimSpace(*f.Currency))
	}
	if f.Stock != nil {
		p.Stock = *f.Stock
	}
	if f.ImageURLs != nil {
		p.ImageURLs = f.ImageURLs
	}
	if f.Status != nil {
		p.Status = *f.Status
	}
}

// amountRE matches what fits a NUMERIC(14, 2) column without rounding.
var amountRE = regexp.MustCompile(`^\d{1,12}(\.\d{1,2})?$`)

// validAmount reports whether s is a non-negative money amount the schema can hold.
func validAmount(s string) bool {
	return amountRE.MatchString(s)
}

func validateProduct(p *models.Product) error {
	var bad []string
	if p.Name == "" || len(p.Name) > 200 {
		bad = append(bad, "name")
	}
	if !validAmount(p.Price) {
		bad = append(bad, "price")
	}
	if len(p.Currency) != 3 {
		bad = append(bad, "currency")
	}
	if p.Stock < 0 {
		bad = append(bad, "stock")
	}
	if p.Status != models.ProductStatusActive && p.Status != models.ProductStatusHidden {
		bad = append(bad, "status")
	}
	if len(bad) > 0 {
		return apperr.Validation("invalid product fields", bad...)
	}
	return nil
}

func (s *StoreService) CreateProduct(ctx context.Context, userID, storeID uuid.UUID, fields ProductFields) (*models.Product, error) {
	if _, err := s.ownedStore(ctx, userID, storeID); err != nil {
		return nil, err
	}

	p := &models.Product{
		StoreID:   storeID,
		Status:    models.ProductStatusActive,
		ImageURLs: []string{},
	}
	fields.apply(p)
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.audit(ctx, userID, "product_created", models.EntityProduct, p.ID)
	return p, nil
}

// GetProduct returns a product; hidden products are visible to the store owner only.
func (s *StoreService) GetProduct(ctx context.Context, userID, id uuid.UUID) (*models.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.ProductStatusHidden {
		if _, err := s.ownedStore(ctx, userID, p.StoreID); err != nil {
			return nil, apperr.NotFound("product")
		}
	}
	return p, nil
}

func (s *StoreService) ListProducts(ctx context.Context, userID, storeID uuid.UUID, limit, offset int) ([]models.Product, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return s.productRepo.ListByStore(ctx, storeID, store.OwnerUserID == userID, limit, offset)
}

func (s *StoreService) ownedProduct(ctx context.Context, userID, id uuid.UUID) (*models.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedStore(ctx, userID, p.StoreID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *StoreService) UpdateProduct(ctx context.Context, userID, id uuid.UUID, fields ProductFields) (*models.Product, error) {
	p, err := s.ownedProduct(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	fields.apply(p)
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *StoreService) DeleteProduct(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedProduct(ctx, userID, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, userID, "product_deleted", models.EntityProduct, id)
	return nil
}

// --- reviews ---

// AddReview records the caller's rating of a product. Owners cannot review
// their own products and each user reviews a product once.
func (s *StoreService) AddReview(ctx context.Context, userID, productID uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5", "rating")
	}

	p, err := s.GetProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	store, err := s.storeRepo.GetByID(ctx, p.StoreID)
	if err != nil {
		return nil, err
	}
	if store.OwnerUserID == userID {
		return nil, apperr.Permission("you cannot review your own product")
	}

	r := &models.Review{ProductID: productID, UserID: userID, Rating: rating, Comment: comment}
	if err := s.reviewRepo.Create(ctx, r); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("you have already reviewed this product")
		}
		return nil, err
	}
	return r, nil
}

func (s *StoreService) ListReviews(ctx context.Context, userID, productID uuid.UUID) (*models.ReviewSummary, error) {
	if _, err := s.GetProduct(ctx, userID, productID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	summary := models.SummarizeReviews(reviews)
	return &summary, nil
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
