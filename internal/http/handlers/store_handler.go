package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/http/dto"
	"github.com/shopfluence/backend/internal/middleware"
	"github.com/shopfluence/backend/internal/repositories"
	"github.com/shopfluence/backend/internal/services"
)

type StoreHandler struct {
	storeService *services.StoreService
	log          *zap.Logger
}

func NewStoreHandler(storeService *services.StoreService, log *zap.Logger) *StoreHandler {
	return &StoreHandler{storeService: storeService, log: log}
}

func storeFields(req dto.StoreRequest) services.StoreFields {
	return services.StoreFields{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		BannerURL:   req.BannerURL,
		Category:    req.Category,
	}
}

func productFields(req dto.ProductRequest) services.ProductFields {
	return services.ProductFields{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		ImageURLs:   req.ImageURLs,
		Status:      req.Status,
	}
}

// --- stores ---

func (h *StoreHandler) CreateStore(c *fiber.Ctx) error {
	var req dto.StoreRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	store, err := h.storeService.CreateStore(c.UserContext(), middleware.GetUserID(c), storeFields(req))
	if err != nil {
		return err
	}
	return created(c, store)
}

func (h *StoreHandler) ListStores(c *fiber.Ctx) error {
	limit, offset := page(c)
	stores, err := h.storeService.ListStores(c.UserContext(), repositories.StoreFilter{
		Category: optionalQuery(c, "category"),
		Query:    c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return err
	}
	return ok(c, stores)
}

func (h *StoreHandler) MyStore(c *fiber.Ctx) error {
	store, err := h.storeService.GetMyStore(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, store)
}

func (h *StoreHandler) GetStore(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	store, err := h.storeService.GetStore(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, store)
}

func (h *StoreHandler) UpdateStore(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StoreRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	store, err := h.storeService.UpdateStore(c.UserContext(), middleware.GetUserID(c), id, storeFields(req))
	if err != nil {
		return err
	}
	return ok(c, store)
}

// --- products ---

func (h *StoreHandler) ListProducts(c *fiber.Ctx) error {
	storeID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	limit, offset := page(c)
	products, err := h.storeService.ListProducts(c.UserContext(), middleware.GetUserID(c), storeID, limit, offset)
	if err != nil {
		return err
	}
	return ok(c, products)
}

func (h *StoreHandler) CreateProduct(c *fiber.Ctx) error {
	storeID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	p, err := h.storeService.CreateProduct(c.UserContext(), middleware.GetUserID(c), storeID, productFields(req))
	if err != nil {
		return err
	}
	return created(c, p)
}

func (h *StoreHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.storeService.GetProduct(c.UserContext(), middleware.GetUserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, p)
}

func (h *StoreHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	p, err := h.storeService.UpdateProduct(c.UserContext(), middleware.GetUserID(c), id, productFields(req))
	if err != nil {
		return err
	}
	return ok(c, p)
}

func (h *StoreHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.storeService.DeleteProduct(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return err
	}
	return ok(c, nil)
}

// --- reviews ---

func (h *StoreHandler) ListReviews(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.storeService.ListReviews(c.UserContext(), middleware.GetUserID(c), id)
	if err != nil {
		return err
	}
	return ok(c, summary)
}

func (h *StoreHandler) AddReview(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := dto.Bind(c, &req); err != nil {
		return err
	}
	review, err := h.storeService.AddReview(c.UserContext(), middleware.GetUserID(c), id, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return created(c, review)
}
