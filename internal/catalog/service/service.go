// Package service implements catalog business logic: storefront listings,
// unified product lookup across both kinds, and admin catalog management.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

const invalidKindMessage = "unknown product kind"

// Service implements catalog operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates the catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetProduct returns the unified view of a product of either kind.
func (s *Service) GetProduct(ctx context.Context, kind transport.Kind, id uuid.UUID) (transport.ProductResponse, error) {
	switch kind {
	case transport.KindFabricated:
		item, err := s.repo.GetFabricatedItem(ctx, id)
		if err != nil {
			return transport.ProductResponse{}, err
		}
		return fabricatedResponse(item), nil
	case transport.KindStocked:
		item, err := s.repo.GetStockedItem(ctx, id)
		if err != nil {
			return transport.ProductResponse{}, err
		}
		return stockedResponse(item), nil
	default:
		return transport.ProductResponse{}, apperr.Validation(invalidKindMessage)
	}
}

// ListStorefront returns everything a customer can browse: active fabricated
// items in public categories and active stocked items.
func (s *Service) ListStorefront(ctx context.Context) ([]transport.ProductResponse, error) {
	fabricated, stocked, err := s.repo.ListStorefront(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ProductResponse, 0, len(fabricated)+len(stocked))
	for _, item := range fabricated {
		out = append(out, fabricatedResponse(item))
	}
	for _, item := range stocked {
		out = append(out, stockedResponse(item))
	}
	return out, nil
}

// CreateCategory creates a catalog category. Defaults to public.
func (s *Service) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (transport.CategoryResponse, error) {
	public := true
	if req.Public != nil {
		public = *req.Public
	}

	cat, err := s.repo.CreateCategory(ctx, req.Name, public)
	if err != nil {
		return transport.CategoryResponse{}, err
	}
	return transport.CategoryResponse{ID: cat.ID, Name: cat.Name, Public: cat.Public}, nil
}

// ListCategories lists all categories for staff.
func (s *Service) ListCategories(ctx context.Context) ([]transport.CategoryResponse, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, transport.CategoryResponse{ID: cat.ID, Name: cat.Name, Public: cat.Public})
	}
	return out, nil
}

// CreateFabricatedItem creates a fabricated item from an admin request.
func (s *Service) CreateFabricatedItem(ctx context.Context, req transport.CreateFabricatedItemRequest) (transport.ProductResponse, error) {
	item, err := s.repo.CreateFabricatedItem(ctx, repository.CreateFabricatedItemParams{
		Code:       req.Code,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		InStock:    req.InStock,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return fabricatedResponse(item), nil
}

// CreateStockedItem creates a stocked item from an admin request. The initial
// quantity lands directly on the row; subsequent movement goes through the
// stock ledger.
func (s *Service) CreateStockedItem(ctx context.Context, req transport.CreateStockedItemRequest) (transport.ProductResponse, error) {
	item, err := s.repo.CreateStockedItem(ctx, repository.CreateStockedItemParams{
		Code:              req.Code,
		Name:              req.Name,
		PriceCents:        req.PriceCents,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return stockedResponse(item), nil
}

// UpdateFabricatedItem applies a partial update.
func (s *Service) UpdateFabricatedItem(ctx context.Context, id uuid.UUID, req transport.UpdateFabricatedItemRequest) (transport.ProductResponse, error) {
	item, err := s.repo.UpdateFabricatedItem(ctx, repository.UpdateFabricatedItemParams{
		ID:         id,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		InStock:    req.InStock,
		Active:     req.Active,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return fabricatedResponse(item), nil
}

// UpdateStockedItem applies a partial update.
func (s *Service) UpdateStockedItem(ctx context.Context, id uuid.UUID, req transport.UpdateStockedItemRequest) (transport.ProductResponse, error) {
	item, err := s.repo.UpdateStockedItem(ctx, repository.UpdateStockedItemParams{
		ID:                id,
		Name:              req.Name,
		PriceCents:        req.PriceCents,
		LowStockThreshold: req.LowStockThreshold,
		Active:            req.Active,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return stockedResponse(item), nil
}

// Deactivate soft-deletes a product of either kind.
func (s *Service) Deactivate(ctx context.Context, kind transport.Kind, id uuid.UUID) error {
	switch kind {
	case transport.KindFabricated:
		return s.repo.DeactivateFabricatedItem(ctx, id)
	case transport.KindStocked:
		return s.repo.DeactivateStockedItem(ctx, id)
	default:
		return apperr.Validation(invalidKindMessage)
	}
}

func fabricatedResponse(item repository.FabricatedItem) transport.ProductResponse {
	resp := transport.ProductResponse{
		Kind:       transport.KindFabricated,
		ID:         item.ID,
		Code:       item.Code,
		Name:       item.Name,
		PriceCents: item.PriceCents,
		Available:  item.InStock,
		Active:     item.Active,
		CreatedAt:  item.CreatedAt,
	}
	if item.QuoteType != nil && item.QuoteID != nil {
		resp.QuoteRef = &transport.QuoteRef{Type: *item.QuoteType, ID: *item.QuoteID}
	}
	if item.ImageKey != nil {
		resp.ImageKey = *item.ImageKey
	}
	return resp
}

func stockedResponse(item repository.StockedItem) transport.ProductResponse {
	quantity := item.Quantity
	return transport.ProductResponse{
		Kind:              transport.KindStocked,
		ID:                item.ID,
		Code:              item.Code,
		Name:              item.Name,
		PriceCents:        item.PriceCents,
		Available:         item.Quantity > 0,
		AvailableQuantity: &quantity,
		LowStock:          item.Quantity <= item.LowStockThreshold,
		Active:            item.Active,
		CreatedAt:         item.CreatedAt,
	}
}
