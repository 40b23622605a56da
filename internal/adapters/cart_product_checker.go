package adapters

import (
	"context"

	"github.com/google/uuid"

	cartsvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/service"
	catrepo "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
)

// CartProductChecker adapts the catalog repository for the cart. It
// answers whether a product can be added to a cart right now.
type CartProductChecker struct {
	repo catrepo.Repository
}

// NewCartProductChecker creates the adapter.
func NewCartProductChecker(repo catrepo.Repository) *CartProductChecker {
	return &CartProductChecker{repo: repo}
}

// ProductPurchasable reports whether the product exists, is active, and is
// available. A missing product reads as not purchasable rather than an
// error so the cart can answer with a uniform rejection.
func (a *CartProductChecker) ProductPurchasable(ctx context.Context, kind string, id uuid.UUID) (bool, error) {
	switch kind {
	case "fabricated":
		item, err := a.repo.GetFabricatedItem(ctx, id)
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return item.Active && item.InStock, nil
	case "stocked":
		item, err := a.repo.GetStockedItem(ctx, id)
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return item.Active && item.Quantity > 0, nil
	default:
		return false, nil
	}
}

// Compile-time check that CartProductChecker implements service.ProductChecker.
var _ cartsvc.ProductChecker = (*CartProductChecker)(nil)
