package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	catrepo "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog/repository"
	quotesvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/service"
)

// quoteCategoryName is the hidden catalog category that holds items
// synthesized from converted quotes. Hidden so the storefront never lists
// one-off quote items.
const quoteCategoryName = "Custom Quotes"

// QuoteCatalogWriter adapts the catalog repository for quote conversion.
// It synthesizes the fabricated item a converted quote is sold as.
type QuoteCatalogWriter struct {
	repo catrepo.Repository
}

// NewQuoteCatalogWriter creates the adapter.
func NewQuoteCatalogWriter(repo catrepo.Repository) *QuoteCatalogWriter {
	return &QuoteCatalogWriter{repo: repo}
}

// CreateQuoteItemTx creates the fabricated item for a converted quote
// inside the conversion transaction, filing it under the hidden quotes
// category. Quote items are made to order, so they start in stock.
func (a *QuoteCatalogWriter) CreateQuoteItemTx(ctx context.Context, tx pgx.Tx, params quotesvc.QuoteItemParams) (uuid.UUID, error) {
	category, err := a.repo.EnsureCategoryTx(ctx, tx, quoteCategoryName, false)
	if err != nil {
		return uuid.Nil, fmt.Errorf("catalog adapter: ensure quote category: %w", err)
	}

	item, err := a.repo.CreateFabricatedItemTx(ctx, tx, catrepo.CreateFabricatedItemParams{
		Code:       params.Code,
		Name:       params.Name,
		PriceCents: params.PriceCents,
		InStock:    true,
		CategoryID: category.ID,
		QuoteType:  &params.QuoteType,
		QuoteID:    &params.QuoteID,
		ImageKey:   params.ImageKey,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("catalog adapter: create quote item: %w", err)
	}
	return item.ID, nil
}

// Compile-time check that QuoteCatalogWriter implements service.CatalogWriter.
var _ quotesvc.CatalogWriter = (*QuoteCatalogWriter)(nil)
