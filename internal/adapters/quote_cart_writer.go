package adapters

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	cartrepo "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/repository"
	quotesvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/service"
)

// QuoteCartWriter adapts the cart repository for quote conversion. It puts
// the synthesized item into the requester's cart inside the conversion
// transaction.
type QuoteCartWriter struct {
	repo cartrepo.Repository
}

// NewQuoteCartWriter creates the adapter.
func NewQuoteCartWriter(repo cartrepo.Repository) *QuoteCartWriter {
	return &QuoteCartWriter{repo: repo}
}

func (a *QuoteCartWriter) AddTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, productKind string, productID uuid.UUID, quantity int) error {
	return a.repo.AddTx(ctx, tx, userID, productKind, productID, quantity)
}

// Compile-time check that QuoteCartWriter implements service.CartWriter.
var _ quotesvc.CartWriter = (*QuoteCartWriter)(nil)
