package adapters

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	ordersvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/service"
	quoterepo "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/repository"
)

// OrderQuoteStamper adapts the quote repository for checkout. When a cart
// line originated from a converted quote, checkout stamps the order number
// back onto the quote inside the checkout transaction.
type OrderQuoteStamper struct {
	repo quoterepo.Repository
}

// NewOrderQuoteStamper creates the adapter.
func NewOrderQuoteStamper(repo quoterepo.Repository) *OrderQuoteStamper {
	return &OrderQuoteStamper{repo: repo}
}

func (a *OrderQuoteStamper) StampOrderTx(ctx context.Context, tx pgx.Tx, quoteType string, quoteID uuid.UUID, orderNumber string) error {
	return a.repo.StampOrderTx(ctx, tx, quoteType, quoteID, orderNumber)
}

// Compile-time check that OrderQuoteStamper implements service.QuoteStamper.
var _ ordersvc.QuoteStamper = (*OrderQuoteStamper)(nil)
