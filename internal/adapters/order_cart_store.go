package adapters

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	cartrepo "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/repository"
	ordersvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/service"
)

// OrderCartStore adapts the cart repository for checkout. It exposes the
// cart snapshot and clear inside the checkout transaction.
type OrderCartStore struct {
	repo cartrepo.Repository
}

// NewOrderCartStore creates the adapter.
func NewOrderCartStore(repo cartrepo.Repository) *OrderCartStore {
	return &OrderCartStore{repo: repo}
}

func (a *OrderCartStore) LinesTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]ordersvc.CartLine, error) {
	lines, err := a.repo.ListUserLinesTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ordersvc.CartLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, ordersvc.CartLine{
			ProductKind:    l.ProductKind,
			ProductID:      l.ProductID,
			Name:           l.ProductName,
			UnitPriceCents: l.PriceCents,
			Quantity:       l.Quantity,
			Active:         l.Active,
			InStock:        l.InStock,
			StockQuantity:  l.StockQuantity,
			QuoteType:      l.QuoteType,
			QuoteID:        l.QuoteID,
		})
	}
	return out, nil
}

func (a *OrderCartStore) ClearTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	return a.repo.ClearUserTx(ctx, tx, userID)
}

// Compile-time check that OrderCartStore implements service.CartStore.
var _ ordersvc.CartStore = (*OrderCartStore)(nil)
