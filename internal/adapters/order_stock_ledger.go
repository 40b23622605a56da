package adapters

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	ordersvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/service"
	stocksvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/service"
)

// OrderStockLedger adapts the stock service for checkout. Deductions run
// inside the checkout transaction and fail it when stock is insufficient.
type OrderStockLedger struct {
	stock *stocksvc.Service
}

// NewOrderStockLedger creates the adapter.
func NewOrderStockLedger(stock *stocksvc.Service) *OrderStockLedger {
	return &OrderStockLedger{stock: stock}
}

func (a *OrderStockLedger) DeductTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int, orderID uuid.UUID, actor string) error {
	return a.stock.DeductForOrderTx(ctx, tx, productID, quantity, orderID, actor)
}

// Compile-time check that OrderStockLedger implements service.StockLedger.
var _ ordersvc.StockLedger = (*OrderStockLedger)(nil)
