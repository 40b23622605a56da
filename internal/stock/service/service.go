// Package service implements stock ledger operations.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

// Service implements stock operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates the stock service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Adjust applies a manual staff movement and logs the result.
func (s *Service) Adjust(ctx context.Context, productID uuid.UUID, req transport.AdjustRequest, actor string) (transport.AdjustmentResponse, error) {
	result, err := s.repo.Adjust(ctx, repository.AdjustParams{
		ProductID: productID,
		Delta:     req.Delta,
		Reason:    req.Reason,
		Actor:     actor,
	})
	if err != nil {
		return transport.AdjustmentResponse{}, err
	}

	s.logMovement(result)
	return response(result.Adjustment), nil
}

// DeductForOrderTx deducts order quantities inside the checkout
// transaction. One ledger row per order line.
func (s *Service) DeductForOrderTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int, orderID uuid.UUID, actor string) error {
	result, err := s.repo.AdjustTx(ctx, tx, repository.AdjustParams{
		ProductID: productID,
		Delta:     -quantity,
		Reason:    repository.ReasonOrder,
		OrderID:   &orderID,
		Actor:     actor,
	})
	if err != nil {
		return err
	}

	s.logMovement(result)
	return nil
}

// History returns the newest ledger entries for a product.
func (s *Service) History(ctx context.Context, productID uuid.UUID, limit int) ([]transport.AdjustmentResponse, error) {
	entries, err := s.repo.History(ctx, productID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]transport.AdjustmentResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, response(e))
	}
	return out, nil
}

func (s *Service) logMovement(result repository.AdjustResult) {
	s.log.StockAdjusted(result.ProductID.String(), result.Delta, result.NewQuantity, result.Reason)
	if result.NewQuantity <= result.LowStockThreshold {
		s.log.LowStock(result.ProductID.String(), result.NewQuantity, result.LowStockThreshold)
	}
}

func response(adj repository.Adjustment) transport.AdjustmentResponse {
	return transport.AdjustmentResponse{
		ID:               adj.ID,
		ProductID:        adj.ProductID,
		Delta:            adj.Delta,
		Reason:           adj.Reason,
		PreviousQuantity: adj.PreviousQuantity,
		NewQuantity:      adj.NewQuantity,
		OrderID:          adj.OrderID,
		Actor:            adj.Actor,
		CreatedAt:        adj.CreatedAt,
	}
}
