package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

type fakeStockRepo struct {
	adjusts   []repository.AdjustParams
	adjustErr error
	result    repository.AdjustResult
}

func (r *fakeStockRepo) Adjust(ctx context.Context, params repository.AdjustParams) (repository.AdjustResult, error) {
	return r.apply(params)
}

func (r *fakeStockRepo) AdjustTx(ctx context.Context, tx pgx.Tx, params repository.AdjustParams) (repository.AdjustResult, error) {
	return r.apply(params)
}

func (r *fakeStockRepo) apply(params repository.AdjustParams) (repository.AdjustResult, error) {
	r.adjusts = append(r.adjusts, params)
	if r.adjustErr != nil {
		return repository.AdjustResult{}, r.adjustErr
	}
	result := r.result
	result.ProductID = params.ProductID
	result.Delta = params.Delta
	result.Reason = params.Reason
	return result, nil
}

func (r *fakeStockRepo) History(ctx context.Context, productID uuid.UUID, limit int) ([]repository.Adjustment, error) {
	return nil, nil
}

var _ repository.Repository = (*fakeStockRepo)(nil)

func TestDeductForOrderTx_WritesNegativeOrderMovement(t *testing.T) {
	repo := &fakeStockRepo{result: repository.AdjustResult{
		Adjustment:        repository.Adjustment{PreviousQuantity: 5, NewQuantity: 3},
		LowStockThreshold: 2,
	}}
	svc := New(repo, logger.New("test"))

	productID := uuid.New()
	orderID := uuid.New()
	if err := svc.DeductForOrderTx(context.Background(), nil, productID, 2, orderID, "user-1"); err != nil {
		t.Fatalf("expected deduction to succeed, got %v", err)
	}

	if len(repo.adjusts) != 1 {
		t.Fatalf("expected 1 adjustment, got %d", len(repo.adjusts))
	}
	params := repo.adjusts[0]
	if params.Delta != -2 {
		t.Fatalf("expected delta -2, got %d", params.Delta)
	}
	if params.Reason != "order placed" {
		t.Fatalf("expected reason %q, got %q", "order placed", params.Reason)
	}
	if params.OrderID == nil || *params.OrderID != orderID {
		t.Fatalf("expected ledger row linked to order %s", orderID)
	}
}

func TestDeductForOrderTx_PropagatesInsufficientStock(t *testing.T) {
	repo := &fakeStockRepo{adjustErr: apperr.Conflict("insufficient stock")}
	svc := New(repo, logger.New("test"))

	err := svc.DeductForOrderTx(context.Background(), nil, uuid.New(), 10, uuid.New(), "user-1")
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAdjust_MapsRequestToLedgerMovement(t *testing.T) {
	repo := &fakeStockRepo{result: repository.AdjustResult{
		Adjustment:        repository.Adjustment{PreviousQuantity: 3, NewQuantity: 13},
		LowStockThreshold: 2,
	}}
	svc := New(repo, logger.New("test"))

	resp, err := svc.Adjust(context.Background(), uuid.New(), transport.AdjustRequest{
		Delta:  10,
		Reason: "restock",
	}, "staff-1")
	if err != nil {
		t.Fatalf("expected adjust to succeed, got %v", err)
	}

	if repo.adjusts[0].Actor != "staff-1" {
		t.Fatalf("expected actor staff-1, got %s", repo.adjusts[0].Actor)
	}
	if resp.NewQuantity != 13 || resp.PreviousQuantity != 3 {
		t.Fatalf("expected quantities 3 -> 13, got %d -> %d", resp.PreviousQuantity, resp.NewQuantity)
	}
}
