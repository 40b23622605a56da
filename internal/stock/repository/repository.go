// Package repository implements the stock ledger over PostgreSQL.
//
// Quantity on stocked_items never changes directly: every movement is a
// conditional update paired with an append-only stock_adjustments row, so
// the current quantity is always reconstructible from the ledger.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
)

// Well-known adjustment reasons. Reason is free text in the table; these
// are the ones the application writes.
const (
	ReasonOrder      = "order placed"
	ReasonRestock    = "restock"
	ReasonCorrection = "correction"
)

// AdjustParams describes one stock movement.
type AdjustParams struct {
	ProductID uuid.UUID
	Delta     int
	Reason    string
	OrderID   *uuid.UUID
	Actor     string
}

// Adjustment is one recorded stock movement.
type Adjustment struct {
	ID               uuid.UUID
	ProductID        uuid.UUID
	Delta            int
	Reason           string
	PreviousQuantity int
	NewQuantity      int
	OrderID          *uuid.UUID
	Actor            string
	CreatedAt        time.Time
}

// AdjustResult is an applied adjustment plus the product's threshold, so
// the caller can decide whether to warn about low stock.
type AdjustResult struct {
	Adjustment
	LowStockThreshold int
}

// InsufficientStockDetails is the structured payload attached to the
// conflict error when a deduction would go negative.
type InsufficientStockDetails struct {
	ProductID string `json:"productId"`
	Available int    `json:"available"`
}

// Repository defines the stock data access boundary.
type Repository interface {
	Adjust(ctx context.Context, params AdjustParams) (AdjustResult, error)
	AdjustTx(ctx context.Context, tx pgx.Tx, params AdjustParams) (AdjustResult, error)
	History(ctx context.Context, productID uuid.UUID, limit int) ([]Adjustment, error)
}

// Repo implements Repository over a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a stock repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Adjust applies a stock movement in its own transaction.
func (r *Repo) Adjust(ctx context.Context, params AdjustParams) (AdjustResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return AdjustResult{}, fmt.Errorf("begin adjust: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := r.AdjustTx(ctx, tx, params)
	if err != nil {
		return AdjustResult{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return AdjustResult{}, fmt.Errorf("commit adjust: %w", err)
	}
	return result, nil
}

// adjustQuantityQuery moves the quantity and reports the before/after
// pair out of the same row version. The guard keeps a losing concurrent
// deduction from driving the quantity negative.
const adjustQuantityQuery = `
	UPDATE stocked_items
	SET quantity = quantity + $1
	WHERE id = $2 AND quantity + $1 >= 0
	RETURNING quantity - $1, quantity, low_stock_threshold`

// recordAdjustmentQuery appends the ledger row carrying the before/after
// quantities the update returned.
const recordAdjustmentQuery = `
	INSERT INTO stock_adjustments (product_id, delta, reason, previous_quantity, new_quantity, order_id, actor)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at`

// AdjustTx applies a stock movement inside a caller-owned transaction.
// The quantity update is conditional so a concurrent deduction cannot
// drive the quantity negative; losing the race yields an insufficient
// stock conflict, not an oversell.
func (r *Repo) AdjustTx(ctx context.Context, tx pgx.Tx, params AdjustParams) (AdjustResult, error) {
	var result AdjustResult
	err := tx.QueryRow(ctx, adjustQuantityQuery,
		params.Delta, params.ProductID,
	).Scan(&result.PreviousQuantity, &result.NewQuantity, &result.LowStockThreshold)
	if errors.Is(err, pgx.ErrNoRows) {
		return AdjustResult{}, r.explainRejection(ctx, tx, params.ProductID)
	}
	if err != nil {
		return AdjustResult{}, fmt.Errorf("adjust stock: %w", err)
	}

	err = tx.QueryRow(ctx, recordAdjustmentQuery,
		params.ProductID, params.Delta, params.Reason,
		result.PreviousQuantity, result.NewQuantity, params.OrderID, params.Actor,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return AdjustResult{}, fmt.Errorf("record adjustment: %w", err)
	}

	result.ProductID = params.ProductID
	result.Delta = params.Delta
	result.Reason = params.Reason
	result.OrderID = params.OrderID
	result.Actor = params.Actor
	return result, nil
}

// explainRejection distinguishes a missing product from an insufficient
// quantity after the conditional update matched nothing.
func (r *Repo) explainRejection(ctx context.Context, tx pgx.Tx, productID uuid.UUID) error {
	var available int
	err := tx.QueryRow(ctx,
		`SELECT quantity FROM stocked_items WHERE id = $1`, productID,
	).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("product not found")
	}
	if err != nil {
		return fmt.Errorf("inspect stock: %w", err)
	}
	return apperr.Conflict("insufficient stock").WithDetails(InsufficientStockDetails{
		ProductID: productID.String(),
		Available: available,
	})
}

// History returns the newest adjustments for a product.
func (r *Repo) History(ctx context.Context, productID uuid.UUID, limit int) ([]Adjustment, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, delta, reason, previous_quantity, new_quantity, order_id, actor, created_at
		FROM stock_adjustments
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		productID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	var out []Adjustment
	for rows.Next() {
		var adj Adjustment
		if err := rows.Scan(
			&adj.ID, &adj.ProductID, &adj.Delta, &adj.Reason,
			&adj.PreviousQuantity, &adj.NewQuantity, &adj.OrderID, &adj.Actor, &adj.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		out = append(out, adj)
	}
	return out, rows.Err()
}
