// Package repository implements order persistence over PostgreSQL.
//
// Orders are written once inside the checkout transaction and are
// immutable afterwards except for status, payment, and invoice fields.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
)

// Order is one stored order header.
type Order struct {
	ID             uuid.UUID
	OrderNumber    string
	UserID         uuid.UUID
	Status         string
	SubtotalCents  int64
	ShippingMethod string
	ShippingOption *string
	ShippingCents  int64
	TotalCents     int64
	PaymentMethod  string
	QuoteType      *string
	QuoteID        *uuid.UUID
	InvoiceNumber  *string
	CreatedAt      time.Time
}

// Line is one stored order line.
type Line struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductKind    string
	ProductID      uuid.UUID
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// CreateOrderParams holds the header fields written at checkout.
type CreateOrderParams struct {
	OrderNumber    string
	UserID         uuid.UUID
	SubtotalCents  int64
	ShippingMethod string
	ShippingOption *string
	ShippingCents  int64
	TotalCents     int64
	PaymentMethod  string
	QuoteType      *string
	QuoteID        *uuid.UUID
}

// CreateLineParams holds one order line written at checkout.
type CreateLineParams struct {
	ProductKind    string
	ProductID      uuid.UUID
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// Repository defines the order data access boundary.
type Repository interface {
	InsertOrderTx(ctx context.Context, tx pgx.Tx, params CreateOrderParams) (Order, error)
	InsertLinesTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, lines []CreateLineParams) ([]Line, error)

	GetByNumber(ctx context.Context, orderNumber string) (Order, []Line, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]Order, error)
	List(ctx context.Context, status string, limit int) ([]Order, error)
	UpdateStatus(ctx context.Context, orderNumber, status string) (Order, error)
	SetInvoiceNumber(ctx context.Context, orderNumber, invoiceNumber string) error
}

// Repo implements Repository over a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates an order repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const orderColumns = `id, order_number, user_id, status, subtotal_cents, shipping_method,
	shipping_option, shipping_cents, total_cents, payment_method, quote_type, quote_id,
	invoice_number, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.SubtotalCents, &o.ShippingMethod,
		&o.ShippingOption, &o.ShippingCents, &o.TotalCents, &o.PaymentMethod,
		&o.QuoteType, &o.QuoteID, &o.InvoiceNumber, &o.CreatedAt,
	)
	return o, err
}

// IsOrderNumberConflict reports whether err is the unique violation raised
// when two checkouts allocated the same order number.
func IsOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_number_key"
}

// InsertOrderTx writes the order header inside the checkout transaction.
func (r *Repo) InsertOrderTx(ctx context.Context, tx pgx.Tx, params CreateOrderParams) (Order, error) {
	o, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, user_id, subtotal_cents, shipping_method,
			shipping_option, shipping_cents, total_cents, payment_method, quote_type, quote_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+orderColumns,
		params.OrderNumber, params.UserID, params.SubtotalCents, params.ShippingMethod,
		params.ShippingOption, params.ShippingCents, params.TotalCents, params.PaymentMethod,
		params.QuoteType, params.QuoteID,
	))
	if err != nil {
		// Order number conflicts bubble up untyped so checkout can retry.
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

// InsertLinesTx writes the immutable order lines inside the checkout
// transaction.
func (r *Repo) InsertLinesTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, lines []CreateLineParams) ([]Line, error) {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		var line Line
		err := tx.QueryRow(ctx, `
			INSERT INTO order_lines (order_id, product_kind, product_id, name, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, order_id, product_kind, product_id, name, quantity, unit_price_cents`,
			orderID, l.ProductKind, l.ProductID, l.Name, l.Quantity, l.UnitPriceCents,
		).Scan(&line.ID, &line.OrderID, &line.ProductKind, &line.ProductID, &line.Name, &line.Quantity, &line.UnitPriceCents)
		if err != nil {
			return nil, fmt.Errorf("insert order line: %w", err)
		}
		out = append(out, line)
	}
	return out, nil
}

// GetByNumber fetches an order and its lines.
func (r *Repo) GetByNumber(ctx context.Context, orderNumber string) (Order, []Line, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return Order{}, nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_kind, product_id, name, quantity, unit_price_cents
		FROM order_lines WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return Order{}, nil, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductKind, &l.ProductID, &l.Name, &l.Quantity, &l.UnitPriceCents); err != nil {
			return Order{}, nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	return o, lines, rows.Err()
}

// ListForUser returns the user's newest orders.
func (r *Repo) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return collectOrders(rows)
}

// List returns the newest orders, optionally filtered by status.
func (r *Repo) List(ctx context.Context, status string, limit int) ([]Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{limit}
	if status != "" {
		query += ` WHERE status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order's status after validating the transition.
func (r *Repo) UpdateStatus(ctx context.Context, orderNumber, status string) (Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx,
		`SELECT status FROM orders WHERE order_number = $1 FOR UPDATE`, orderNumber,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.NotFound("order not found")
	}
	if err != nil {
		return Order{}, fmt.Errorf("lock order: %w", err)
	}

	if !transport.CanTransition(current, status) {
		return Order{}, apperr.Conflict(fmt.Sprintf("cannot move order from %s to %s", current, status))
	}

	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE order_number = $2
		RETURNING `+orderColumns,
		status, orderNumber,
	))
	if err != nil {
		return Order{}, fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit status update: %w", err)
	}
	return o, nil
}

// SetInvoiceNumber records the generated invoice on the order.
func (r *Repo) SetInvoiceNumber(ctx context.Context, orderNumber, invoiceNumber string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET invoice_number = $1, updated_at = now()
		WHERE order_number = $2`,
		invoiceNumber, orderNumber,
	)
	if err != nil {
		return fmt.Errorf("set invoice number: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("order not found")
	}
	return nil
}
