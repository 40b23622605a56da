// Package repository implements quote request persistence over PostgreSQL.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
)

// Quote statuses. Converted is terminal.
const (
	StatusPending   = "pending"
	StatusQuoted    = "quoted"
	StatusConverted = "converted"
	StatusCancelled = "cancelled"
)

// Quote is one stored quote request.
type Quote struct {
	ID             uuid.UUID
	Type           string
	RequesterName  string
	RequesterEmail string
	RequesterPhone *string
	Details        json.RawMessage
	Status         string
	PriceCents     *int64
	OrderNumber    *string
	ConvertedAt    *time.Time
	CreatedAt      time.Time
}

// CreateParams holds the fields for a new quote request.
type CreateParams struct {
	Type           string
	RequesterName  string
	RequesterEmail string
	RequesterPhone *string
	Details        json.RawMessage
}

// Repository defines the quote data access boundary.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Quote, error)
	Get(ctx context.Context, id uuid.UUID) (Quote, error)
	List(ctx context.Context, status string, limit int) ([]Quote, error)
	SetPrice(ctx context.Context, id uuid.UUID, priceCents int64) (Quote, error)
	Cancel(ctx context.Context, id uuid.UUID) error

	// Tx variants participate in a caller-owned transaction.
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Quote, error)
	MarkConvertedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, priceCents int64) error
	StampOrderTx(ctx context.Context, tx pgx.Tx, quoteType string, id uuid.UUID, orderNumber string) error
}

// Repo implements Repository over a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a quote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const quoteColumns = `id, type, requester_name, requester_email, requester_phone,
	details, status, quoted_price_cents, order_number, converted_at, created_at`

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	err := row.Scan(
		&q.ID, &q.Type, &q.RequesterName, &q.RequesterEmail, &q.RequesterPhone,
		&q.Details, &q.Status, &q.PriceCents, &q.OrderNumber, &q.ConvertedAt, &q.CreatedAt,
	)
	return q, err
}

// Create stores a new pending quote request.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Quote, error) {
	details := params.Details
	if len(details) == 0 {
		details = json.RawMessage(`{}`)
	}

	q, err := scanQuote(r.pool.QueryRow(ctx, `
		INSERT INTO quote_requests (type, requester_name, requester_email, requester_phone, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+quoteColumns,
		params.Type, params.RequesterName, params.RequesterEmail, params.RequesterPhone, details,
	))
	if err != nil {
		return Quote{}, fmt.Errorf("create quote: %w", err)
	}
	return q, nil
}

// Get fetches one quote.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (Quote, error) {
	q, err := scanQuote(r.pool.QueryRow(ctx,
		`SELECT `+quoteColumns+` FROM quote_requests WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, apperr.NotFound("quote not found")
	}
	if err != nil {
		return Quote{}, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// GetForUpdateTx fetches a quote and locks its row for the rest of the
// transaction. Conversion uses this so two staff members cannot convert
// the same quote concurrently.
func (r *Repo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Quote, error) {
	q, err := scanQuote(tx.QueryRow(ctx,
		`SELECT `+quoteColumns+` FROM quote_requests WHERE id = $1 FOR UPDATE`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, apperr.NotFound("quote not found")
	}
	if err != nil {
		return Quote{}, fmt.Errorf("get quote for update: %w", err)
	}
	return q, nil
}

// List returns the newest quotes, optionally filtered by status.
func (r *Repo) List(ctx context.Context, status string, limit int) ([]Quote, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT ` + quoteColumns + ` FROM quote_requests`
	args := []any{limit}
	if status != "" {
		query += ` WHERE status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var out []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// SetPrice prices a quote and moves it to the quoted status. Converted and
// cancelled quotes cannot be re-priced.
func (r *Repo) SetPrice(ctx context.Context, id uuid.UUID, priceCents int64) (Quote, error) {
	q, err := scanQuote(r.pool.QueryRow(ctx, `
		UPDATE quote_requests
		SET quoted_price_cents = $1, status = $2
		WHERE id = $3 AND status NOT IN ($4, $5)
		RETURNING `+quoteColumns,
		priceCents, StatusQuoted, id, StatusConverted, StatusCancelled,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, r.explainUpdateRejection(ctx, id)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("price quote: %w", err)
	}
	return q, nil
}

// Cancel moves a quote to the cancelled status. Converted quotes stay
// converted.
func (r *Repo) Cancel(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quote_requests SET status = $1
		WHERE id = $2 AND status <> $3`,
		StatusCancelled, id, StatusConverted,
	)
	if err != nil {
		return fmt.Errorf("cancel quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainUpdateRejection(ctx, id)
	}
	return nil
}

// MarkConvertedTx stamps the quote converted inside the conversion
// transaction. The caller has already locked the row.
func (r *Repo) MarkConvertedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, priceCents int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE quote_requests
		SET status = $1, quoted_price_cents = $2, converted_at = now()
		WHERE id = $3`,
		StatusConverted, priceCents, id,
	)
	if err != nil {
		return fmt.Errorf("mark quote converted: %w", err)
	}
	return nil
}

// StampOrderTx links a converted quote to the order that bought it, inside
// the checkout transaction.
func (r *Repo) StampOrderTx(ctx context.Context, tx pgx.Tx, quoteType string, id uuid.UUID, orderNumber string) error {
	_, err := tx.Exec(ctx, `
		UPDATE quote_requests SET order_number = $1
		WHERE id = $2 AND type = $3`,
		orderNumber, id, quoteType,
	)
	if err != nil {
		return fmt.Errorf("stamp quote order: %w", err)
	}
	return nil
}

func (r *Repo) explainUpdateRejection(ctx context.Context, id uuid.UUID) error {
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM quote_requests WHERE id = $1`, id,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("quote not found")
	}
	if err != nil {
		return fmt.Errorf("inspect quote: %w", err)
	}
	return apperr.Conflict(fmt.Sprintf("quote is %s", status))
}
