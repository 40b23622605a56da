// Package outbox persists notifications before delivery so a crashed or
// failing sender never loses them. Rows are enqueued in the caller's
// request flow and delivered by the asynq worker.
package outbox

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

// Notification kinds.
const (
	KindOrderConfirmation = "order_confirmation"
	KindQuoteReady        = "quote_ready"
)

// Delivery statuses.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Entry is one outbox row.
type Entry struct {
	ID        uuid.UUID
	Kind      string
	Recipient string
	Payload   json.RawMessage
	Status    string
	Attempts  int
	LastError *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderConfirmationPayload is the payload for order confirmations.
type OrderConfirmationPayload struct {
	OrderNumber string `json:"orderNumber"`
	TotalCents  int64  `json:"totalCents"`
}

// QuoteReadyPayload is the payload for priced-quote notifications.
type QuoteReadyPayload struct {
	QuoteReference string `json:"quoteReference"`
	PriceCents     int64  `json:"priceCents"`
}

// Repository defines the outbox data access boundary.
type Repository interface {
	Enqueue(ctx context.Context, kind, recipient string, payload any) (Entry, error)
	Get(ctx context.Context, id uuid.UUID) (Entry, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, deliveryErr error) error
	ListPending(ctx context.Context, limit int) ([]Entry, error)
}

// Repo implements Repository over a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates an outbox repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const entryColumns = `id, kind, recipient, payload, status, attempts, last_error, created_at, updated_at`

// Enqueue stores a pending notification.
func (r *Repo) Enqueue(ctx context.Context, kind, recipient string, payload any) (Entry, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal outbox payload: %w", err)
	}

	var e Entry
	err = r.pool.QueryRow(ctx, `
		INSERT INTO notification_outbox (kind, recipient, payload)
		VALUES ($1, $2, $3)
		RETURNING `+entryColumns,
		kind, recipient, data,
	).Scan(&e.ID, &e.Kind, &e.Recipient, &e.Payload, &e.Status, &e.Attempts, &e.LastError, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("enqueue notification: %w", err)
	}
	return e, nil
}

// Get fetches one outbox row.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	var e Entry
	err := r.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM notification_outbox WHERE id = $1`, id,
	).Scan(&e.ID, &e.Kind, &e.Recipient, &e.Payload, &e.Status, &e.Attempts, &e.LastError, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, apperr.NotFound("notification not found")
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get notification: %w", err)
	}
	return e, nil
}

// MarkSent records a successful delivery.
func (r *Repo) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notification_outbox
		SET status = $1, attempts = attempts + 1, last_error = NULL, updated_at = now()
		WHERE id = $2`,
		StatusSent, id,
	)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

// MarkFailed records a failed attempt and keeps the row for retry.
func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, deliveryErr error) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notification_outbox
		SET status = $1, attempts = attempts + 1, last_error = $2, updated_at = now()
		WHERE id = $3`,
		StatusFailed, deliveryErr.Error(), id,
	)
	if err != nil {
		return fmt.Errorf("mark notification failed: %w", err)
	}
	return nil
}

// ListPending returns the oldest undelivered rows.
func (r *Repo) ListPending(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM notification_outbox
		WHERE status IN ($1, $2)
		ORDER BY created_at
		LIMIT $3`,
		StatusPending, StatusFailed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending notifications: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Recipient, &e.Payload, &e.Status, &e.Attempts, &e.LastError, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
