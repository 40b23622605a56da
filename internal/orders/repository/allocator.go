package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Order numbers look like SSG-202501-001: a fixed prefix, the year-month,
// and a sequence that restarts at 1 each month. The sequence is read
// inside the checkout transaction and the unique constraint on
// order_number catches the race when two checkouts read the same maximum;
// the loser retries.
const orderNumberPrefix = "SSG"

// BuildOrderNumber formats an order number for the given month and
// sequence.
func BuildOrderNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", orderNumberPrefix, t.UTC().Format("200601"), seq)
}

// monthPattern matches every order number of t's month.
func monthPattern(t time.Time) string {
	return fmt.Sprintf("%s-%s-%%", orderNumberPrefix, t.UTC().Format("200601"))
}

// NextOrderNumberTx returns the next order number for t's month, reading
// the current maximum inside the caller's transaction.
func NextOrderNumberTx(ctx context.Context, tx pgx.Tx, t time.Time) (string, error) {
	// The sequence is the numeric suffix after the last dash. Three digits
	// is a display minimum, not a ceiling, so parse rather than substring.
	var maxSeq int
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX((split_part(order_number, '-', 3))::int), 0)
		FROM orders
		WHERE order_number LIKE $1`,
		monthPattern(t),
	).Scan(&maxSeq)
	if err != nil {
		return "", fmt.Errorf("allocate order number: %w", err)
	}
	return BuildOrderNumber(t, maxSeq+1), nil
}
