// Package repository implements cart persistence over PostgreSQL.
//
// A cart is not a row of its own: it is the set of cart_lines owned by
// either a guest session or a user. Adding a product that is already in
// the cart merges into the existing line.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
)

// Owner identifies who a cart belongs to. Exactly one of SessionID and
// UserID is set, mirroring the table's XOR constraint.
type Owner struct {
	SessionID string
	UserID    *uuid.UUID
}

// SessionOwner returns an Owner for a guest session.
func SessionOwner(sessionID string) Owner {
	return Owner{SessionID: sessionID}
}

// UserOwner returns an Owner for an authenticated user.
func UserOwner(userID uuid.UUID) Owner {
	return Owner{UserID: &userID}
}

// Line is one stored cart line.
type Line struct {
	ID          uuid.UUID
	ProductKind string
	ProductID   uuid.UUID
	Quantity    int
	AddedAt     time.Time
}

// DetailedLine is a cart line joined with the current product row.
type DetailedLine struct {
	Line
	ProductName string
	PriceCents  int64
	Available   bool
}

// CheckoutLine is the view of a user's cart line that checkout needs:
// the snapshot price plus the availability fields of each product kind.
type CheckoutLine struct {
	ProductKind   string
	ProductID     uuid.UUID
	ProductName   string
	PriceCents    int64
	Quantity      int
	Active        bool
	InStock       bool // fabricated kind
	StockQuantity int  // stocked kind
	QuoteType     *string
	QuoteID       *uuid.UUID
}

// Repository defines the cart data access boundary.
type Repository interface {
	Add(ctx context.Context, owner Owner, productKind string, productID uuid.UUID, quantity int) (Line, error)
	SetQuantity(ctx context.Context, owner Owner, lineID uuid.UUID, quantity int) error
	List(ctx context.Context, owner Owner) ([]DetailedLine, error)
	Clear(ctx context.Context, owner Owner) error
	MergeGuestIntoUser(ctx context.Context, sessionID string, userID uuid.UUID) error

	// Tx variants participate in a caller-owned transaction.
	AddTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, productKind string, productID uuid.UUID, quantity int) error
	ListUserLinesTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]CheckoutLine, error)
	ClearUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
}

// Repo implements Repository over a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a cart repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Add inserts a line or merges the quantity into the existing line for
// the same (owner, kind, product).
func (r *Repo) Add(ctx context.Context, owner Owner, productKind string, productID uuid.UUID, quantity int) (Line, error) {
	var (
		query string
		args  []any
	)
	if owner.UserID != nil {
		query = `
			INSERT INTO cart_lines (user_id, product_kind, product_id, quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, product_kind, product_id) WHERE user_id IS NOT NULL
			DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
			RETURNING id, product_kind, product_id, quantity, added_at`
		args = []any{*owner.UserID, productKind, productID, quantity}
	} else {
		query = `
			INSERT INTO cart_lines (session_id, product_kind, product_id, quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (session_id, product_kind, product_id) WHERE session_id IS NOT NULL
			DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
			RETURNING id, product_kind, product_id, quantity, added_at`
		args = []any{owner.SessionID, productKind, productID, quantity}
	}

	var line Line
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&line.ID, &line.ProductKind, &line.ProductID, &line.Quantity, &line.AddedAt,
	)
	if err != nil {
		return Line{}, fmt.Errorf("add cart line: %w", err)
	}
	return line, nil
}

// AddTx merges a line into a user's cart inside a caller-owned transaction.
// Quote conversion uses this so the cart line and the quote state change
// commit together.
func (r *Repo) AddTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, productKind string, productID uuid.UUID, quantity int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO cart_lines (user_id, product_kind, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_kind, product_id) WHERE user_id IS NOT NULL
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity`,
		userID, productKind, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("add cart line in tx: %w", err)
	}
	return nil
}

// SetQuantity sets a line's quantity. Zero or less removes the line. The
// owner filter makes it impossible to touch another cart's line.
func (r *Repo) SetQuantity(ctx context.Context, owner Owner, lineID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		ownerClause, ownerArg := ownerFilter(owner, 2)
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM cart_lines WHERE id = $1 AND `+ownerClause,
			lineID, ownerArg,
		)
		if err != nil {
			return fmt.Errorf("delete cart line: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("cart line not found")
		}
		return nil
	}

	ownerClause, ownerArg := ownerFilter(owner, 3)
	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_lines SET quantity = $1 WHERE id = $2 AND `+ownerClause,
		quantity, lineID, ownerArg,
	)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("cart line not found")
	}
	return nil
}

// List returns the owner's cart lines joined with current product details,
// oldest first.
func (r *Repo) List(ctx context.Context, owner Owner) ([]DetailedLine, error) {
	ownerClause, ownerArg := ownerFilter(owner, 1)

	rows, err := r.pool.Query(ctx, `
		SELECT cl.id, cl.product_kind, cl.product_id, cl.quantity, cl.added_at,
		       COALESCE(f.name, s.name, ''),
		       COALESCE(f.price_cents, s.price_cents, 0),
		       CASE cl.product_kind
		            WHEN 'fabricated' THEN COALESCE(f.active AND f.in_stock, false)
		            ELSE COALESCE(s.active AND s.quantity > 0, false)
		       END
		FROM cart_lines cl
		LEFT JOIN fabricated_items f ON cl.product_kind = 'fabricated' AND f.id = cl.product_id
		LEFT JOIN stocked_items s ON cl.product_kind = 'stocked' AND s.id = cl.product_id
		WHERE `+ownerClause+`
		ORDER BY cl.added_at`,
		ownerArg,
	)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []DetailedLine
	for rows.Next() {
		var dl DetailedLine
		if err := rows.Scan(
			&dl.ID, &dl.ProductKind, &dl.ProductID, &dl.Quantity, &dl.AddedAt,
			&dl.ProductName, &dl.PriceCents, &dl.Available,
		); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, dl)
	}
	return lines, rows.Err()
}

// ListUserLinesTx returns the user's cart lines with the product fields
// checkout needs, locking the product rows against concurrent movement.
func (r *Repo) ListUserLinesTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]CheckoutLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT cl.product_kind, cl.product_id, cl.quantity,
		       COALESCE(f.name, s.name, ''),
		       COALESCE(f.price_cents, s.price_cents, 0),
		       COALESCE(f.active, s.active, false),
		       COALESCE(f.in_stock, false),
		       COALESCE(s.quantity, 0),
		       f.quote_type, f.quote_id
		FROM cart_lines cl
		LEFT JOIN fabricated_items f ON cl.product_kind = 'fabricated' AND f.id = cl.product_id
		LEFT JOIN stocked_items s ON cl.product_kind = 'stocked' AND s.id = cl.product_id
		WHERE cl.user_id = $1
		ORDER BY cl.added_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list checkout lines: %w", err)
	}
	defer rows.Close()

	var lines []CheckoutLine
	for rows.Next() {
		var cl CheckoutLine
		if err := rows.Scan(
			&cl.ProductKind, &cl.ProductID, &cl.Quantity,
			&cl.ProductName, &cl.PriceCents, &cl.Active, &cl.InStock, &cl.StockQuantity,
			&cl.QuoteType, &cl.QuoteID,
		); err != nil {
			return nil, fmt.Errorf("scan checkout line: %w", err)
		}
		lines = append(lines, cl)
	}
	return lines, rows.Err()
}

// Clear removes every line in the owner's cart.
func (r *Repo) Clear(ctx context.Context, owner Owner) error {
	ownerClause, ownerArg := ownerFilter(owner, 1)
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE `+ownerClause, ownerArg); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// ClearUserTx empties a user's cart inside a caller-owned transaction.
func (r *Repo) ClearUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart in tx: %w", err)
	}
	return nil
}

// mergeGuestIntoUserQuery consumes the guest rows and upserts them into
// the user's cart in one statement. The DELETE locks every guest row; a
// concurrent merge of the same session blocks on those locks and, once
// it resumes, its re-check finds the rows already gone, so the upsert
// receives nothing. Splitting this into separate statements would let
// the loser fold a guest row the winner already consumed.
const mergeGuestIntoUserQuery = `
	WITH moved AS (
		DELETE FROM cart_lines
		WHERE session_id = $2
		RETURNING product_kind, product_id, quantity
	)
	INSERT INTO cart_lines (user_id, product_kind, product_id, quantity)
	SELECT $1, product_kind, product_id, quantity
	FROM moved
	ON CONFLICT (user_id, product_kind, product_id) WHERE user_id IS NOT NULL
	DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity`

// MergeGuestIntoUser folds the guest session's lines into the user's
// cart. Quantities add where both carts hold the same product; otherwise
// guest lines move over unchanged. The guest rows are consumed, so a
// replayed or concurrent merge finds nothing left to fold.
func (r *Repo) MergeGuestIntoUser(ctx context.Context, sessionID string, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, mergeGuestIntoUserQuery, userID, sessionID); err != nil {
		return fmt.Errorf("merge guest cart: %w", err)
	}
	return nil
}

// ownerFilter returns a WHERE fragment bound to the given placeholder
// position and the value it binds.
func ownerFilter(owner Owner, position int) (string, any) {
	if owner.UserID != nil {
		return fmt.Sprintf("user_id = $%d", position), *owner.UserID
	}
	return fmt.Sprintf("session_id = $%d", position), owner.SessionID
}
