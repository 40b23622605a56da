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

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
)

const (
	productNotFoundMessage   = "product not found"
	categoryNotFoundMessage  = "category not found"
	duplicateCodeMessage     = "catalog code already exists"
	duplicateCategoryMessage = "category name already exists"

	uniqueViolationCode = "23505"
)

// Category groups fabricated items; non-public categories are hidden from
// storefront listings but their items stay purchasable from carts and orders.
type Category struct {
	ID        uuid.UUID
	Name      string
	Public    bool
	CreatedAt time.Time
}

// FabricatedItem is a one-off made-to-order product with a binary stock flag.
type FabricatedItem struct {
	ID         uuid.UUID
	Code       string
	Name       string
	PriceCents int64
	InStock    bool
	CategoryID uuid.UUID
	QuoteType  *string
	QuoteID    *uuid.UUID
	ImageKey   *string
	Active     bool
	CreatedAt  time.Time
}

// StockedItem is an inventory-tracked product with a numeric quantity.
type StockedItem struct {
	ID                uuid.UUID
	Code              string
	Name              string
	PriceCents        int64
	Quantity          int
	LowStockThreshold int
	Active            bool
	CreatedAt         time.Time
}

// CreateFabricatedItemParams holds the fields for a new fabricated item.
// QuoteType/QuoteID/ImageKey are set only for items synthesized from quotes.
type CreateFabricatedItemParams struct {
	Code       string
	Name       string
	PriceCents int64
	InStock    bool
	CategoryID uuid.UUID
	QuoteType  *string
	QuoteID    *uuid.UUID
	ImageKey   *string
}

// CreateStockedItemParams holds the fields for a new stocked item.
type CreateStockedItemParams struct {
	Code              string
	Name              string
	PriceCents        int64
	Quantity          int
	LowStockThreshold int
}

// UpdateFabricatedItemParams holds a partial update; nil fields keep their value.
type UpdateFabricatedItemParams struct {
	ID         uuid.UUID
	Name       *string
	PriceCents *int64
	InStock    *bool
	Active     *bool
}

// UpdateStockedItemParams holds a partial update; nil fields keep their value.
type UpdateStockedItemParams struct {
	ID                uuid.UUID
	Name              *string
	PriceCents        *int64
	LowStockThreshold *int
	Active            *bool
}

// Repo implements the catalog repository over Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const fabricatedColumns = `id, code, name, price_cents, in_stock, category_id, quote_type, quote_id, image_key, active, created_at`
const stockedColumns = `id, code, name, price_cents, quantity, low_stock_threshold, active, created_at`

// CreateCategory creates a catalog category.
func (r *Repo) CreateCategory(ctx context.Context, name string, public bool) (Category, error) {
	query := `
		INSERT INTO item_categories (name, public)
		VALUES ($1, $2)
		RETURNING id, name, public, created_at`

	var cat Category
	if err := r.pool.QueryRow(ctx, query, name, public).Scan(&cat.ID, &cat.Name, &cat.Public, &cat.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return Category{}, apperr.Conflict(duplicateCategoryMessage)
		}
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// GetCategoryByName retrieves a category by its unique name.
func (r *Repo) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	query := `SELECT id, name, public, created_at FROM item_categories WHERE name = $1`

	var cat Category
	if err := r.pool.QueryRow(ctx, query, name).Scan(&cat.ID, &cat.Name, &cat.Public, &cat.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return Category{}, fmt.Errorf("get category by name: %w", err)
	}
	return cat, nil
}

// ListCategories lists all categories.
func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, public, created_at FROM item_categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Public, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, cat)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate categories: %w", rows.Err())
	}
	return items, nil
}

// EnsureCategoryTx returns the named category, creating it if absent, within
// the caller's transaction. Concurrent creation races resolve through the
// unique constraint: the loser re-reads the winner's row.
func (r *Repo) EnsureCategoryTx(ctx context.Context, tx pgx.Tx, name string, public bool) (Category, error) {
	insert := `
		INSERT INTO item_categories (name, public)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, public, created_at`

	var cat Category
	err := tx.QueryRow(ctx, insert, name, public).Scan(&cat.ID, &cat.Name, &cat.Public, &cat.CreatedAt)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Category{}, fmt.Errorf("ensure category: %w", err)
	}

	query := `SELECT id, name, public, created_at FROM item_categories WHERE name = $1`
	if err := tx.QueryRow(ctx, query, name).Scan(&cat.ID, &cat.Name, &cat.Public, &cat.CreatedAt); err != nil {
		return Category{}, fmt.Errorf("ensure category read: %w", err)
	}
	return cat, nil
}

// CreateFabricatedItem creates a fabricated item.
func (r *Repo) CreateFabricatedItem(ctx context.Context, params CreateFabricatedItemParams) (FabricatedItem, error) {
	return createFabricatedItem(ctx, r.pool, params)
}

// CreateFabricatedItemTx creates a fabricated item within the caller's transaction.
func (r *Repo) CreateFabricatedItemTx(ctx context.Context, tx pgx.Tx, params CreateFabricatedItemParams) (FabricatedItem, error) {
	return createFabricatedItem(ctx, tx, params)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func createFabricatedItem(ctx context.Context, q querier, params CreateFabricatedItemParams) (FabricatedItem, error) {
	query := `
		INSERT INTO fabricated_items (code, name, price_cents, in_stock, category_id, quote_type, quote_id, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + fabricatedColumns

	var item FabricatedItem
	if err := q.QueryRow(ctx, query,
		params.Code, params.Name, params.PriceCents, params.InStock, params.CategoryID,
		params.QuoteType, params.QuoteID, params.ImageKey,
	).Scan(
		&item.ID, &item.Code, &item.Name, &item.PriceCents, &item.InStock, &item.CategoryID,
		&item.QuoteType, &item.QuoteID, &item.ImageKey, &item.Active, &item.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return FabricatedItem{}, apperr.Conflict(duplicateCodeMessage)
		}
		return FabricatedItem{}, fmt.Errorf("create fabricated item: %w", err)
	}
	return item, nil
}

// GetFabricatedItem retrieves a fabricated item by ID.
func (r *Repo) GetFabricatedItem(ctx context.Context, id uuid.UUID) (FabricatedItem, error) {
	query := `SELECT ` + fabricatedColumns + ` FROM fabricated_items WHERE id = $1`

	var item FabricatedItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Code, &item.Name, &item.PriceCents, &item.InStock, &item.CategoryID,
		&item.QuoteType, &item.QuoteID, &item.ImageKey, &item.Active, &item.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FabricatedItem{}, apperr.NotFound(productNotFoundMessage)
		}
		return FabricatedItem{}, fmt.Errorf("get fabricated item: %w", err)
	}
	return item, nil
}

// UpdateFabricatedItem applies a partial update to a fabricated item.
func (r *Repo) UpdateFabricatedItem(ctx context.Context, params UpdateFabricatedItemParams) (FabricatedItem, error) {
	query := `
		UPDATE fabricated_items
		SET name = COALESCE($2, name),
			price_cents = COALESCE($3, price_cents),
			in_stock = COALESCE($4, in_stock),
			active = COALESCE($5, active)
		WHERE id = $1
		RETURNING ` + fabricatedColumns

	var item FabricatedItem
	if err := r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.PriceCents, params.InStock, params.Active,
	).Scan(
		&item.ID, &item.Code, &item.Name, &item.PriceCents, &item.InStock, &item.CategoryID,
		&item.QuoteType, &item.QuoteID, &item.ImageKey, &item.Active, &item.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FabricatedItem{}, apperr.NotFound(productNotFoundMessage)
		}
		return FabricatedItem{}, fmt.Errorf("update fabricated item: %w", err)
	}
	return item, nil
}

// CreateStockedItem creates a stocked item.
func (r *Repo) CreateStockedItem(ctx context.Context, params CreateStockedItemParams) (StockedItem, error) {
	query := `
		INSERT INTO stocked_items (code, name, price_cents, quantity, low_stock_threshold)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + stockedColumns

	var item StockedItem
	if err := r.pool.QueryRow(ctx, query,
		params.Code, params.Name, params.PriceCents, params.Quantity, params.LowStockThreshold,
	).Scan(
		&item.ID, &item.Code, &item.Name, &item.PriceCents, &item.Quantity,
		&item.LowStockThreshold, &item.Active, &item.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return StockedItem{}, apperr.Conflict(duplicateCodeMessage)
		}
		return StockedItem{}, fmt.Errorf("create stocked item: %w", err)
	}
	return item, nil
}

// GetStockedItem retrieves a stocked item by ID.
func (r *Repo) GetStockedItem(ctx context.Context, id uuid.UUID) (StockedItem, error) {
	query := `SELECT ` + stockedColumns + ` FROM stocked_items WHERE id = $1`

	var item StockedItem
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Code, &item.Name, &item.PriceCents, &item.Quantity,
		&item.LowStockThreshold, &item.Active, &item.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockedItem{}, apperr.NotFound(productNotFoundMessage)
		}
		return StockedItem{}, fmt.Errorf("get stocked item: %w", err)
	}
	return item, nil
}

// UpdateStockedItem applies a partial update to a stocked item. Quantity is
// not updatable here; stock moves only through the ledger.
func (r *Repo) UpdateStockedItem(ctx context.Context, params UpdateStockedItemParams) (StockedItem, error) {
	query := `
		UPDATE stocked_items
		SET name = COALESCE($2, name),
			price_cents = COALESCE($3, price_cents),
			low_stock_threshold = COALESCE($4, low_stock_threshold),
			active = COALESCE($5, active)
		WHERE id = $1
		RETURNING ` + stockedColumns

	var item StockedItem
	if err := r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.PriceCents, params.LowStockThreshold, params.Active,
	).Scan(
		&item.ID, &item.Code, &item.Name, &item.PriceCents, &item.Quantity,
		&item.LowStockThreshold, &item.Active, &item.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockedItem{}, apperr.NotFound(productNotFoundMessage)
		}
		return StockedItem{}, fmt.Errorf("update stocked item: %w", err)
	}
	return item, nil
}

// ListStorefront returns all active items in public categories (fabricated)
// and all active stocked items.
func (r *Repo) ListStorefront(ctx context.Context) ([]FabricatedItem, []StockedItem, error) {
	fabricatedQuery := `
		SELECT f.id, f.code, f.name, f.price_cents, f.in_stock, f.category_id,
			f.quote_type, f.quote_id, f.image_key, f.active, f.created_at
		FROM fabricated_items f
		JOIN item_categories c ON c.id = f.category_id
		WHERE f.active AND c.public
		ORDER BY f.name ASC`

	rows, err := r.pool.Query(ctx, fabricatedQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("list storefront fabricated: %w", err)
	}
	defer rows.Close()

	fabricated := make([]FabricatedItem, 0)
	for rows.Next() {
		var item FabricatedItem
		if err := rows.Scan(
			&item.ID, &item.Code, &item.Name, &item.PriceCents, &item.InStock, &item.CategoryID,
			&item.QuoteType, &item.QuoteID, &item.ImageKey, &item.Active, &item.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scan fabricated item: %w", err)
		}
		fabricated = append(fabricated, item)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("iterate fabricated items: %w", rows.Err())
	}

	stockedQuery := `SELECT ` + stockedColumns + ` FROM stocked_items WHERE active ORDER BY name ASC`
	stockRows, err := r.pool.Query(ctx, stockedQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("list storefront stocked: %w", err)
	}
	defer stockRows.Close()

	stocked := make([]StockedItem, 0)
	for stockRows.Next() {
		var item StockedItem
		if err := stockRows.Scan(
			&item.ID, &item.Code, &item.Name, &item.PriceCents, &item.Quantity,
			&item.LowStockThreshold, &item.Active, &item.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scan stocked item: %w", err)
		}
		stocked = append(stocked, item)
	}
	if stockRows.Err() != nil {
		return nil, nil, fmt.Errorf("iterate stocked items: %w", stockRows.Err())
	}

	return fabricated, stocked, nil
}

// DeactivateFabricatedItem soft-deletes a fabricated item. Rows are never
// hard-deleted while historical orders reference them.
func (r *Repo) DeactivateFabricatedItem(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE fabricated_items SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate fabricated item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

// DeactivateStockedItem soft-deletes a stocked item.
func (r *Repo) DeactivateStockedItem(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE stocked_items SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate stocked item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
