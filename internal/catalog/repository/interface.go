package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines the catalog data access boundary.
type Repository interface {
	CreateCategory(ctx context.Context, name string, public bool) (Category, error)
	GetCategoryByName(ctx context.Context, name string) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)

	CreateFabricatedItem(ctx context.Context, params CreateFabricatedItemParams) (FabricatedItem, error)
	GetFabricatedItem(ctx context.Context, id uuid.UUID) (FabricatedItem, error)
	UpdateFabricatedItem(ctx context.Context, params UpdateFabricatedItemParams) (FabricatedItem, error)

	CreateStockedItem(ctx context.Context, params CreateStockedItemParams) (StockedItem, error)
	GetStockedItem(ctx context.Context, id uuid.UUID) (StockedItem, error)
	UpdateStockedItem(ctx context.Context, params UpdateStockedItemParams) (StockedItem, error)

	ListStorefront(ctx context.Context) ([]FabricatedItem, []StockedItem, error)
	DeactivateFabricatedItem(ctx context.Context, id uuid.UUID) error
	DeactivateStockedItem(ctx context.Context, id uuid.UUID) error

	// Tx variants participate in a caller-owned transaction (quote conversion).
	EnsureCategoryTx(ctx context.Context, tx pgx.Tx, name string, public bool) (Category, error)
	CreateFabricatedItemTx(ctx context.Context, tx pgx.Tx, params CreateFabricatedItemParams) (FabricatedItem, error)
}
