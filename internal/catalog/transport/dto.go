package transport

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the two product kinds the store sells.
type Kind string

const (
	// KindFabricated is a one-off made-to-order item with a binary stock flag.
	KindFabricated Kind = "fabricated"
	// KindStocked is an inventory-tracked item with a numeric quantity.
	KindStocked Kind = "stocked"
)

// Valid reports whether the kind is one of the two known product kinds.
func (k Kind) Valid() bool {
	return k == KindFabricated || k == KindStocked
}

// QuoteRef links a synthesized catalog entry back to the quote it came from.
type QuoteRef struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
}

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateCategoryRequest is the request body for creating a catalog category.
type CreateCategoryRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Public *bool  `json:"public"`
}

// CreateFabricatedItemRequest is the request body for a new fabricated item.
type CreateFabricatedItemRequest struct {
	Code       string    `json:"code" validate:"required,min=1,max=100"`
	Name       string    `json:"name" validate:"required,min=1,max=500"`
	PriceCents int64     `json:"priceCents" validate:"min=0"`
	InStock    bool      `json:"inStock"`
	CategoryID uuid.UUID `json:"categoryId" validate:"required"`
}

// CreateStockedItemRequest is the request body for a new stocked item.
type CreateStockedItemRequest struct {
	Code              string `json:"code" validate:"required,min=1,max=100"`
	Name              string `json:"name" validate:"required,min=1,max=500"`
	PriceCents        int64  `json:"priceCents" validate:"min=0"`
	Quantity          int    `json:"quantity" validate:"min=0"`
	LowStockThreshold int    `json:"lowStockThreshold" validate:"min=0"`
}

// UpdateFabricatedItemRequest is the request body for updating a fabricated item.
type UpdateFabricatedItemRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=500"`
	PriceCents *int64  `json:"priceCents" validate:"omitempty,min=0"`
	InStock    *bool   `json:"inStock"`
	Active     *bool   `json:"active"`
}

// UpdateStockedItemRequest is the request body for updating a stocked item.
// Quantity is deliberately absent: stock moves only through the ledger.
type UpdateStockedItemRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=500"`
	PriceCents        *int64  `json:"priceCents" validate:"omitempty,min=0"`
	LowStockThreshold *int    `json:"lowStockThreshold" validate:"omitempty,min=0"`
	Active            *bool   `json:"active"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// CategoryResponse is the API shape of a catalog category.
type CategoryResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Public bool      `json:"public"`
}

// ProductResponse is the unified API shape of both product kinds.
type ProductResponse struct {
	Kind              Kind      `json:"kind"`
	ID                uuid.UUID `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	PriceCents        int64     `json:"priceCents"`
	Available         bool      `json:"available"`
	AvailableQuantity *int      `json:"availableQuantity,omitempty"`
	LowStock          bool      `json:"lowStock,omitempty"`
	QuoteRef          *QuoteRef `json:"quoteRef,omitempty"`
	ImageKey          string    `json:"imageKey,omitempty"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"createdAt"`
}
