package transport

import (
	"time"

	"github.com/google/uuid"
)

// AddLineRequest is the request body for adding a product to the cart.
type AddLineRequest struct {
	ProductKind string    `json:"productKind" validate:"required,oneof=fabricated stocked"`
	ProductID   uuid.UUID `json:"productId" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
}

// SetQuantityRequest is the request body for changing a line's quantity.
// A quantity of zero or less removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// LineResponse is one cart line joined with its current product details.
type LineResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductKind string    `json:"productKind"`
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	PriceCents  int64     `json:"priceCents"`
	Quantity    int       `json:"quantity"`
	LineTotal   int64     `json:"lineTotalCents"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CartResponse is the full cart view.
type CartResponse struct {
	Lines         []LineResponse `json:"lines"`
	SubtotalCents int64          `json:"subtotalCents"`
}
