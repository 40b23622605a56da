package transport

import (
	"time"

	"github.com/google/uuid"
)

// AdjustRequest is the staff request body for a manual stock movement.
type AdjustRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,oneof=restock correction"`
}

// AdjustmentResponse is one ledger entry.
type AdjustmentResponse struct {
	ID               uuid.UUID  `json:"id"`
	ProductID        uuid.UUID  `json:"productId"`
	Delta            int        `json:"delta"`
	Reason           string     `json:"reason"`
	PreviousQuantity int        `json:"previousQuantity"`
	NewQuantity      int        `json:"newQuantity"`
	OrderID          *uuid.UUID `json:"orderId,omitempty"`
	Actor            string     `json:"actor"`
	CreatedAt        time.Time  `json:"createdAt"`
}
