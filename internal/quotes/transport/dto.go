package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Quote request types. Each maps to its own upload area in object storage.
const (
	TypeCustomDesign = "custom_design"
	TypeCakeTopper   = "cake_topper"
	TypePrintService = "print_service"
)

// ValidType reports whether t is a known quote type.
func ValidType(t string) bool {
	return t == TypeCustomDesign || t == TypeCakeTopper || t == TypePrintService
}

// Quote statuses. Converted is terminal.
const (
	StatusPending   = "pending"
	StatusQuoted    = "quoted"
	StatusConverted = "converted"
	StatusCancelled = "cancelled"
)

// CreateQuoteRequest is the public request body for a new quote.
type CreateQuoteRequest struct {
	Type           string          `json:"type" validate:"required,oneof=custom_design cake_topper print_service"`
	RequesterName  string          `json:"requesterName" validate:"required,min=1,max=200"`
	RequesterEmail string          `json:"requesterEmail" validate:"required,email"`
	RequesterPhone string          `json:"requesterPhone" validate:"omitempty,max=50"`
	Details        json.RawMessage `json:"details"`
}

// SetPriceRequest is the staff request body for pricing a quote.
type SetPriceRequest struct {
	PriceCents int64 `json:"priceCents" validate:"required,min=1"`
}

// ConvertRequest is the staff request body for converting a priced quote
// into a purchasable cart line.
type ConvertRequest struct {
	ItemName      string `json:"itemName" validate:"required,min=1,max=500"`
	PriceCents    int64  `json:"priceCents" validate:"required,min=1"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
}

// ConvertResponse reports the conversion outcome. TempPassword is set only
// when a new account was provisioned, and is shown exactly once.
type ConvertResponse struct {
	UserID         uuid.UUID `json:"userId"`
	ItemID         uuid.UUID `json:"itemId"`
	AccountCreated bool      `json:"accountCreated"`
	TempPassword   string    `json:"tempPassword,omitempty"`
}

// QuoteResponse is the API shape of a quote request.
type QuoteResponse struct {
	ID             uuid.UUID       `json:"id"`
	Type           string          `json:"type"`
	RequesterName  string          `json:"requesterName"`
	RequesterEmail string          `json:"requesterEmail"`
	RequesterPhone string          `json:"requesterPhone,omitempty"`
	Details        json.RawMessage `json:"details"`
	Status         string          `json:"status"`
	PriceCents     *int64          `json:"priceCents,omitempty"`
	OrderNumber    *string         `json:"orderNumber,omitempty"`
	ConvertedAt    *time.Time      `json:"convertedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}
