package transport

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Delivered and cancelled are terminal.
const (
	StatusPending         = "pending"
	StatusConfirmed       = "confirmed"
	StatusAwaitingPayment = "awaiting_payment"
	StatusPaid            = "paid"
	StatusProcessing      = "processing"
	StatusShipped         = "shipped"
	StatusDelivered       = "delivered"
	StatusCancelled       = "cancelled"
)

// transitions maps each status to the statuses it may move to. Every
// status before delivered can also be cancelled.
var transitions = map[string][]string{
	StatusPending:         {StatusConfirmed, StatusAwaitingPayment, StatusCancelled},
	StatusConfirmed:       {StatusAwaitingPayment, StatusPaid, StatusCancelled},
	StatusAwaitingPayment: {StatusPaid, StatusCancelled},
	StatusPaid:            {StatusProcessing, StatusCancelled},
	StatusProcessing:      {StatusShipped, StatusCancelled},
	StatusShipped:         {StatusDelivered, StatusCancelled},
	StatusDelivered:       nil,
	StatusCancelled:       nil,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckoutRequest is the request body for placing an order.
type CheckoutRequest struct {
	ShippingMethod string `json:"shippingMethod" validate:"required,oneof=pickup courier_self courier"`
	ShippingOption string `json:"shippingOption" validate:"omitempty,oneof=locker_to_locker locker_to_door door_to_door"`
	PaymentMethod  string `json:"paymentMethod" validate:"required,oneof=eft payfast cash"`
}

// UpdateStatusRequest is the staff request body for moving an order's
// status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LineResponse is one immutable order line.
type LineResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductKind    string    `json:"productKind"`
	ProductID      uuid.UUID `json:"productId"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
}

// QuoteLink points a quote-origin order back at its quote.
type QuoteLink struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
}

// OrderResponse is the API shape of an order.
type OrderResponse struct {
	ID             uuid.UUID      `json:"id"`
	OrderNumber    string         `json:"orderNumber"`
	UserID         uuid.UUID      `json:"userId"`
	Status         string         `json:"status"`
	SubtotalCents  int64          `json:"subtotalCents"`
	ShippingMethod string         `json:"shippingMethod"`
	ShippingOption string         `json:"shippingOption,omitempty"`
	ShippingCents  int64          `json:"shippingCents"`
	TotalCents     int64          `json:"totalCents"`
	PaymentMethod  string         `json:"paymentMethod"`
	QuoteLink      *QuoteLink     `json:"quoteLink,omitempty"`
	InvoiceNumber  string         `json:"invoiceNumber,omitempty"`
	Lines          []LineResponse `json:"lines"`
	CreatedAt      time.Time      `json:"createdAt"`
}
