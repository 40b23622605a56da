// Package service implements checkout and order management.
//
// Checkout is one transaction: the cart snapshot, the order header and
// lines, every stock deduction, quote stamping, and the cart clear all
// commit or roll back together. Stock can never go negative and a failed
// checkout leaves cart and stock untouched.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/pdf"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

// checkoutAttempts bounds the retry on order number collisions.
const checkoutAttempts = 3

// TxBeginner starts transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CartLine is the orders-side view of one cart line at checkout.
type CartLine struct {
	ProductKind    string
	ProductID      uuid.UUID
	Name           string
	UnitPriceCents int64
	Quantity       int
	Active         bool
	InStock        bool // fabricated kind
	StockQuantity  int  // stocked kind
	QuoteType      *string
	QuoteID        *uuid.UUID
}

// CartStore reads and clears the user's cart inside the checkout
// transaction.
type CartStore interface {
	LinesTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]CartLine, error)
	ClearTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
}

// StockLedger deducts stock inside the checkout transaction. A deduction
// below zero fails the whole checkout.
type StockLedger interface {
	DeductTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int, orderID uuid.UUID, actor string) error
}

// QuoteStamper links a converted quote to the order that bought it,
// inside the checkout transaction.
type QuoteStamper interface {
	StampOrderTx(ctx context.Context, tx pgx.Tx, quoteType string, quoteID uuid.UUID, orderNumber string) error
}

// EmailReader resolves the customer's email for the confirmation.
type EmailReader interface {
	EmailByID(ctx context.Context, userID uuid.UUID) (string, error)
}

// Notifier announces a placed order after commit. Delivery failures never
// surface here.
type Notifier interface {
	OrderPlaced(ctx context.Context, recipient, orderNumber string, totalCents int64)
}

// InvoiceGenerator renders and stores the invoice after commit. A nil
// generator or a failure leaves the order without an invoice number.
type InvoiceGenerator interface {
	Generate(ctx context.Context, data pdf.InvoiceData) (invoiceNumber, fileKey string, err error)
}

// Service implements order operations.
type Service struct {
	repo     repository.Repository
	db       TxBeginner
	carts    CartStore
	stock    StockLedger
	quotes   QuoteStamper
	emails   EmailReader
	notifier Notifier
	invoices InvoiceGenerator
	now      func() time.Time
	log      *logger.Logger
}

// New creates the orders service.
func New(
	repo repository.Repository,
	db TxBeginner,
	carts CartStore,
	stock StockLedger,
	quotes QuoteStamper,
	emails EmailReader,
	notifier Notifier,
	invoices InvoiceGenerator,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		db:       db,
		carts:    carts,
		stock:    stock,
		quotes:   quotes,
		emails:   emails,
		notifier: notifier,
		invoices: invoices,
		now:      time.Now,
		log:      log,
	}
}

// Checkout converts the user's cart into an order.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, req transport.CheckoutRequest) (transport.OrderResponse, error) {
	shippingCents, err := ShippingCost(req.ShippingMethod, req.ShippingOption)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	var (
		order repository.Order
		lines []repository.Line
	)
	for attempt := 1; ; attempt++ {
		order, lines, err = s.checkoutOnce(ctx, userID, req, shippingCents)
		if err == nil {
			break
		}
		if repository.IsOrderNumberConflict(err) && attempt < checkoutAttempts {
			continue
		}
		return transport.OrderResponse{}, err
	}

	s.log.OrderPlaced(order.OrderNumber, userID.String(), order.TotalCents, len(lines))
	s.afterCheckout(ctx, order, lines)

	return response(order, lines), nil
}

// checkoutOnce runs one full checkout transaction attempt.
func (s *Service) checkoutOnce(ctx context.Context, userID uuid.UUID, req transport.CheckoutRequest, shippingCents int64) (repository.Order, []repository.Line, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return repository.Order{}, nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback(ctx)

	cartLines, err := s.carts.LinesTx(ctx, tx, userID)
	if err != nil {
		return repository.Order{}, nil, err
	}
	if len(cartLines) == 0 {
		return repository.Order{}, nil, apperr.Validation("cart is empty")
	}

	var subtotal int64
	var quoteType *string
	var quoteID *uuid.UUID
	lineParams := make([]repository.CreateLineParams, 0, len(cartLines))
	for _, l := range cartLines {
		if err := validateLine(l); err != nil {
			return repository.Order{}, nil, err
		}
		subtotal += l.UnitPriceCents * int64(l.Quantity)
		if quoteType == nil && l.QuoteType != nil {
			quoteType = l.QuoteType
			quoteID = l.QuoteID
		}
		lineParams = append(lineParams, repository.CreateLineParams{
			ProductKind:    l.ProductKind,
			ProductID:      l.ProductID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}

	orderNumber, err := repository.NextOrderNumberTx(ctx, tx, s.now())
	if err != nil {
		return repository.Order{}, nil, err
	}

	var option *string
	if req.ShippingOption != "" {
		option = &req.ShippingOption
	}
	order, err := s.repo.InsertOrderTx(ctx, tx, repository.CreateOrderParams{
		OrderNumber:    orderNumber,
		UserID:         userID,
		SubtotalCents:  subtotal,
		ShippingMethod: req.ShippingMethod,
		ShippingOption: option,
		ShippingCents:  shippingCents,
		TotalCents:     subtotal + shippingCents,
		PaymentMethod:  req.PaymentMethod,
		QuoteType:      quoteType,
		QuoteID:        quoteID,
	})
	if err != nil {
		return repository.Order{}, nil, err
	}

	lines, err := s.repo.InsertLinesTx(ctx, tx, order.ID, lineParams)
	if err != nil {
		return repository.Order{}, nil, err
	}

	for _, l := range cartLines {
		if l.ProductKind != "stocked" {
			continue
		}
		if err := s.stock.DeductTx(ctx, tx, l.ProductID, l.Quantity, order.ID, userID.String()); err != nil {
			return repository.Order{}, nil, err
		}
	}

	for _, l := range cartLines {
		if l.QuoteType == nil || l.QuoteID == nil {
			continue
		}
		if err := s.quotes.StampOrderTx(ctx, tx, *l.QuoteType, *l.QuoteID, orderNumber); err != nil {
			return repository.Order{}, nil, err
		}
	}

	if err := s.carts.ClearTx(ctx, tx, userID); err != nil {
		return repository.Order{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return repository.Order{}, nil, fmt.Errorf("commit checkout: %w", err)
	}
	return order, lines, nil
}

// validateLine rejects lines that can no longer be sold. Availability of
// stocked items is enforced by the ledger's conditional deduction; this
// covers what the deduction cannot see.
func validateLine(l CartLine) error {
	if l.Quantity < 1 {
		return apperr.Validation("quantity must be at least 1")
	}
	if !l.Active {
		return apperr.NotFound(fmt.Sprintf("product %s is no longer available", l.ProductID))
	}
	if l.ProductKind == "fabricated" && !l.InStock {
		return apperr.Conflict("insufficient stock").WithDetails(map[string]any{
			"productId": l.ProductID.String(),
			"available": 0,
		})
	}
	return nil
}

// afterCheckout runs the post-commit side effects. The order is already
// placed; nothing here may fail it.
func (s *Service) afterCheckout(ctx context.Context, order repository.Order, lines []repository.Line) {
	email, err := s.emails.EmailByID(ctx, order.UserID)
	if err != nil {
		s.log.Warn("order confirmation recipient lookup failed", "order_number", order.OrderNumber, "error", err.Error())
	} else {
		s.notifier.OrderPlaced(ctx, email, order.OrderNumber, order.TotalCents)
	}

	if s.invoices == nil {
		return
	}
	invoiceLines := make([]pdf.InvoiceLine, 0, len(lines))
	for _, l := range lines {
		invoiceLines = append(invoiceLines, pdf.InvoiceLine{
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	invoiceNumber, _, err := s.invoices.Generate(ctx, pdf.InvoiceData{
		OrderNumber:   order.OrderNumber,
		CustomerEmail: email,
		Lines:         invoiceLines,
		SubtotalCents: order.SubtotalCents,
		ShippingCents: order.ShippingCents,
		TotalCents:    order.TotalCents,
		IssuedAt:      s.now(),
	})
	if err != nil {
		s.log.Warn("invoice generation failed", "order_number", order.OrderNumber, "error", err.Error())
		return
	}
	if err := s.repo.SetInvoiceNumber(ctx, order.OrderNumber, invoiceNumber); err != nil {
		s.log.Warn("invoice number not recorded", "order_number", order.OrderNumber, "error", err.Error())
	}
}

// Get returns one order. Customers can only read their own; staff can
// read any.
func (s *Service) Get(ctx context.Context, orderNumber string, callerID uuid.UUID, staff bool) (transport.OrderResponse, error) {
	order, lines, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	if !staff && order.UserID != callerID {
		return transport.OrderResponse{}, apperr.Forbidden("not your order")
	}
	return response(order, lines), nil
}

// ListMine returns the caller's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, limit int) ([]transport.OrderResponse, error) {
	orders, err := s.repo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return headerResponses(orders), nil
}

// ListAll returns orders for staff, optionally filtered by status.
func (s *Service) ListAll(ctx context.Context, status string, limit int) ([]transport.OrderResponse, error) {
	if status != "" && !transport.ValidStatus(status) {
		return nil, apperr.Validation("unknown order status")
	}
	orders, err := s.repo.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	return headerResponses(orders), nil
}

// UpdateStatus moves an order through its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, orderNumber string, req transport.UpdateStatusRequest) (transport.OrderResponse, error) {
	if !transport.ValidStatus(req.Status) {
		return transport.OrderResponse{}, apperr.Validation("unknown order status")
	}

	order, err := s.repo.UpdateStatus(ctx, orderNumber, req.Status)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	return response(order, nil), nil
}

func headerResponses(orders []repository.Order) []transport.OrderResponse {
	out := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, response(o, nil))
	}
	return out
}

func response(o repository.Order, lines []repository.Line) transport.OrderResponse {
	resp := transport.OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		Status:         o.Status,
		SubtotalCents:  o.SubtotalCents,
		ShippingMethod: o.ShippingMethod,
		ShippingCents:  o.ShippingCents,
		TotalCents:     o.TotalCents,
		PaymentMethod:  o.PaymentMethod,
		CreatedAt:      o.CreatedAt,
	}
	if o.ShippingOption != nil {
		resp.ShippingOption = *o.ShippingOption
	}
	if o.QuoteType != nil && o.QuoteID != nil {
		resp.QuoteLink = &transport.QuoteLink{Type: *o.QuoteType, ID: *o.QuoteID}
	}
	if o.InvoiceNumber != nil {
		resp.InvoiceNumber = *o.InvoiceNumber
	}
	resp.Lines = make([]transport.LineResponse, 0, len(lines))
	for _, l := range lines {
		resp.Lines = append(resp.Lines, transport.LineResponse{
			ID:             l.ID,
			ProductKind:    l.ProductKind,
			ProductID:      l.ProductID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	return resp
}
