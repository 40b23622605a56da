package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/pdf"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

type fakeRow struct {
	seq int
}

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) == 1 {
		if p, ok := dest[0].(*int); ok {
			*p = r.seq
			return nil
		}
	}
	return errors.New("unexpected scan")
}

type fakeTx struct {
	pgx.Tx
	maxSeq    int
	commits   int
	rollbacks int
}

func (t *fakeTx) Commit(ctx context.Context) error   { t.commits++; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { t.rollbacks++; return nil }
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{seq: t.maxSeq}
}

type fakeDB struct {
	maxSeq int
	txs    []*fakeTx
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &fakeTx{maxSeq: db.maxSeq}
	db.txs = append(db.txs, tx)
	return tx, nil
}

func (db *fakeDB) commits() int {
	total := 0
	for _, tx := range db.txs {
		total += tx.commits
	}
	return total
}

type fakeOrderRepo struct {
	repository.Repository

	insertErrs    []error
	insertedOrder []repository.CreateOrderParams
	insertedLines [][]repository.CreateLineParams
	invoiceNumber string
	statusOrder   repository.Order
	statusErr     error
}

func (r *fakeOrderRepo) InsertOrderTx(ctx context.Context, tx pgx.Tx, params repository.CreateOrderParams) (repository.Order, error) {
	r.insertedOrder = append(r.insertedOrder, params)
	if len(r.insertErrs) > 0 {
		err := r.insertErrs[0]
		r.insertErrs = r.insertErrs[1:]
		if err != nil {
			return repository.Order{}, err
		}
	}
	return repository.Order{
		ID:             uuid.New(),
		OrderNumber:    params.OrderNumber,
		UserID:         params.UserID,
		Status:         transport.StatusPending,
		SubtotalCents:  params.SubtotalCents,
		ShippingMethod: params.ShippingMethod,
		ShippingOption: params.ShippingOption,
		ShippingCents:  params.ShippingCents,
		TotalCents:     params.TotalCents,
		PaymentMethod:  params.PaymentMethod,
		QuoteType:      params.QuoteType,
		QuoteID:        params.QuoteID,
		CreatedAt:      time.Now(),
	}, nil
}

func (r *fakeOrderRepo) InsertLinesTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, lines []repository.CreateLineParams) ([]repository.Line, error) {
	r.insertedLines = append(r.insertedLines, lines)
	out := make([]repository.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, repository.Line{
			ID:             uuid.New(),
			OrderID:        orderID,
			ProductKind:    l.ProductKind,
			ProductID:      l.ProductID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	return out, nil
}

func (r *fakeOrderRepo) SetInvoiceNumber(ctx context.Context, orderNumber, invoiceNumber string) error {
	r.invoiceNumber = invoiceNumber
	return nil
}

func (r *fakeOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (repository.Order, []repository.Line, error) {
	if r.statusErr != nil {
		return repository.Order{}, nil, r.statusErr
	}
	return r.statusOrder, nil, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orderNumber, status string) (repository.Order, error) {
	if r.statusErr != nil {
		return repository.Order{}, r.statusErr
	}
	o := r.statusOrder
	o.Status = status
	return o, nil
}

type fakeCarts struct {
	lines      []CartLine
	linesErr   error
	clearCalls int
}

func (c *fakeCarts) LinesTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]CartLine, error) {
	return c.lines, c.linesErr
}

func (c *fakeCarts) ClearTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	c.clearCalls++
	return nil
}

type deduction struct {
	productID uuid.UUID
	quantity  int
}

type fakeStock struct {
	err        error
	deductions []deduction
}

func (s *fakeStock) DeductTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int, orderID uuid.UUID, actor string) error {
	if s.err != nil {
		return s.err
	}
	s.deductions = append(s.deductions, deduction{productID: productID, quantity: quantity})
	return nil
}

type stamp struct {
	quoteType   string
	quoteID     uuid.UUID
	orderNumber string
}

type fakeQuotes struct {
	stamps []stamp
}

func (q *fakeQuotes) StampOrderTx(ctx context.Context, tx pgx.Tx, quoteType string, quoteID uuid.UUID, orderNumber string) error {
	q.stamps = append(q.stamps, stamp{quoteType: quoteType, quoteID: quoteID, orderNumber: orderNumber})
	return nil
}

type fakeEmails struct{}

func (fakeEmails) EmailByID(ctx context.Context, userID uuid.UUID) (string, error) {
	return "jane@example.com", nil
}

type placed struct {
	recipient   string
	orderNumber string
	totalCents  int64
}

type fakeNotifier struct {
	placed []placed
}

func (n *fakeNotifier) OrderPlaced(ctx context.Context, recipient, orderNumber string, totalCents int64) {
	n.placed = append(n.placed, placed{recipient: recipient, orderNumber: orderNumber, totalCents: totalCents})
}

type fakeInvoices struct {
	generated []pdf.InvoiceData
}

func (g *fakeInvoices) Generate(ctx context.Context, data pdf.InvoiceData) (string, string, error) {
	g.generated = append(g.generated, data)
	number := pdf.InvoiceNumber(data.OrderNumber)
	return number, data.OrderNumber + "/" + number + ".pdf", nil
}

type checkoutEnv struct {
	svc      *Service
	repo     *fakeOrderRepo
	db       *fakeDB
	carts    *fakeCarts
	stock    *fakeStock
	quotes   *fakeQuotes
	notifier *fakeNotifier
	invoices *fakeInvoices
}

func newCheckoutEnv(lines []CartLine) *checkoutEnv {
	env := &checkoutEnv{
		repo:     &fakeOrderRepo{},
		db:       &fakeDB{},
		carts:    &fakeCarts{lines: lines},
		stock:    &fakeStock{},
		quotes:   &fakeQuotes{},
		notifier: &fakeNotifier{},
		invoices: &fakeInvoices{},
	}
	env.svc = New(env.repo, env.db, env.carts, env.stock, env.quotes, fakeEmails{}, env.notifier, env.invoices, logger.New("test"))
	env.svc.now = func() time.Time {
		return time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	}
	return env
}

func orderNumberConflict() error {
	return fmt.Errorf("insert order: %w", &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"})
}

func TestCheckout_PlacesOrderFromMixedCart(t *testing.T) {
	quoteID := uuid.New()
	quoteType := "cake_topper"
	stockedID := uuid.New()
	fabricatedID := uuid.New()

	env := newCheckoutEnv([]CartLine{
		{ProductKind: "stocked", ProductID: stockedID, Name: "Gift Box", UnitPriceCents: 5000, Quantity: 1, Active: true, StockQuantity: 2},
		{ProductKind: "fabricated", ProductID: fabricatedID, Name: "Custom Topper", UnitPriceCents: 2000, Quantity: 3, Active: true, InStock: true, QuoteType: &quoteType, QuoteID: &quoteID},
	})

	resp, err := env.svc.Checkout(context.Background(), uuid.New(), transport.CheckoutRequest{
		ShippingMethod: "courier",
		ShippingOption: "door_to_door",
		PaymentMethod:  "eft",
	})
	if err != nil {
		t.Fatalf("expected checkout to succeed, got %v", err)
	}

	if resp.OrderNumber != "SSG-202501-001" {
		t.Fatalf("expected order number SSG-202501-001, got %s", resp.OrderNumber)
	}
	if resp.SubtotalCents != 11000 {
		t.Fatalf("expected subtotal 11000, got %d", resp.SubtotalCents)
	}
	if resp.ShippingCents != 12500 {
		t.Fatalf("expected shipping 12500, got %d", resp.ShippingCents)
	}
	if resp.TotalCents != 23500 {
		t.Fatalf("expected total 23500, got %d", resp.TotalCents)
	}
	if len(resp.Lines) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(resp.Lines))
	}

	if len(env.stock.deductions) != 1 {
		t.Fatalf("expected 1 stock deduction, got %d", len(env.stock.deductions))
	}
	if env.stock.deductions[0].productID != stockedID || env.stock.deductions[0].quantity != 1 {
		t.Fatalf("expected deduction of 1 for %s, got %+v", stockedID, env.stock.deductions[0])
	}

	if len(env.quotes.stamps) != 1 {
		t.Fatalf("expected 1 quote stamp, got %d", len(env.quotes.stamps))
	}
	if env.quotes.stamps[0].quoteID != quoteID || env.quotes.stamps[0].orderNumber != "SSG-202501-001" {
		t.Fatalf("unexpected quote stamp %+v", env.quotes.stamps[0])
	}

	if env.carts.clearCalls != 1 {
		t.Fatalf("expected cart cleared once, got %d", env.carts.clearCalls)
	}
	if env.db.commits() != 1 {
		t.Fatalf("expected 1 commit, got %d", env.db.commits())
	}

	if len(env.notifier.placed) != 1 {
		t.Fatalf("expected 1 confirmation, got %d", len(env.notifier.placed))
	}
	if env.notifier.placed[0].recipient != "jane@example.com" || env.notifier.placed[0].totalCents != 23500 {
		t.Fatalf("unexpected confirmation %+v", env.notifier.placed[0])
	}

	if env.repo.invoiceNumber != "INV-SSG-202501-001" {
		t.Fatalf("expected invoice INV-SSG-202501-001, got %s", env.repo.invoiceNumber)
	}

	if env.repo.insertedOrder[0].QuoteType == nil || *env.repo.insertedOrder[0].QuoteType != quoteType {
		t.Fatalf("expected order linked to quote type %s", quoteType)
	}
}

func TestCheckout_ContinuesMonthSequence(t *testing.T) {
	env := newCheckoutEnv([]CartLine{
		{ProductKind: "fabricated", ProductID: uuid.New(), Name: "Topper", UnitPriceCents: 1500, Quantity: 1, Active: true, InStock: true},
	})
	env.db.maxSeq = 41

	resp, err := env.svc.Checkout(context.Background(), uuid.New(), transport.CheckoutRequest{
		ShippingMethod: "pickup",
		PaymentMethod:  "cash",
	})
	if err != nil {
		t.Fatalf("expected checkout to succeed, got %v", err)
	}
	if resp.OrderNumber != "SSG-202501-042" {
		t.Fatalf("expected order number SSG-202501-042, got %s", resp.OrderNumber)
	}
	if resp.ShippingCents != 0 {
		t.Fatalf("expected free pickup, got %d", resp.ShippingCents)
	}
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	env := newCheckoutEnv(nil)

	_, err := env.svc.Checkout(context.Background(), uuid.New(), transport.CheckoutRequest{
		ShippingMethod: "pickup",
		PaymentMethod:  "eft",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if env.db.commits() != 0 {
		t.Fatalf("expected no commits, got %d", env.db.commits())
	}
}

func TestCheckout_InactiveProductFailsWholeOrder(t *testing.T) {
	env := newCheckoutEnv([]CartLine{
		{ProductKind: "stocked", ProductID: uuid.New(), Name: "Gone", UnitPriceCents: 1000, Quantity: 1, Active: false, StockQuantity: 5},
		{ProductKind: "fabricated", ProductID: uuid.New(), Name: "Fine", UnitPriceCents: 1000, Quantity: 1, Active: true, InStock: true},
	})

	_, err := env.svc.Checkout(context.Background(), uuid.New(), transport.CheckoutRequest{
		ShippingMethod: "pickup",
		PaymentMethod:  "eft",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if env.db.commits() != 0 || env.carts.clearCalls != 0 || len(env.stock.deductions) != 0 {
		t.Fatalf("expected checkout to leave everything untouched")
	}
}

func TestCheckout_FabricatedOutOfStockRejected(t *testing.T) {
	env := newCheckoutEnv([]CartLine{
		{ProductKind: "fabricated", ProductID: uuid.New(), Name: "Topper", UnitPriceCents: 1000, Quantity: 1, Active: true, InStock: false},
	})

	_, err := env.svc.Checkout(context.Background(), uuid.New(), transport.CheckoutRequest{
		ShippingMethod: "pickup",
		PaymentMethod:  "eft",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCheckout_InsufficientStockAbortsTransaction(t *testing.T) {
	env := newCheckoutEnv([]CartLine{
		{ProductKind: "stocked", ProductID: uuid.New(), Name: "Gift Box", UnitPriceCents: 5000, Quantity: 3, Active: true, StockQuantity: 2},
	})
	env.stock.err = apperr.Conflict("insufficient stock")

	_, err := env.svc.Checkout(context.Background(), uuid.New(), transport.CheckoutRequest{
		ShippingMethod: "pickup",
		PaymentMethod:  "eft",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if env.db.commits() != 0 {
		t.Fatalf("expected no commits, got %d", env.db.commits())
	}
	if env.carts.clearCalls != 0 {
		t.Fatalf("expected cart untouched, got %d clears", env.carts.clearCalls)
	}
	if len(env.notifier.placed) != 0 {
		t.Fatalf("expected no confirmation on failed checkout")
	}
}

func TestCheckout_RetriesOrderNumberConflict(t *testing.T) {
	env := newCheckoutEnv([]CartLine{
		{ProductKind: "fabricated", ProductID: uuid.New(), Name: "Topper", UnitPriceCents: 1000, Quantity: 1, Active: true, InStock: true},
	})
	env.repo.insertErrs = []error{orderNumberConflict()}

	resp, err := env.svc.Checkout(context.Background(), uuid.New(), transport.CheckoutRequest{
		ShippingMethod: "pickup",
		PaymentMethod:  "eft",
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(env.repo.insertedOrder) != 2 {
		t.Fatalf("expected 2 insert attempts, got %d", len(env.repo.insertedOrder))
	}
	if env.db.commits() != 1 {
		t.Fatalf("expected 1 commit, got %d", env.db.commits())
	}
	if resp.OrderNumber == "" {
		t.Fatalf("expected an order number after retry")
	}
}

func TestCheckout_GivesUpAfterRepeatedConflicts(t *testing.T) {
	env := newCheckoutEnv([]CartLine{
		{ProductKind: "fabricated", ProductID: uuid.New(), Name: "Topper", UnitPriceCents: 1000, Quantity: 1, Active: true, InStock: true},
	})
	env.repo.insertErrs = []error{orderNumberConflict(), orderNumberConflict(), orderNumberConflict()}

	_, err := env.svc.Checkout(context.Background(), uuid.New(), transport.CheckoutRequest{
		ShippingMethod: "pickup",
		PaymentMethod:  "eft",
	})
	if err == nil {
		t.Fatalf("expected checkout to fail after repeated conflicts")
	}
	if len(env.repo.insertedOrder) != 3 {
		t.Fatalf("expected 3 insert attempts, got %d", len(env.repo.insertedOrder))
	}
}

func TestCheckout_InvalidShippingRejectedBeforeTransaction(t *testing.T) {
	env := newCheckoutEnv(nil)

	_, err := env.svc.Checkout(context.Background(), uuid.New(), transport.CheckoutRequest{
		ShippingMethod: "pickup",
		ShippingOption: "door_to_door",
		PaymentMethod:  "eft",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(env.db.txs) != 0 {
		t.Fatalf("expected no transaction, got %d", len(env.db.txs))
	}
}

func TestGet_CustomerCannotReadForeignOrder(t *testing.T) {
	owner := uuid.New()
	env := newCheckoutEnv(nil)
	env.repo.statusOrder = repository.Order{OrderNumber: "SSG-202501-007", UserID: owner, Status: transport.StatusPending}

	if _, err := env.svc.Get(context.Background(), "SSG-202501-007", uuid.New(), false); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if _, err := env.svc.Get(context.Background(), "SSG-202501-007", owner, true); err != nil {
		t.Fatalf("expected staff read to succeed, got %v", err)
	}
	if _, err := env.svc.Get(context.Background(), "SSG-202501-007", owner, false); err != nil {
		t.Fatalf("expected owner read to succeed, got %v", err)
	}
}

func TestUpdateStatus_UnknownStatusRejected(t *testing.T) {
	env := newCheckoutEnv(nil)

	_, err := env.svc.UpdateStatus(context.Background(), "SSG-202501-001", transport.UpdateStatusRequest{Status: "misplaced"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
