package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
}

func (t *fakeTx) Commit(ctx context.Context) error   { t.commits++; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { t.rollbacks++; return nil }

type fakeDB struct {
	txs []*fakeTx
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &fakeTx{}
	db.txs = append(db.txs, tx)
	return tx, nil
}

type fakeQuoteRepo struct {
	repository.Repository

	quote     repository.Quote
	getErr    error
	converted []uuid.UUID
	created   []repository.CreateParams
}

func (r *fakeQuoteRepo) Create(ctx context.Context, params repository.CreateParams) (repository.Quote, error) {
	r.created = append(r.created, params)
	q := repository.Quote{
		ID:             uuid.New(),
		Type:           params.Type,
		RequesterName:  params.RequesterName,
		RequesterEmail: params.RequesterEmail,
		RequesterPhone: params.RequesterPhone,
		Details:        params.Details,
		Status:         repository.StatusPending,
	}
	return q, nil
}

func (r *fakeQuoteRepo) Get(ctx context.Context, id uuid.UUID) (repository.Quote, error) {
	if r.getErr != nil {
		return repository.Quote{}, r.getErr
	}
	return r.quote, nil
}

func (r *fakeQuoteRepo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (repository.Quote, error) {
	return r.quote, nil
}

func (r *fakeQuoteRepo) MarkConvertedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, priceCents int64) error {
	r.converted = append(r.converted, id)
	return nil
}

type fakeAccounts struct {
	account      Account
	tempPassword string
	calls        int
}

func (a *fakeAccounts) FindOrCreateTx(ctx context.Context, tx pgx.Tx, email string) (Account, string, error) {
	a.calls++
	a.account.Email = email
	return a.account, a.tempPassword, nil
}

type fakeCatalog struct {
	itemID uuid.UUID
	params []QuoteItemParams
}

func (c *fakeCatalog) CreateQuoteItemTx(ctx context.Context, tx pgx.Tx, params QuoteItemParams) (uuid.UUID, error) {
	c.params = append(c.params, params)
	return c.itemID, nil
}

type cartAdd struct {
	userID    uuid.UUID
	kind      string
	productID uuid.UUID
	quantity  int
}

type fakeCartWriter struct {
	adds []cartAdd
}

func (c *fakeCartWriter) AddTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, productKind string, productID uuid.UUID, quantity int) error {
	c.adds = append(c.adds, cartAdd{userID: userID, kind: productKind, productID: productID, quantity: quantity})
	return nil
}

type fakeImages struct {
	key *string
	err error
}

func (i *fakeImages) FindQuoteImage(ctx context.Context, quoteType string, quoteID uuid.UUID) (*string, error) {
	return i.key, i.err
}

type readyCall struct {
	recipient string
	reference string
	price     int64
}

type fakeNotifier struct {
	ready []readyCall
}

func (n *fakeNotifier) QuoteReady(ctx context.Context, recipient, quoteReference string, priceCents int64) {
	n.ready = append(n.ready, readyCall{recipient: recipient, reference: quoteReference, price: priceCents})
}

type convertEnv struct {
	svc      *Service
	repo     *fakeQuoteRepo
	db       *fakeDB
	accounts *fakeAccounts
	catalog  *fakeCatalog
	carts    *fakeCartWriter
	images   *fakeImages
	notifier *fakeNotifier
}

func newConvertEnv(quote repository.Quote) *convertEnv {
	env := &convertEnv{
		repo:     &fakeQuoteRepo{quote: quote},
		db:       &fakeDB{},
		accounts: &fakeAccounts{account: Account{ID: uuid.New()}},
		catalog:  &fakeCatalog{itemID: uuid.New()},
		carts:    &fakeCartWriter{},
		images:   &fakeImages{},
		notifier: &fakeNotifier{},
	}
	env.svc = New(env.repo, env.db, env.accounts, env.catalog, env.carts, env.images, env.notifier, logger.New("test"))
	return env
}

func pendingQuote() repository.Quote {
	return repository.Quote{
		ID:             uuid.New(),
		Type:           "cake_topper",
		RequesterName:  "Jane",
		RequesterEmail: "jane@example.com",
		Status:         repository.StatusQuoted,
	}
}

func TestConvert_CreatesItemCartLineAndAccount(t *testing.T) {
	quote := pendingQuote()
	env := newConvertEnv(quote)
	env.accounts.tempPassword = "temp-secret"

	resp, err := env.svc.Convert(context.Background(), quote.ID, transport.ConvertRequest{
		ItemName:   "Unicorn Topper",
		PriceCents: 45000,
		Quantity:   2,
	})
	if err != nil {
		t.Fatalf("expected conversion to succeed, got %v", err)
	}

	if !resp.AccountCreated || resp.TempPassword != "temp-secret" {
		t.Fatalf("expected new account with temp password, got %+v", resp)
	}
	if resp.ItemID != env.catalog.itemID {
		t.Fatalf("expected item %s, got %s", env.catalog.itemID, resp.ItemID)
	}

	if len(env.catalog.params) != 1 {
		t.Fatalf("expected 1 catalog item, got %d", len(env.catalog.params))
	}
	params := env.catalog.params[0]
	wantCode := "quote-cake_topper-" + quote.ID.String()[:8]
	if params.Code != wantCode {
		t.Fatalf("expected code %s, got %s", wantCode, params.Code)
	}
	if params.QuoteType != quote.Type || params.QuoteID != quote.ID {
		t.Fatalf("expected item linked to quote, got %+v", params)
	}

	if len(env.carts.adds) != 1 {
		t.Fatalf("expected 1 cart line, got %d", len(env.carts.adds))
	}
	add := env.carts.adds[0]
	if add.userID != env.accounts.account.ID || add.kind != "fabricated" || add.quantity != 2 {
		t.Fatalf("unexpected cart add %+v", add)
	}

	if len(env.repo.converted) != 1 || env.repo.converted[0] != quote.ID {
		t.Fatalf("expected quote marked converted")
	}
	if len(env.db.txs) != 1 || env.db.txs[0].commits != 1 {
		t.Fatalf("expected a single committed transaction")
	}

	if len(env.notifier.ready) != 1 || env.notifier.ready[0].recipient != "jane@example.com" {
		t.Fatalf("expected requester notified, got %+v", env.notifier.ready)
	}
}

func TestConvert_ExistingAccountGetsNoTempPassword(t *testing.T) {
	quote := pendingQuote()
	env := newConvertEnv(quote)
	env.accounts.tempPassword = ""

	resp, err := env.svc.Convert(context.Background(), quote.ID, transport.ConvertRequest{
		ItemName:   "Topper",
		PriceCents: 1000,
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("expected conversion to succeed, got %v", err)
	}
	if resp.AccountCreated || resp.TempPassword != "" {
		t.Fatalf("expected existing account without temp password, got %+v", resp)
	}
}

func TestConvert_AlreadyConvertedRejected(t *testing.T) {
	quote := pendingQuote()
	quote.Status = repository.StatusConverted
	env := newConvertEnv(quote)

	_, err := env.svc.Convert(context.Background(), quote.ID, transport.ConvertRequest{
		ItemName:   "Topper",
		PriceCents: 1000,
		Quantity:   1,
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if len(env.catalog.params) != 0 || len(env.carts.adds) != 0 {
		t.Fatalf("expected no side effects on double conversion")
	}
	if len(env.db.txs) != 1 || env.db.txs[0].commits != 0 {
		t.Fatalf("expected transaction rolled back")
	}
}

func TestConvert_CancelledQuoteRejected(t *testing.T) {
	quote := pendingQuote()
	quote.Status = repository.StatusCancelled
	env := newConvertEnv(quote)

	_, err := env.svc.Convert(context.Background(), quote.ID, transport.ConvertRequest{
		ItemName:   "Topper",
		PriceCents: 1000,
		Quantity:   1,
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestConvert_ImageLookupFailureDegradesToNoImage(t *testing.T) {
	quote := pendingQuote()
	env := newConvertEnv(quote)
	env.images.err = errors.New("storage down")

	_, err := env.svc.Convert(context.Background(), quote.ID, transport.ConvertRequest{
		ItemName:   "Topper",
		PriceCents: 1000,
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("expected conversion to succeed without image, got %v", err)
	}
	if env.catalog.params[0].ImageKey != nil {
		t.Fatalf("expected no image key, got %v", *env.catalog.params[0].ImageKey)
	}
}

func TestConvert_ImageKeyPassedThrough(t *testing.T) {
	quote := pendingQuote()
	env := newConvertEnv(quote)
	key := "cake_topper/" + quote.ID.String() + "/reference.png"
	env.images.key = &key

	_, err := env.svc.Convert(context.Background(), quote.ID, transport.ConvertRequest{
		ItemName:   "Topper",
		PriceCents: 1000,
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("expected conversion to succeed, got %v", err)
	}
	if env.catalog.params[0].ImageKey == nil || *env.catalog.params[0].ImageKey != key {
		t.Fatalf("expected image key %s, got %v", key, env.catalog.params[0].ImageKey)
	}
}

func TestCreate_NormalizesRequesterEmail(t *testing.T) {
	env := newConvertEnv(repository.Quote{})

	_, err := env.svc.Create(context.Background(), transport.CreateQuoteRequest{
		Type:           "custom_design",
		RequesterName:  "Jane",
		RequesterEmail: "  Jane@Example.COM ",
	})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if env.repo.created[0].RequesterEmail != "jane@example.com" {
		t.Fatalf("expected normalized email, got %s", env.repo.created[0].RequesterEmail)
	}
}

func TestQuoteReference_Format(t *testing.T) {
	id := uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef")
	ref := quoteReference("print_service", id)
	if ref != "quote-print_service-01234567" {
		t.Fatalf("expected quote-print_service-01234567, got %s", ref)
	}
	if strings.Contains(ref, "-cdef-") {
		t.Fatalf("expected only the short id in %s", ref)
	}
}
