package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

type addCall struct {
	owner    repository.Owner
	kind     string
	id       uuid.UUID
	quantity int
}

type fakeCartRepo struct {
	lines  []repository.DetailedLine
	adds   []addCall
	merges []string
}

func (r *fakeCartRepo) Add(ctx context.Context, owner repository.Owner, productKind string, productID uuid.UUID, quantity int) (repository.Line, error) {
	r.adds = append(r.adds, addCall{owner: owner, kind: productKind, id: productID, quantity: quantity})
	return repository.Line{ID: uuid.New(), ProductKind: productKind, ProductID: productID, Quantity: quantity}, nil
}

func (r *fakeCartRepo) SetQuantity(ctx context.Context, owner repository.Owner, lineID uuid.UUID, quantity int) error {
	return nil
}

func (r *fakeCartRepo) List(ctx context.Context, owner repository.Owner) ([]repository.DetailedLine, error) {
	return r.lines, nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, owner repository.Owner) error {
	return nil
}

func (r *fakeCartRepo) MergeGuestIntoUser(ctx context.Context, sessionID string, userID uuid.UUID) error {
	r.merges = append(r.merges, sessionID)
	return nil
}

func (r *fakeCartRepo) AddTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, productKind string, productID uuid.UUID, quantity int) error {
	return nil
}

func (r *fakeCartRepo) ListUserLinesTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]repository.CheckoutLine, error) {
	return nil, nil
}

func (r *fakeCartRepo) ClearUserTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	return nil
}

var _ repository.Repository = (*fakeCartRepo)(nil)

type fakeChecker struct {
	purchasable bool
}

func (c fakeChecker) ProductPurchasable(ctx context.Context, kind string, id uuid.UUID) (bool, error) {
	return c.purchasable, nil
}

func TestAdd_RejectsUnpurchasableProduct(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := New(repo, fakeChecker{purchasable: false}, logger.New("test"))

	_, err := svc.Add(context.Background(), repository.SessionOwner("sess-1"), transport.AddLineRequest{
		ProductKind: "stocked",
		ProductID:   uuid.New(),
		Quantity:    1,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if len(repo.adds) != 0 {
		t.Fatalf("expected no line added, got %d", len(repo.adds))
	}
}

func TestAdd_RejectsZeroQuantity(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := New(repo, fakeChecker{purchasable: true}, logger.New("test"))

	_, err := svc.Add(context.Background(), repository.SessionOwner("sess-1"), transport.AddLineRequest{
		ProductKind: "stocked",
		ProductID:   uuid.New(),
		Quantity:    0,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGet_ComputesLineTotalsAndSubtotal(t *testing.T) {
	repo := &fakeCartRepo{lines: []repository.DetailedLine{
		{Line: repository.Line{ID: uuid.New(), ProductKind: "stocked", Quantity: 2}, ProductName: "Gift Box", PriceCents: 5000, Available: true},
		{Line: repository.Line{ID: uuid.New(), ProductKind: "fabricated", Quantity: 3}, ProductName: "Topper", PriceCents: 2000, Available: true},
	}}
	svc := New(repo, fakeChecker{purchasable: true}, logger.New("test"))

	cart, err := svc.Get(context.Background(), repository.SessionOwner("sess-1"))
	if err != nil {
		t.Fatalf("expected get to succeed, got %v", err)
	}

	if cart.Lines[0].LineTotal != 10000 {
		t.Fatalf("expected first line total 10000, got %d", cart.Lines[0].LineTotal)
	}
	if cart.Lines[1].LineTotal != 6000 {
		t.Fatalf("expected second line total 6000, got %d", cart.Lines[1].LineTotal)
	}
	if cart.SubtotalCents != 16000 {
		t.Fatalf("expected subtotal 16000, got %d", cart.SubtotalCents)
	}
}

func TestGet_UnavailableLinesExcludedFromSubtotal(t *testing.T) {
	repo := &fakeCartRepo{lines: []repository.DetailedLine{
		{Line: repository.Line{ID: uuid.New(), ProductKind: "stocked", Quantity: 2}, ProductName: "Gift Box", PriceCents: 5000, Available: true},
		{Line: repository.Line{ID: uuid.New(), ProductKind: "fabricated", Quantity: 1}, ProductName: "Retired Topper", PriceCents: 9000, Available: false},
	}}
	svc := New(repo, fakeChecker{purchasable: true}, logger.New("test"))

	cart, err := svc.Get(context.Background(), repository.SessionOwner("sess-1"))
	if err != nil {
		t.Fatalf("expected get to succeed, got %v", err)
	}

	if len(cart.Lines) != 2 {
		t.Fatalf("expected unavailable line kept visible, got %d lines", len(cart.Lines))
	}
	if cart.SubtotalCents != 10000 {
		t.Fatalf("expected subtotal 10000 without the unavailable line, got %d", cart.SubtotalCents)
	}
}

func TestMerge_EmptySessionIsNoOp(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := New(repo, fakeChecker{purchasable: true}, logger.New("test"))

	if err := svc.Merge(context.Background(), "", uuid.New()); err != nil {
		t.Fatalf("expected no-op merge, got %v", err)
	}
	if len(repo.merges) != 0 {
		t.Fatalf("expected no merge call, got %d", len(repo.merges))
	}
}

func TestMerge_DelegatesToRepository(t *testing.T) {
	repo := &fakeCartRepo{}
	svc := New(repo, fakeChecker{purchasable: true}, logger.New("test"))

	if err := svc.Merge(context.Background(), "sess-9", uuid.New()); err != nil {
		t.Fatalf("expected merge to succeed, got %v", err)
	}
	if len(repo.merges) != 1 || repo.merges[0] != "sess-9" {
		t.Fatalf("expected merge of sess-9, got %v", repo.merges)
	}
}
