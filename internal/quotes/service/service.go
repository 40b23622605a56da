// Package service implements the quote request workflow, including the
// conversion of a priced quote into a purchasable cart line.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/emailaddr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

// TxBeginner starts transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Account is the slice of a user account conversion needs.
type Account struct {
	ID    uuid.UUID
	Email string
}

// AccountProvisioner finds or creates the account behind a quote's
// requester email inside the conversion transaction. The returned string
// is the one-time plaintext password when an account was created.
type AccountProvisioner interface {
	FindOrCreateTx(ctx context.Context, tx pgx.Tx, email string) (Account, string, error)
}

// QuoteItemParams describes the catalog entry synthesized for a quote.
type QuoteItemParams struct {
	Code       string
	Name       string
	PriceCents int64
	QuoteType  string
	QuoteID    uuid.UUID
	ImageKey   *string
}

// CatalogWriter creates the hidden category and the synthesized item
// inside the conversion transaction.
type CatalogWriter interface {
	CreateQuoteItemTx(ctx context.Context, tx pgx.Tx, params QuoteItemParams) (uuid.UUID, error)
}

// CartWriter merges the synthesized item into the customer's cart inside
// the conversion transaction.
type CartWriter interface {
	AddTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, productKind string, productID uuid.UUID, quantity int) error
}

// ImageFinder resolves a representative image for a quote. A nil key with
// a nil error means no image, which is a valid outcome.
type ImageFinder interface {
	FindQuoteImage(ctx context.Context, quoteType string, quoteID uuid.UUID) (*string, error)
}

// Notifier announces a priced quote. Delivery failures never surface here.
type Notifier interface {
	QuoteReady(ctx context.Context, recipient, quoteReference string, priceCents int64)
}

// Service implements quote operations.
type Service struct {
	repo     repository.Repository
	db       TxBeginner
	accounts AccountProvisioner
	catalog  CatalogWriter
	carts    CartWriter
	images   ImageFinder
	notifier Notifier
	log      *logger.Logger
}

// New creates the quotes service.
func New(
	repo repository.Repository,
	db TxBeginner,
	accounts AccountProvisioner,
	catalog CatalogWriter,
	carts CartWriter,
	images ImageFinder,
	notifier Notifier,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		db:       db,
		accounts: accounts,
		catalog:  catalog,
		carts:    carts,
		images:   images,
		notifier: notifier,
		log:      log,
	}
}

// Create stores a new quote request from the storefront.
func (s *Service) Create(ctx context.Context, req transport.CreateQuoteRequest) (transport.QuoteResponse, error) {
	var phone *string
	if req.RequesterPhone != "" {
		phone = &req.RequesterPhone
	}

	q, err := s.repo.Create(ctx, repository.CreateParams{
		Type:           req.Type,
		RequesterName:  req.RequesterName,
		RequesterEmail: emailaddr.Normalize(req.RequesterEmail),
		RequesterPhone: phone,
		Details:        req.Details,
	})
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return response(q), nil
}

// Get returns one quote.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.QuoteResponse, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return response(q), nil
}

// List returns the newest quotes, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string, limit int) ([]transport.QuoteResponse, error) {
	quotes, err := s.repo.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}

	out := make([]transport.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, response(q))
	}
	return out, nil
}

// SetPrice prices a quote and notifies the requester.
func (s *Service) SetPrice(ctx context.Context, id uuid.UUID, req transport.SetPriceRequest) (transport.QuoteResponse, error) {
	q, err := s.repo.SetPrice(ctx, id, req.PriceCents)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	s.notifier.QuoteReady(ctx, q.RequesterEmail, quoteReference(q.Type, q.ID), req.PriceCents)
	return response(q), nil
}

// Cancel moves a quote to the cancelled status.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.repo.Cancel(ctx, id)
}

// Convert turns a quote into a purchasable cart line for the requester.
// One transaction covers the account, the synthesized catalog entry, the
// cart line, and the quote's state change, so converting twice can never
// half-succeed. The second attempt fails on the converted status.
func (s *Service) Convert(ctx context.Context, quoteID uuid.UUID, req transport.ConvertRequest) (transport.ConvertResponse, error) {
	// Resolve the image before opening the transaction; object storage is
	// slow and read-only here. A storage failure degrades to no image.
	preview, err := s.repo.Get(ctx, quoteID)
	if err != nil {
		return transport.ConvertResponse{}, err
	}
	imageKey := s.resolveImage(ctx, preview.Type, quoteID)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return transport.ConvertResponse{}, fmt.Errorf("begin conversion: %w", err)
	}
	defer tx.Rollback(ctx)

	quote, err := s.repo.GetForUpdateTx(ctx, tx, quoteID)
	if err != nil {
		return transport.ConvertResponse{}, err
	}
	switch quote.Status {
	case repository.StatusConverted:
		return transport.ConvertResponse{}, apperr.Conflict("quote already converted")
	case repository.StatusCancelled:
		return transport.ConvertResponse{}, apperr.Conflict("quote is cancelled")
	}

	account, tempPassword, err := s.accounts.FindOrCreateTx(ctx, tx, quote.RequesterEmail)
	if err != nil {
		return transport.ConvertResponse{}, err
	}

	itemID, err := s.catalog.CreateQuoteItemTx(ctx, tx, QuoteItemParams{
		Code:       quoteReference(quote.Type, quote.ID),
		Name:       req.ItemName,
		PriceCents: req.PriceCents,
		QuoteType:  quote.Type,
		QuoteID:    quote.ID,
		ImageKey:   imageKey,
	})
	if err != nil {
		return transport.ConvertResponse{}, err
	}

	if err := s.carts.AddTx(ctx, tx, account.ID, "fabricated", itemID, req.Quantity); err != nil {
		return transport.ConvertResponse{}, err
	}

	if err := s.repo.MarkConvertedTx(ctx, tx, quote.ID, req.PriceCents); err != nil {
		return transport.ConvertResponse{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return transport.ConvertResponse{}, fmt.Errorf("commit conversion: %w", err)
	}

	accountCreated := tempPassword != ""
	s.log.QuoteConverted(quote.Type, quote.ID.String(), accountCreated)
	s.notifier.QuoteReady(ctx, quote.RequesterEmail, quoteReference(quote.Type, quote.ID), req.PriceCents)

	return transport.ConvertResponse{
		UserID:         account.ID,
		ItemID:         itemID,
		AccountCreated: accountCreated,
		TempPassword:   tempPassword,
	}, nil
}

// resolveImage applies the image fallback order. Failures degrade to no
// image; they never block conversion.
func (s *Service) resolveImage(ctx context.Context, quoteType string, quoteID uuid.UUID) *string {
	if s.images == nil {
		return nil
	}
	key, err := s.images.FindQuoteImage(ctx, quoteType, quoteID)
	if err != nil {
		s.log.Warn("quote image lookup failed", "quote_id", quoteID.String(), "error", err.Error())
		return nil
	}
	return key
}

// quoteReference is the stable human-readable handle for a quote, used as
// the synthesized catalog code and in notifications.
func quoteReference(quoteType string, id uuid.UUID) string {
	return fmt.Sprintf("quote-%s-%s", quoteType, id.String()[:8])
}

func response(q repository.Quote) transport.QuoteResponse {
	resp := transport.QuoteResponse{
		ID:             q.ID,
		Type:           q.Type,
		RequesterName:  q.RequesterName,
		RequesterEmail: q.RequesterEmail,
		Details:        q.Details,
		Status:         q.Status,
		PriceCents:     q.PriceCents,
		OrderNumber:    q.OrderNumber,
		ConvertedAt:    q.ConvertedAt,
		CreatedAt:      q.CreatedAt,
	}
	if q.RequesterPhone != nil {
		resp.RequesterPhone = *q.RequesterPhone
	}
	return resp
}
