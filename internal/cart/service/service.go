// Package service implements cart business logic for guests and users.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/repository"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart/transport"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

// ProductChecker verifies that a product can be put in a cart. The catalog
// module provides the implementation through an adapter.
type ProductChecker interface {
	ProductPurchasable(ctx context.Context, kind string, id uuid.UUID) (bool, error)
}

// Service implements cart operations.
type Service struct {
	repo     repository.Repository
	products ProductChecker
	log      *logger.Logger
}

// New creates the cart service.
func New(repo repository.Repository, products ProductChecker, log *logger.Logger) *Service {
	return &Service{repo: repo, products: products, log: log}
}

// Add puts a product in the owner's cart, merging with an existing line.
func (s *Service) Add(ctx context.Context, owner repository.Owner, req transport.AddLineRequest) (transport.CartResponse, error) {
	if req.Quantity < 1 {
		return transport.CartResponse{}, apperr.Validation("quantity must be at least 1")
	}

	ok, err := s.products.ProductPurchasable(ctx, req.ProductKind, req.ProductID)
	if err != nil {
		return transport.CartResponse{}, err
	}
	if !ok {
		return transport.CartResponse{}, apperr.NotFound("product not found")
	}

	if _, err := s.repo.Add(ctx, owner, req.ProductKind, req.ProductID, req.Quantity); err != nil {
		return transport.CartResponse{}, err
	}
	return s.Get(ctx, owner)
}

// SetQuantity changes a line's quantity. Zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, owner repository.Owner, lineID uuid.UUID, quantity int) (transport.CartResponse, error) {
	if err := s.repo.SetQuantity(ctx, owner, lineID, quantity); err != nil {
		return transport.CartResponse{}, err
	}
	return s.Get(ctx, owner)
}

// Get returns the owner's cart with product details and the subtotal.
func (s *Service) Get(ctx context.Context, owner repository.Owner) (transport.CartResponse, error) {
	lines, err := s.repo.List(ctx, owner)
	if err != nil {
		return transport.CartResponse{}, err
	}

	resp := transport.CartResponse{Lines: make([]transport.LineResponse, 0, len(lines))}
	for _, l := range lines {
		lineTotal := l.PriceCents * int64(l.Quantity)
		resp.Lines = append(resp.Lines, transport.LineResponse{
			ID:          l.ID,
			ProductKind: l.ProductKind,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			PriceCents:  l.PriceCents,
			Quantity:    l.Quantity,
			LineTotal:   lineTotal,
			Available:   l.Available,
			CreatedAt:   l.AddedAt,
		})
		// Unavailable lines stay visible but do not count toward the
		// subtotal; checkout rejects them anyway.
		if l.Available {
			resp.SubtotalCents += lineTotal
		}
	}
	return resp, nil
}

// Clear empties the owner's cart.
func (s *Service) Clear(ctx context.Context, owner repository.Owner) error {
	return s.repo.Clear(ctx, owner)
}

// Merge folds a guest session's cart into the user's cart. Called on
// login; safe to call again with the same session.
func (s *Service) Merge(ctx context.Context, sessionID string, userID uuid.UUID) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repo.MergeGuestIntoUser(ctx, sessionID, userID); err != nil {
		return err
	}
	s.log.Info("guest cart merged", "session_id", sessionID, "user_id", userID.String())
	return nil
}
