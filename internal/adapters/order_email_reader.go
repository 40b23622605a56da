package adapters

import (
	"context"

	"github.com/google/uuid"

	ordersvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/service"
	userrepo "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/repository"
)

// OrderEmailReader adapts the user repository for order notifications.
type OrderEmailReader struct {
	repo userrepo.Repository
}

// NewOrderEmailReader creates the adapter.
func NewOrderEmailReader(repo userrepo.Repository) *OrderEmailReader {
	return &OrderEmailReader{repo: repo}
}

func (a *OrderEmailReader) EmailByID(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := a.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// Compile-time check that OrderEmailReader implements service.EmailReader.
var _ ordersvc.EmailReader = (*OrderEmailReader)(nil)
