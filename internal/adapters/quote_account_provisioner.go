package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"

	quotesvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/service"
	usersvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users/service"
)

// QuoteAccountProvisioner adapts the users service for quote conversion.
// It finds or creates the account behind a quote's requester email inside
// the conversion transaction.
type QuoteAccountProvisioner struct {
	users *usersvc.Service
}

// NewQuoteAccountProvisioner creates the adapter.
func NewQuoteAccountProvisioner(users *usersvc.Service) *QuoteAccountProvisioner {
	return &QuoteAccountProvisioner{users: users}
}

// FindOrCreateTx resolves the account for an email. The returned string is
// the generated temporary password, empty when the account already
// existed.
func (a *QuoteAccountProvisioner) FindOrCreateTx(ctx context.Context, tx pgx.Tx, email string) (quotesvc.Account, string, error) {
	user, tempPassword, err := a.users.FindOrCreateTx(ctx, tx, email)
	if err != nil {
		return quotesvc.Account{}, "", err
	}
	return quotesvc.Account{ID: user.ID, Email: user.Email}, tempPassword, nil
}

// Compile-time check that QuoteAccountProvisioner implements
// service.AccountProvisioner.
var _ quotesvc.AccountProvisioner = (*QuoteAccountProvisioner)(nil)
